package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var purchaseFilterOptions = filterOptions{
	searchFields:  []string{"invoice_number", "supplier_name"},
	filterColumns: map[string]bool{"type": true, "payment_status": true, "supplier_id": true},
	sortColumns: map[string]bool{
		"invoice_number": true,
		"purchase_date":  true,
		"grand_total":    true,
		"created_at":     true,
	},
	defaultSort: "purchase_date",
}

// GormPurchaseRepository implements purchase.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GORM-based purchase repository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase with its items by ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForTenant finds a purchase by ID within a tenant
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByInvoiceNumber finds a purchase by invoice number within a tenant
func (r *GormPurchaseRepository) FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForTenant finds all purchases for a tenant, items included
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	query := r.db.WithContext(ctx).Preload("Items").Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, purchaseFilterOptions)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByDateRange finds purchases within [from, to), items included,
// ordered by purchase date descending
func (r *GormPurchaseRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND purchase_date >= ? AND purchase_date < ?", tenantID, from, to).
		Order("purchase_date desc").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindBySupplier finds purchases for a supplier
func (r *GormPurchaseRepository) FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase
	query := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID)
	query = applyFilter(query, filter, purchaseFilterOptions)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save creates or updates a purchase with its items. Header and items
// are written in one transaction; items removed from the aggregate are
// deleted.
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(p).Error; err != nil {
			return err
		}

		keepIDs := make([]uuid.UUID, 0, len(p.Items))
		for i := range p.Items {
			p.Items[i].PurchaseID = p.ID
			if err := tx.Save(&p.Items[i]).Error; err != nil {
				return err
			}
			keepIDs = append(keepIDs, p.Items[i].ID)
		}

		query := tx.Where("purchase_id = ?", p.ID)
		if len(keepIDs) > 0 {
			query = query.Where("id NOT IN ?", keepIDs)
		}
		return query.Delete(&purchase.PurchaseItem{}).Error
	})
}

// CountForTenant counts purchases for a tenant
func (r *GormPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&purchase.Purchase{}).Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, purchaseFilterOptions)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByInvoiceNumber checks whether an invoice number is taken
func (r *GormPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&purchase.Purchase{}).
		Where("tenant_id = ? AND invoice_number = ?", tenantID, invoiceNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ purchase.PurchaseRepository = (*GormPurchaseRepository)(nil)
