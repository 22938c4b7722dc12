package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/reorder"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var reorderFilterOptions = filterOptions{
	searchFields:  []string{"reorder_number", "supplier_name"},
	filterColumns: map[string]bool{"status": true, "type": true, "supplier_id": true},
	sortColumns: map[string]bool{
		"reorder_number": true,
		"order_date":     true,
		"grand_total":    true,
		"status":         true,
		"created_at":     true,
	},
	defaultSort: "created_at",
}

// GormReorderRepository implements reorder.ReorderRepository using GORM
type GormReorderRepository struct {
	db *gorm.DB
}

// NewGormReorderRepository creates a new GORM-based reorder repository
func NewGormReorderRepository(db *gorm.DB) *GormReorderRepository {
	return &GormReorderRepository{db: db}
}

func (r *GormReorderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("LinkedPurchases")
}

// FindByID finds a reorder with items and purchase links by ID
func (r *GormReorderRepository) FindByID(ctx context.Context, id uuid.UUID) (*reorder.ReorderOrder, error) {
	var order reorder.ReorderOrder
	err := r.preloaded(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForTenant finds a reorder by ID within a tenant
func (r *GormReorderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reorder.ReorderOrder, error) {
	var order reorder.ReorderOrder
	err := r.preloaded(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a reorder by its number within a tenant
func (r *GormReorderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, reorderNumber string) (*reorder.ReorderOrder, error) {
	var order reorder.ReorderOrder
	err := r.preloaded(ctx).
		Where("tenant_id = ? AND reorder_number = ?", tenantID, reorderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForTenant finds reorders for a tenant, newest first
func (r *GormReorderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reorder.ReorderOrder, error) {
	var orders []reorder.ReorderOrder
	query := r.preloaded(ctx).Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, reorderFilterOptions)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds reorders in a given status for a tenant
func (r *GormReorderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status reorder.ReorderStatus, filter shared.Filter) ([]reorder.ReorderOrder, error) {
	var orders []reorder.ReorderOrder
	query := r.preloaded(ctx).Where("tenant_id = ? AND status = ?", tenantID, status)
	query = applyFilter(query, filter, reorderFilterOptions)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a reorder with its items and links. Everything
// is written in one transaction; items removed from the aggregate are
// deleted. Purchase links are append-only.
func (r *GormReorderRepository) Save(ctx context.Context, order *reorder.ReorderOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "LinkedPurchases").Save(order).Error; err != nil {
			return err
		}
		return r.saveAssociations(tx, order)
	})
}

// SaveWithLock updates a reorder with an optimistic version check. The
// header update carries the version predicate; items and links ride the
// same transaction so a conflict rolls everything back.
func (r *GormReorderRepository) SaveWithLock(ctx context.Context, order *reorder.ReorderOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&reorder.ReorderOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"supplier_name":  order.SupplierName,
				"supplier_gstin": order.SupplierGSTIN,
				"expected_date":  order.ExpectedDate,
				"subtotal":       order.Subtotal,
				"total_tax":      order.TotalTax,
				"grand_total":    order.GrandTotal,
				"status":         order.Status,
				"notes":          order.Notes,
				"received_at":    order.ReceivedAt,
				"version":        order.Version,
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveAssociations(tx, order)
	})
}

func (r *GormReorderRepository) saveAssociations(tx *gorm.DB, order *reorder.ReorderOrder) error {
	keepIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		order.Items[i].ReorderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
		keepIDs = append(keepIDs, order.Items[i].ID)
	}

	query := tx.Where("reorder_id = ?", order.ID)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	if err := query.Delete(&reorder.ReorderItem{}).Error; err != nil {
		return err
	}

	for i := range order.LinkedPurchases {
		order.LinkedPurchases[i].ReorderID = order.ID
		if err := tx.Save(&order.LinkedPurchases[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant deletes a reorder within a tenant, any status
func (r *GormReorderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reorder_id = ?", id).Delete(&reorder.ReorderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reorder_id = ?", id).Delete(&reorder.ReorderPurchaseLink{}).Error; err != nil {
			return err
		}

		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&reorder.ReorderOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts reorders for a tenant
func (r *GormReorderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&reorder.ReorderOrder{}).Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, reorderFilterOptions)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts reorders by status for a tenant
func (r *GormReorderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status reorder.ReorderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reorder.ReorderOrder{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateReorderNumber generates the next sequential number
// (RO-YYYY-NNNNN) for the tenant
func (r *GormReorderRepository) GenerateReorderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("RO-%d-", year)

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&reorder.ReorderOrder{}).
		Where("tenant_id = ? AND reorder_number LIKE ?", tenantID, prefix+"%").
		Order("reorder_number desc").
		Limit(1).
		Pluck("reorder_number", &lastNumber).Error
	if err != nil {
		return "", fmt.Errorf("failed to query last reorder number: %w", err)
	}

	next := 1
	if lastNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(lastNumber, prefix+"%d", &seq); err == nil {
			next = seq + 1
		}
	}

	number := fmt.Sprintf("%s%05d", prefix, next)

	// Verify uniqueness in case of concurrent generation
	var count int64
	err = r.db.WithContext(ctx).
		Model(&reorder.ReorderOrder{}).
		Where("tenant_id = ? AND reorder_number = ?", tenantID, number).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", fmt.Errorf("generated reorder number %s already exists", number)
	}

	return number, nil
}

// Ensure GormReorderRepository implements ReorderRepository
var _ reorder.ReorderRepository = (*GormReorderRepository)(nil)
