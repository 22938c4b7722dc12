package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM.
// The sales history is read-only here; bills are written by the POS flow.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GORM-based sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByDateRange finds sales within [from, to), items included,
// ordered by sale date ascending
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var bills []sales.Sale
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND sale_date >= ? AND sale_date < ?", tenantID, from, to).
		Order("sale_date asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// FindByProduct finds sales containing the given product within [from, to)
func (r *GormSaleRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var bills []sales.Sale
	err := r.db.WithContext(ctx).Preload("Items").
		Joins("JOIN sale_items ON sale_items.sale_id = sales.id").
		Where("sales.tenant_id = ? AND sale_items.product_id = ? AND sales.sale_date >= ? AND sales.sale_date < ?",
			tenantID, productID, from, to).
		Distinct("sales.*").
		Order("sales.sale_date asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
