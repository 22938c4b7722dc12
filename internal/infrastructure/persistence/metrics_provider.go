package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/domain/catalog"
)

// CatalogMetricsProvider answers the catalog queries the periodic metrics
// collector needs. Tenants are discovered from the product table, so a
// tenant with no products reports no gauges rather than zeroes.
type CatalogMetricsProvider struct {
	db *gorm.DB
}

// NewCatalogMetricsProvider creates a new CatalogMetricsProvider
func NewCatalogMetricsProvider(db *gorm.DB) *CatalogMetricsProvider {
	return &CatalogMetricsProvider{db: db}
}

// GetLowStockCount returns the count of active products below their
// minimum stock level for a tenant
func (p *CatalogMetricsProvider) GetLowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("tenant_id = ? AND status = ? AND min_stock > 0 AND stock_quantity < min_stock", tenantID, catalog.ProductStatusActive).
		Count(&count).Error
	return count, err
}

// GetActiveTenantIDs returns the distinct tenant IDs present in the
// product table
func (p *CatalogMetricsProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}
