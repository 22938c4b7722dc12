package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SaleRepository defines read access to the sales history
type SaleRepository interface {
	// FindByDateRange finds sales within [from, to), items included,
	// ordered by sale date ascending
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Sale, error)

	// FindByProduct finds sales containing the given product within [from, to)
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, from, to time.Time) ([]Sale, error)
}
