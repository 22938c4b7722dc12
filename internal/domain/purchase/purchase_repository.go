package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByIDForTenant finds a purchase by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)

	// FindByInvoiceNumber finds a purchase by invoice number within a tenant
	FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Purchase, error)

	// FindAllForTenant finds all purchases for a tenant, items included,
	// ordered by purchase date descending
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, error)

	// FindByDateRange finds purchases within [from, to), items included,
	// ordered by purchase date descending
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Purchase, error)

	// FindBySupplier finds purchases for a supplier
	FindBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID, filter shared.Filter) ([]Purchase, error)

	// Save creates or updates a purchase with its items
	Save(ctx context.Context, purchase *Purchase) error

	// CountForTenant counts purchases for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByInvoiceNumber checks whether an invoice number is taken
	ExistsByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (bool, error)
}
