package reorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// ReorderRepository defines the interface for reorder persistence
type ReorderRepository interface {
	// FindByID finds a reorder with items and purchase links by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReorderOrder, error)

	// FindByIDForTenant finds a reorder by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReorderOrder, error)

	// FindByNumber finds a reorder by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, reorderNumber string) (*ReorderOrder, error)

	// FindAllForTenant finds reorders for a tenant, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReorderOrder, error)

	// FindByStatus finds reorders in a given status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ReorderStatus, filter shared.Filter) ([]ReorderOrder, error)

	// Save creates or updates a reorder with its items and links
	Save(ctx context.Context, order *ReorderOrder) error

	// SaveWithLock updates a reorder with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the stored version differs.
	SaveWithLock(ctx context.Context, order *ReorderOrder, expectedVersion int) error

	// Delete deletes a reorder within a tenant, any status
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts reorders for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts reorders by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status ReorderStatus) (int64, error)

	// GenerateReorderNumber generates the next sequential number
	// (RO-YYYY-NNNNN) for the tenant
	GenerateReorderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
