package reorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/reorder"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
)

// ReorderService handles reorder lifecycle operations: placing, listing,
// updating, cancelling and deleting. Receiving is handled by
// ReceivingService.
type ReorderService struct {
	reorderRepo     reorder.ReorderRepository
	supplierRepo    partner.SupplierRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewReorderService creates a new ReorderService
func NewReorderService(reorderRepo reorder.ReorderRepository, supplierRepo partner.SupplierRepository) *ReorderService {
	return &ReorderService{
		reorderRepo:  reorderRepo,
		supplierRepo: supplierRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReorderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReorderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Place creates a new reorder in placed status
func (s *ReorderService) Place(ctx context.Context, tenantID uuid.UUID, req CreateReorderRequest) (*ReorderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Reorder must have at least one item")
	}

	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	reorderNumber, err := s.reorderRepo.GenerateReorderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := reorder.NewReorderOrder(tenantID, reorderNumber, reorder.ReorderType(req.Type), supplier.ID, supplier.Name, supplier.GSTIN)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		item, err := reorder.NewReorderItem(order.ID, input.ProductID, input.ProductName, input.OrderedQty, input.UnitPrice)
		if err != nil {
			return nil, err
		}
		if input.Article != "" || input.HSNCode != "" {
			item.SetArticle(input.Article, input.HSNCode)
		}
		if input.GSTRate != nil {
			if err := item.SetGSTRate(*input.GSTRate); err != nil {
				return nil, err
			}
		}
		if err := order.AddItem(item); err != nil {
			return nil, err
		}
	}

	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := order.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.reorderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReorderPlaced(ctx, tenantID, order.GrandTotal)
	}

	response := ToReorderResponse(order)
	return &response, nil
}

// GetByID retrieves a reorder by ID
func (s *ReorderService) GetByID(ctx context.Context, tenantID, reorderID uuid.UUID) (*ReorderResponse, error) {
	order, err := s.reorderRepo.FindByIDForTenant(ctx, tenantID, reorderID)
	if err != nil {
		return nil, err
	}
	response := ToReorderResponse(order)
	return &response, nil
}

// GetByNumber retrieves a reorder by its number
func (s *ReorderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, reorderNumber string) (*ReorderResponse, error) {
	order, err := s.reorderRepo.FindByNumber(ctx, tenantID, reorderNumber)
	if err != nil {
		return nil, err
	}
	response := ToReorderResponse(order)
	return &response, nil
}

// List retrieves reorders with filtering and pagination
func (s *ReorderService) List(ctx context.Context, tenantID uuid.UUID, filter ReorderListFilter) ([]ReorderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	var (
		orders []reorder.ReorderOrder
		err    error
	)
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
		orders, err = s.reorderRepo.FindByStatus(ctx, tenantID, *filter.Status, domainFilter)
	} else {
		orders, err = s.reorderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reorderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReorderListItemResponses(orders), total, nil
}

// StatusSummary returns the tenant's reorder counts per status.
func (s *ReorderService) StatusSummary(ctx context.Context, tenantID uuid.UUID) (*ReorderStatusSummaryResponse, error) {
	summary := &ReorderStatusSummaryResponse{}
	for _, entry := range []struct {
		status reorder.ReorderStatus
		target *int64
	}{
		{reorder.ReorderStatusPlaced, &summary.Placed},
		{reorder.ReorderStatusPartialReceived, &summary.PartialReceived},
		{reorder.ReorderStatusReceived, &summary.Received},
		{reorder.ReorderStatusCancelled, &summary.Cancelled},
	} {
		count, err := s.reorderRepo.CountByStatus(ctx, tenantID, entry.status)
		if err != nil {
			return nil, err
		}
		*entry.target = count
	}
	return summary, nil
}

// Update updates a reorder's dates, notes and line quantities/prices.
// Rejected once the reorder is terminal.
func (s *ReorderService) Update(ctx context.Context, tenantID, reorderID uuid.UUID, req UpdateReorderRequest) (*ReorderResponse, error) {
	order, err := s.reorderRepo.FindByIDForTenant(ctx, tenantID, reorderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()

	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := order.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	for _, input := range req.Items {
		if input.OrderedQty != nil {
			if err := order.UpdateItemOrderedQty(input.ItemID, *input.OrderedQty); err != nil {
				return nil, err
			}
		}
		if input.UnitPrice != nil {
			if err := order.UpdateItemUnitPrice(input.ItemID, *input.UnitPrice); err != nil {
				return nil, err
			}
		}
	}

	if err := s.reorderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	response := ToReorderResponse(order)
	return &response, nil
}

// Cancel cancels a reorder. Only placed reorders can be cancelled.
func (s *ReorderService) Cancel(ctx context.Context, tenantID, reorderID uuid.UUID) (*ReorderResponse, error) {
	order, err := s.reorderRepo.FindByIDForTenant(ctx, tenantID, reorderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.reorderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReorderCancelled(ctx, tenantID)
	}

	response := ToReorderResponse(order)
	return &response, nil
}

// Delete deletes a reorder regardless of status. Linked purchases and
// stock movements from past receipts are left untouched.
func (s *ReorderService) Delete(ctx context.Context, tenantID, reorderID uuid.UUID) error {
	if _, err := s.reorderRepo.FindByIDForTenant(ctx, tenantID, reorderID); err != nil {
		return err
	}
	return s.reorderRepo.DeleteForTenant(ctx, tenantID, reorderID)
}

func (s *ReorderService) publishEvents(ctx context.Context, order *reorder.ReorderOrder) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		// Publish failures must not fail the business operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
