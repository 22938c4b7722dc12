package reorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/retailops/backend/internal/domain/reorder"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReceivingService reconciles goods arriving against a reorder. Each
// round durably records a purchase first, then moves stock, then updates
// the reorder itself, so a crash part-way leaves an auditable purchase
// rather than silently lost goods. There is no automatic compensation:
// a stock failure after the purchase exists is surfaced to the caller.
type ReceivingService struct {
	reorderRepo     reorder.ReorderRepository
	purchaseRepo    purchase.PurchaseRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(reorderRepo reorder.ReorderRepository, purchaseRepo purchase.PurchaseRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ReceivingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivingService{
		reorderRepo:  reorderRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ReceivingService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// MarkReceived applies one receiving round. Caller-supplied quantities are
// the new cumulative received quantities; lines without an entry keep their
// stored value. Returns shared.ErrNothingToReceive when no line increased.
func (s *ReceivingService) MarkReceived(ctx context.Context, tenantID, reorderID uuid.UUID, req MarkReceivedRequest) (*MarkReceivedResponse, error) {
	order, err := s.reorderRepo.FindByIDForTenant(ctx, tenantID, reorderID)
	if err != nil {
		return nil, err
	}

	expectedVersion := order.GetVersion()
	priorLinks := len(order.LinkedPurchases)

	updates := make([]reorder.ReceiptUpdate, 0, len(req.Lines))
	for _, line := range req.Lines {
		updates = append(updates, reorder.ReceiptUpdate{
			ProductID:      line.ProductID,
			NewReceivedQty: line.ReceivedQty,
			UnitPrice:      line.UnitPrice,
		})
	}

	deltas, err := order.ApplyReceipt(updates)
	if err != nil {
		return nil, err
	}

	generated, err := s.buildPurchase(order, deltas, priorLinks)
	if err != nil {
		return nil, err
	}

	// The purchase is the durable record of the receipt and is written
	// before any stock moves.
	if err := s.purchaseRepo.Save(ctx, generated); err != nil {
		return nil, err
	}

	for _, delta := range deltas {
		if err := s.productRepo.AdjustStock(ctx, tenantID, delta.ProductID, delta.Quantity); err != nil {
			s.logger.Error("stock adjustment failed after purchase was recorded",
				zap.String("reorder_number", order.ReorderNumber),
				zap.String("purchase_id", generated.ID.String()),
				zap.String("product_id", delta.ProductID.String()),
				zap.Error(err))
			return nil, err
		}
		if err := s.syncProductPrice(ctx, tenantID, delta); err != nil {
			s.logger.Error("price sync failed after purchase was recorded",
				zap.String("reorder_number", order.ReorderNumber),
				zap.String("product_id", delta.ProductID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	if err := order.AppendLinkedPurchase(generated.ID); err != nil {
		return nil, err
	}

	if err := s.reorderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order, generated)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordReceipt(ctx, tenantID, generated.GrandTotal)
	}

	s.logger.Info("receiving round applied",
		zap.String("reorder_number", order.ReorderNumber),
		zap.String("invoice_number", generated.InvoiceNumber),
		zap.String("status", order.Status.String()),
		zap.Int("lines_received", len(deltas)))

	return &MarkReceivedResponse{
		Purchase: ToGeneratedPurchaseResponse(generated),
		Reorder:  ToReorderResponse(order),
	}, nil
}

// buildPurchase constructs the purchase recording this round's deltas.
// Invoice numbers embed the reorder number; follow-up rounds against the
// same reorder get a round suffix to stay unique per tenant.
func (s *ReceivingService) buildPurchase(order *reorder.ReorderOrder, deltas []reorder.ReceiptDelta, priorLinks int) (*purchase.Purchase, error) {
	invoiceNumber := "RO-" + order.ReorderNumber
	if priorLinks > 0 {
		invoiceNumber = fmt.Sprintf("RO-%s-%d", order.ReorderNumber, priorLinks+1)
	}

	purchaseType := purchase.PurchaseTypeGST
	if order.IsSimple() {
		purchaseType = purchase.PurchaseTypeSimple
	}

	generated, err := purchase.NewPurchase(order.TenantID, purchaseType, invoiceNumber, time.Now(), order.SupplierID, order.SupplierName, order.SupplierGSTIN)
	if err != nil {
		return nil, err
	}
	generated.SetNotes(fmt.Sprintf("Generated from reorder %s", order.ReorderNumber))

	for _, delta := range deltas {
		item, err := purchase.NewPurchaseItem(generated.ID, delta.ProductID, delta.ProductName, delta.Quantity, delta.UnitPrice)
		if err != nil {
			return nil, err
		}
		if delta.Article != "" {
			item.SetArticle(delta.Article, "")
		}
		if generated.IsGST() && delta.GSTRate.IsPositive() {
			if err := item.SetGST(delta.GSTRate, delta.HSNCode); err != nil {
				return nil, err
			}
		}
		if err := generated.AddItem(item); err != nil {
			return nil, err
		}
	}

	return generated, nil
}

// syncProductPrice records the receipt's unit price as the product's last
// cost
func (s *ReceivingService) syncProductPrice(ctx context.Context, tenantID uuid.UUID, delta reorder.ReceiptDelta) error {
	if !delta.UnitPrice.IsPositive() {
		return nil
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, delta.ProductID)
	if err != nil {
		return err
	}

	product.SyncPurchasePrice(delta.UnitPrice)
	return s.productRepo.Save(ctx, product)
}

func (s *ReceivingService) publishEvents(ctx context.Context, order *reorder.ReorderOrder, generated *purchase.Purchase) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range generated.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	generated.ClearDomainEvents()
	for _, event := range order.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
