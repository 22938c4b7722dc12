package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseService records and reads purchases. Purchases are append-only:
// once recorded they are never edited, only their payment status moves.
type PurchaseService struct {
	purchaseRepo   purchase.PurchaseRepository
	supplierRepo   partner.SupplierRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo purchase.PurchaseRepository, supplierRepo partner.SupplierRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a manually entered purchase. The purchase is written
// first, then stock moves and the last cost syncs, mirroring the
// receiving flow.
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	exists, err := s.purchaseRepo.ExistsByInvoiceNumber(ctx, tenantID, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Purchase with this invoice number already exists")
	}

	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	record, err := purchase.NewPurchase(tenantID, purchase.PurchaseType(req.Type), req.InvoiceNumber, req.PurchaseDate, supplier.ID, supplier.Name, supplier.GSTIN)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		record.SetNotes(req.Notes)
	}

	for _, input := range req.Items {
		item, err := purchase.NewPurchaseItem(record.ID, input.ProductID, input.ProductName, input.Quantity, input.UnitPrice)
		if err != nil {
			return nil, err
		}
		if input.Article != "" || input.Barcode != "" {
			item.SetArticle(input.Article, input.Barcode)
		}
		if input.GSTRate != nil {
			if err := item.SetGST(*input.GSTRate, input.HSNCode); err != nil {
				return nil, err
			}
		}
		if input.MinStockLevel != nil {
			if err := item.SetMinStockLevel(*input.MinStockLevel); err != nil {
				return nil, err
			}
		}
		if err := record.AddItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.purchaseRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	for idx := range record.Items {
		item := &record.Items[idx]
		if err := s.productRepo.AdjustStock(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("stock adjustment failed after purchase was recorded",
				zap.String("invoice_number", record.InvoiceNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			return nil, err
		}
		if err := s.syncProductPrice(ctx, tenantID, item); err != nil {
			s.logger.Error("price sync failed after purchase was recorded",
				zap.String("invoice_number", record.InvoiceNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	s.publishEvents(ctx, record)

	response := ToPurchaseResponse(record)
	return &response, nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	record, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(record)
	return &response, nil
}

// GetByInvoiceNumber retrieves a purchase by its invoice number
func (s *PurchaseService) GetByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*PurchaseResponse, error) {
	record, err := s.purchaseRepo.FindByInvoiceNumber(ctx, tenantID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(record)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseListFilter) ([]PurchaseListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "purchase_date"
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
	}

	var (
		purchases []purchase.Purchase
		err       error
	)
	switch {
	case filter.SupplierID != nil:
		purchases, err = s.purchaseRepo.FindBySupplier(ctx, tenantID, *filter.SupplierID, domainFilter)
	case filter.From != nil && filter.To != nil:
		purchases, err = s.purchaseRepo.FindByDateRange(ctx, tenantID, *filter.From, *filter.To)
	default:
		purchases, err = s.purchaseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseListItemResponses(purchases), total, nil
}

// MarkPaid marks a purchase fully paid
func (s *PurchaseService) MarkPaid(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	record, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}

	record.MarkPaid()

	if err := s.purchaseRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(record)
	return &response, nil
}

// MarkPartiallyPaid marks a purchase partially paid
func (s *PurchaseService) MarkPartiallyPaid(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	record, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}

	record.MarkPartiallyPaid()

	if err := s.purchaseRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(record)
	return &response, nil
}

// syncProductPrice records the purchase unit price as the product's last
// cost
func (s *PurchaseService) syncProductPrice(ctx context.Context, tenantID uuid.UUID, item *purchase.PurchaseItem) error {
	if !item.UnitPrice.IsPositive() {
		return nil
	}

	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
	if err != nil {
		return err
	}

	product.SyncPurchasePrice(item.UnitPrice)
	return s.productRepo.Save(ctx, product)
}

func (s *PurchaseService) publishEvents(ctx context.Context, record *purchase.Purchase) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range record.GetDomainEvents() {
		// Publish failures must not fail the business operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	record.ClearDomainEvents()
}
