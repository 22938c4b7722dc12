package purchase

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchaseCreated = "PurchaseCreated"
)

// PurchaseCreatedEvent is published when a purchase is recorded
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID    uuid.UUID       `json:"purchase_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Type          PurchaseType    `json:"type"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseID:      p.ID,
		InvoiceNumber:   p.InvoiceNumber,
		Type:            p.Type,
		SupplierID:      p.SupplierID,
		SupplierName:    p.SupplierName,
		GrandTotal:      p.GrandTotal,
	}
}
