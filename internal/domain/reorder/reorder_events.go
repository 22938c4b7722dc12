package reorder

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReorder = "ReorderOrder"

// Event type constants
const (
	EventTypeReorderPlaced    = "ReorderPlaced"
	EventTypeReorderReceived  = "ReorderReceived"
	EventTypeReorderCancelled = "ReorderCancelled"
)

// ReorderPlacedEvent is published when a reorder is placed
type ReorderPlacedEvent struct {
	shared.BaseDomainEvent
	ReorderID     uuid.UUID   `json:"reorder_id"`
	ReorderNumber string      `json:"reorder_number"`
	Type          ReorderType `json:"type"`
	SupplierID    uuid.UUID   `json:"supplier_id"`
	SupplierName  string      `json:"supplier_name"`
}

// NewReorderPlacedEvent creates a new ReorderPlacedEvent
func NewReorderPlacedEvent(order *ReorderOrder) *ReorderPlacedEvent {
	return &ReorderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReorderPlaced, AggregateTypeReorder, order.ID, order.TenantID),
		ReorderID:       order.ID,
		ReorderNumber:   order.ReorderNumber,
		Type:            order.Type,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
	}
}

// ReorderReceivedEvent is published after a receiving round is applied
type ReorderReceivedEvent struct {
	shared.BaseDomainEvent
	ReorderID     uuid.UUID       `json:"reorder_id"`
	ReorderNumber string          `json:"reorder_number"`
	Status        ReorderStatus   `json:"status"`
	Deltas        []ReceiptDelta  `json:"deltas"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewReorderReceivedEvent creates a new ReorderReceivedEvent
func NewReorderReceivedEvent(order *ReorderOrder, deltas []ReceiptDelta) *ReorderReceivedEvent {
	return &ReorderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReorderReceived, AggregateTypeReorder, order.ID, order.TenantID),
		ReorderID:       order.ID,
		ReorderNumber:   order.ReorderNumber,
		Status:          order.Status,
		Deltas:          deltas,
		GrandTotal:      order.GrandTotal,
	}
}

// ReorderCancelledEvent is published when a reorder is cancelled
type ReorderCancelledEvent struct {
	shared.BaseDomainEvent
	ReorderID     uuid.UUID `json:"reorder_id"`
	ReorderNumber string    `json:"reorder_number"`
}

// NewReorderCancelledEvent creates a new ReorderCancelledEvent
func NewReorderCancelledEvent(order *ReorderOrder) *ReorderCancelledEvent {
	return &ReorderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReorderCancelled, AggregateTypeReorder, order.ID, order.TenantID),
		ReorderID:       order.ID,
		ReorderNumber:   order.ReorderNumber,
	}
}
