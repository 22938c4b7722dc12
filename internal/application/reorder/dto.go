package reorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/retailops/backend/internal/domain/reorder"
	"github.com/shopspring/decimal"
)

// ==================== Reorder DTOs ====================

// CreateReorderRequest represents a request to place a reorder
type CreateReorderRequest struct {
	Type         string                   `json:"type" binding:"required,oneof=gst simple"`
	SupplierID   uuid.UUID                `json:"supplier_id" binding:"required"`
	ExpectedDate *time.Time               `json:"expected_date"`
	Notes        string                   `json:"notes"`
	Items        []CreateReorderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateReorderItemInput represents a line in the create reorder request
type CreateReorderItemInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"required,min=1,max=200"`
	Article     string           `json:"article"`
	HSNCode     string           `json:"hsn_code"`
	OrderedQty  decimal.Decimal  `json:"ordered_qty" binding:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	GSTRate     *decimal.Decimal `json:"gst_rate"`
}

// UpdateReorderItemInput updates one existing line
type UpdateReorderItemInput struct {
	ItemID     uuid.UUID        `json:"item_id" binding:"required"`
	OrderedQty *decimal.Decimal `json:"ordered_qty"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

// UpdateReorderRequest represents a request to update a reorder.
// Rejected once the reorder is terminal.
type UpdateReorderRequest struct {
	ExpectedDate *time.Time               `json:"expected_date"`
	Notes        *string                  `json:"notes"`
	Items        []UpdateReorderItemInput `json:"items,omitempty" binding:"omitempty,dive"`
}

// ReceiveLineInput is one line of a receiving round. ReceivedQty is the
// new cumulative received quantity for the product, not an increment.
type ReceiveLineInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ReceivedQty decimal.Decimal  `json:"received_qty"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// MarkReceivedRequest represents a receiving round against a reorder
type MarkReceivedRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1,dive"`
}

// ReorderListFilter represents filter options for the reorder list
type ReorderListFilter struct {
	Search   string                 `form:"search"`
	Status   *reorder.ReorderStatus `form:"status"`
	Page     int                    `form:"page"`
	PageSize int                    `form:"page_size"`
	OrderBy  string                 `form:"order_by"`
	OrderDir string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReorderStatusSummaryResponse holds the tenant's reorder counts per status
type ReorderStatusSummaryResponse struct {
	Placed          int64 `json:"placed"`
	PartialReceived int64 `json:"partial_received"`
	Received        int64 `json:"received"`
	Cancelled       int64 `json:"cancelled"`
}

// ReorderItemResponse represents a reorder line in API responses
type ReorderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Article     string          `json:"article,omitempty"`
	HSNCode     string          `json:"hsn_code,omitempty"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	PendingQty  decimal.Decimal `json:"pending_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ReorderResponse represents a reorder in API responses
type ReorderResponse struct {
	ID                uuid.UUID             `json:"id"`
	TenantID          uuid.UUID             `json:"tenant_id"`
	ReorderNumber     string                `json:"reorder_number"`
	Type              string                `json:"type"`
	SupplierID        uuid.UUID             `json:"supplier_id"`
	SupplierName      string                `json:"supplier_name"`
	SupplierGSTIN     string                `json:"supplier_gstin,omitempty"`
	OrderDate         time.Time             `json:"order_date"`
	ExpectedDate      *time.Time            `json:"expected_date,omitempty"`
	Items             []ReorderItemResponse `json:"items"`
	ItemCount         int                   `json:"item_count"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	TotalTax          decimal.Decimal       `json:"total_tax"`
	GrandTotal        decimal.Decimal       `json:"grand_total"`
	Status            string                `json:"status"`
	Notes             string                `json:"notes,omitempty"`
	LinkedPurchaseIDs []uuid.UUID           `json:"linked_purchase_ids"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
	ReceivedAt        *time.Time            `json:"received_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Version           int                   `json:"version"`
}

// ReorderListItemResponse represents a reorder in list responses
type ReorderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReorderNumber string          `json:"reorder_number"`
	Type          string          `json:"type"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	OrderDate     time.Time       `json:"order_date"`
	ExpectedDate  *time.Time      `json:"expected_date,omitempty"`
	ItemCount     int             `json:"item_count"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// GeneratedPurchaseResponse describes the purchase created by a receipt
type GeneratedPurchaseResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Type          string          `json:"type"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	ItemCount     int             `json:"item_count"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal `json:"igst_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus string          `json:"payment_status"`
}

// MarkReceivedResponse is the result of a receiving round
type MarkReceivedResponse struct {
	Purchase GeneratedPurchaseResponse `json:"purchase"`
	Reorder  ReorderResponse           `json:"reorder"`
}

// ==================== Suggestion DTOs ====================

// SuggestionRow is one replenishment candidate
type SuggestionRow struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Article         string          `json:"article,omitempty"`
	Label           string          `json:"label"`
	AvailableQty    decimal.Decimal `json:"available_qty"`
	MinStock        decimal.Decimal `json:"min_stock"`
	VelocityPerWeek decimal.Decimal `json:"velocity_per_week"`
	LastPurchaseQty decimal.Decimal `json:"last_purchase_qty"`
	LastUnitPrice   decimal.Decimal `json:"last_unit_price"`
	SuggestedQty    decimal.Decimal `json:"suggested_qty"`
}

// ==================== Converters ====================

// ToReorderResponse converts a domain reorder to its API representation
func ToReorderResponse(order *reorder.ReorderOrder) ReorderResponse {
	items := make([]ReorderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		item := &order.Items[idx]
		items = append(items, ReorderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Article:     item.Article,
			HSNCode:     item.HSNCode,
			OrderedQty:  item.OrderedQty,
			ReceivedQty: item.ReceivedQty,
			PendingQty:  item.PendingQty(),
			UnitPrice:   item.UnitPrice,
			GSTRate:     item.GSTRate,
			LineTotal:   item.LineTotal,
		})
	}

	return ReorderResponse{
		ID:                order.ID,
		TenantID:          order.TenantID,
		ReorderNumber:     order.ReorderNumber,
		Type:              string(order.Type),
		SupplierID:        order.SupplierID,
		SupplierName:      order.SupplierName,
		SupplierGSTIN:     order.SupplierGSTIN,
		OrderDate:         order.OrderDate,
		ExpectedDate:      order.ExpectedDate,
		Items:             items,
		ItemCount:         order.ItemCount(),
		Subtotal:          order.Subtotal,
		TotalTax:          order.TotalTax,
		GrandTotal:        order.GrandTotal,
		Status:            order.Status.String(),
		Notes:             order.Notes,
		LinkedPurchaseIDs: order.LinkedPurchaseIDs(),
		CancelledAt:       order.CancelledAt,
		ReceivedAt:        order.ReceivedAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		Version:           order.GetVersion(),
	}
}

// ToReorderListItemResponses converts reorders to list representations
func ToReorderListItemResponses(orders []reorder.ReorderOrder) []ReorderListItemResponse {
	responses := make([]ReorderListItemResponse, 0, len(orders))
	for idx := range orders {
		o := &orders[idx]
		responses = append(responses, ReorderListItemResponse{
			ID:            o.ID,
			ReorderNumber: o.ReorderNumber,
			Type:          string(o.Type),
			SupplierID:    o.SupplierID,
			SupplierName:  o.SupplierName,
			OrderDate:     o.OrderDate,
			ExpectedDate:  o.ExpectedDate,
			ItemCount:     o.ItemCount(),
			GrandTotal:    o.GrandTotal,
			Status:        o.Status.String(),
			CreatedAt:     o.CreatedAt,
		})
	}
	return responses
}

// ToGeneratedPurchaseResponse converts a generated purchase to its API
// representation
func ToGeneratedPurchaseResponse(p *purchase.Purchase) GeneratedPurchaseResponse {
	return GeneratedPurchaseResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		Type:          string(p.Type),
		PurchaseDate:  p.PurchaseDate,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		ItemCount:     p.ItemCount(),
		Subtotal:      p.Subtotal,
		TotalTax:      p.TotalTax,
		CGSTAmount:    p.CGSTAmount,
		SGSTAmount:    p.SGSTAmount,
		IGSTAmount:    p.IGSTAmount,
		GrandTotal:    p.GrandTotal,
		PaymentStatus: string(p.PaymentStatus),
	}
}
