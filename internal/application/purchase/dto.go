package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/shopspring/decimal"
)

// ==================== Purchase DTOs ====================

// CreatePurchaseRequest represents a request to record a purchase
type CreatePurchaseRequest struct {
	Type          string                    `json:"type" binding:"required,oneof=gst simple"`
	InvoiceNumber string                    `json:"invoice_number" binding:"required,min=1,max=50"`
	PurchaseDate  time.Time                 `json:"purchase_date" binding:"required"`
	SupplierID    uuid.UUID                 `json:"supplier_id" binding:"required"`
	Notes         string                    `json:"notes" binding:"omitempty,max=500"`
	Items         []CreatePurchaseItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreatePurchaseItemInput represents a line in the create purchase request
type CreatePurchaseItemInput struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	ProductName   string           `json:"product_name" binding:"required,min=1,max=200"`
	Article       string           `json:"article" binding:"omitempty,max=100"`
	Barcode       string           `json:"barcode" binding:"omitempty,max=50"`
	HSNCode       string           `json:"hsn_code" binding:"omitempty,max=20"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseItemResponse represents a purchase line in API responses
type PurchaseItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	ProductName   string           `json:"product_name"`
	Article       string           `json:"article,omitempty"`
	Barcode       string           `json:"barcode,omitempty"`
	HSNCode       string           `json:"hsn_code,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	SoldQuantity  decimal.Decimal  `json:"sold_quantity"`
	AvailableQty  decimal.Decimal  `json:"available_qty"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	GSTRate       decimal.Decimal  `json:"gst_rate"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level,omitempty"`
	LineTotal     decimal.Decimal  `json:"line_total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	TenantID      uuid.UUID              `json:"tenant_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Type          string                 `json:"type"`
	PurchaseDate  time.Time              `json:"purchase_date"`
	SupplierID    uuid.UUID              `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name"`
	SupplierGSTIN string                 `json:"supplier_gstin,omitempty"`
	Items         []PurchaseItemResponse `json:"items"`
	ItemCount     int                    `json:"item_count"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TotalTax      decimal.Decimal        `json:"total_tax"`
	CGSTAmount    decimal.Decimal        `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal        `json:"sgst_amount"`
	IGSTAmount    decimal.Decimal        `json:"igst_amount"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
	PaymentStatus string                 `json:"payment_status"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// PurchaseListItemResponse represents a purchase in list responses
type PurchaseListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Type          string          `json:"type"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	SupplierName  string          `json:"supplier_name"`
	ItemCount     int             `json:"item_count"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus string          `json:"payment_status"`
}

// ToPurchaseItemResponse converts a PurchaseItem to a response
func ToPurchaseItemResponse(item *purchase.PurchaseItem) PurchaseItemResponse {
	return PurchaseItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		Article:       item.Article,
		Barcode:       item.Barcode,
		HSNCode:       item.HSNCode,
		Quantity:      item.Quantity,
		SoldQuantity:  item.SoldQuantity,
		AvailableQty:  item.AvailableQuantity(),
		UnitPrice:     item.UnitPrice,
		GSTRate:       item.GSTRate,
		MinStockLevel: item.MinStockLevel,
		LineTotal:     item.LineTotal,
	}
}

// ToPurchaseResponse converts a Purchase to a PurchaseResponse
func ToPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(p.Items))
	for i := range p.Items {
		items[i] = ToPurchaseItemResponse(&p.Items[i])
	}
	return PurchaseResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		InvoiceNumber: p.InvoiceNumber,
		Type:          string(p.Type),
		PurchaseDate:  p.PurchaseDate,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		SupplierGSTIN: p.SupplierGSTIN,
		Items:         items,
		ItemCount:     len(p.Items),
		Subtotal:      p.Subtotal,
		TotalTax:      p.TotalTax,
		CGSTAmount:    p.CGSTAmount,
		SGSTAmount:    p.SGSTAmount,
		IGSTAmount:    p.IGSTAmount,
		GrandTotal:    p.GrandTotal,
		PaymentStatus: string(p.PaymentStatus),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPurchaseListItemResponses converts purchases to list responses
func ToPurchaseListItemResponses(purchases []purchase.Purchase) []PurchaseListItemResponse {
	responses := make([]PurchaseListItemResponse, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		responses[i] = PurchaseListItemResponse{
			ID:            p.ID,
			InvoiceNumber: p.InvoiceNumber,
			Type:          string(p.Type),
			PurchaseDate:  p.PurchaseDate,
			SupplierName:  p.SupplierName,
			ItemCount:     len(p.Items),
			GrandTotal:    p.GrandTotal,
			PaymentStatus: string(p.PaymentStatus),
		}
	}
	return responses
}
