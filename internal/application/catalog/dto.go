package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code          string           `json:"code" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Unit          string           `json:"unit" binding:"required,min=1,max=20"`
	Barcode       string           `json:"barcode" binding:"omitempty,max=50"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinStock      *decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Unit          *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	Barcode       *string          `json:"barcode" binding:"omitempty,max=50"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinStock      *decimal.Decimal `json:"min_stock"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Direction string          `json:"direction" binding:"required,oneof=add subtract"`
	Reason    string          `json:"reason" binding:"omitempty,max=200"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
	BelowMinStock bool            `json:"below_min_stock"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a Product to a ProductResponse
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		TenantID:      product.TenantID,
		Code:          product.Code,
		Name:          product.Name,
		Barcode:       product.Barcode,
		Unit:          product.Unit,
		PurchasePrice: product.PurchasePrice,
		SellingPrice:  product.SellingPrice,
		StockQuantity: product.StockQuantity,
		MinStock:      product.MinStock,
		BelowMinStock: product.IsBelowMinStock(),
		Status:        string(product.Status),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
		Version:       product.GetVersion(),
	}
}

// ToProductResponses converts a slice of Products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
