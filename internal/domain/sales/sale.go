package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleType distinguishes outgoing sales from customer returns
type SaleType string

const (
	SaleTypeSale   SaleType = "sale"
	SaleTypeReturn SaleType = "return"
)

// SaleItem represents a line on a sale bill
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is the sales history record consumed by the velocity aggregator.
// This context owns no write path here; bills are produced by the POS flow.
type Sale struct {
	shared.TenantAggregateRoot
	BillNumber string          `gorm:"type:varchar(50);not null;index"`
	Type       SaleType        `gorm:"type:varchar(10);not null;default:'sale'"`
	SaleDate   time.Time       `gorm:"not null;index"`
	Items      []SaleItem      `gorm:"foreignKey:SaleID;references:ID"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// IsReturn returns true for customer returns
func (s *Sale) IsReturn() bool {
	return s.Type == SaleTypeReturn
}
