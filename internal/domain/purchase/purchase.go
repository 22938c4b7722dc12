package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseType distinguishes GST invoices from simple (untaxed) purchases.
// Tax fields are only meaningful when the type is gst.
type PurchaseType string

const (
	PurchaseTypeGST    PurchaseType = "gst"
	PurchaseTypeSimple PurchaseType = "simple"
)

// IsValid checks if the type is a valid PurchaseType
func (t PurchaseType) IsValid() bool {
	return t == PurchaseTypeGST || t == PurchaseTypeSimple
}

// PaymentStatus represents the payment state of a purchase
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PurchaseItem represents a line item on a purchase
type PurchaseItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	Article       string          `gorm:"type:varchar(100);index"` // Style/article grouping key
	Barcode       string          `gorm:"type:varchar(50)"`
	HSNCode       string          `gorm:"type:varchar(20)"` // Only meaningful for gst purchases
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SoldQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Maintained by the sales flow
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GSTRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // Percent, only meaningful for gst purchases
	MinStockLevel *decimal.Decimal `gorm:"type:decimal(18,4)"`                  // Optional per-line replenishment override
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a new purchase line item
func NewPurchaseItem(purchaseID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*PurchaseItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseItem{
		ID:           uuid.New(),
		PurchaseID:   purchaseID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		SoldQuantity: decimal.Zero,
		UnitPrice:    unitPrice,
		GSTRate:      decimal.Zero,
		LineTotal:    valueobject.RoundHalfUp2(quantity.Mul(unitPrice)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetArticle sets the article/style grouping key and barcode
func (i *PurchaseItem) SetArticle(article, barcode string) {
	i.Article = article
	i.Barcode = barcode
	i.UpdatedAt = time.Now()
}

// SetGST sets the line GST rate and HSN code
func (i *PurchaseItem) SetGST(rate decimal.Decimal, hsnCode string) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate cannot exceed 100 percent")
	}

	i.GSTRate = rate
	i.HSNCode = hsnCode
	i.UpdatedAt = time.Now()

	return nil
}

// SetMinStockLevel sets the optional per-line minimum stock override
func (i *PurchaseItem) SetMinStockLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	i.MinStockLevel = &level
	i.UpdatedAt = time.Now()

	return nil
}

// AvailableQuantity returns the quantity still on hand from this line.
// Always derived from Quantity - SoldQuantity, never stored.
func (i *PurchaseItem) AvailableQuantity() decimal.Decimal {
	available := i.Quantity.Sub(i.SoldQuantity)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// TaxAmount returns the GST amount for this line
func (i *PurchaseItem) TaxAmount() decimal.Decimal {
	if i.GSTRate.IsZero() {
		return decimal.Zero
	}
	return valueobject.RoundHalfUp2(i.GSTRate.Div(decimal.NewFromInt(100)).Mul(i.LineTotal))
}

// Purchase represents a recorded purchase (supplier invoice).
// Append-only: once created it is only read, never edited, so later
// receipts against the same reorder produce new purchases.
type Purchase struct {
	shared.TenantAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_tenant_invoice,priority:2"`
	Type          PurchaseType    `gorm:"type:varchar(10);not null;default:'gst'"`
	PurchaseDate  time.Time       `gorm:"not null;index"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName  string          `gorm:"type:varchar(200);not null"`
	SupplierGSTIN string          `gorm:"type:varchar(15)"`
	Items         []PurchaseItem  `gorm:"foreignKey:PurchaseID;references:ID"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IGSTAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a new purchase
func NewPurchase(tenantID uuid.UUID, purchaseType PurchaseType, invoiceNumber string, purchaseDate time.Time, supplierID uuid.UUID, supplierName, supplierGSTIN string) (*Purchase, error) {
	if !purchaseType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid purchase type")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	p := &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		Type:                purchaseType,
		PurchaseDate:        purchaseDate,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		SupplierGSTIN:       supplierGSTIN,
		Items:               make([]PurchaseItem, 0),
		Subtotal:            decimal.Zero,
		TotalTax:            decimal.Zero,
		CGSTAmount:          decimal.Zero,
		SGSTAmount:          decimal.Zero,
		IGSTAmount:          decimal.Zero,
		GrandTotal:          decimal.Zero,
		PaymentStatus:       PaymentStatusPending,
	}

	p.AddDomainEvent(NewPurchaseCreatedEvent(p))

	return p, nil
}

// AddItem adds a line item and recalculates totals
func (p *Purchase) AddItem(item *PurchaseItem) error {
	if item == nil {
		return shared.NewDomainError("INVALID_ITEM", "Item cannot be nil")
	}
	if p.IsSimple() && !item.GSTRate.IsZero() {
		return shared.NewDomainError("INVALID_GST_RATE", "Simple purchases cannot carry a GST rate")
	}

	item.PurchaseID = p.ID
	p.Items = append(p.Items, *item)
	p.recalculateTotals()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetNotes sets the purchase notes
func (p *Purchase) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MarkPaid marks the purchase fully paid
func (p *Purchase) MarkPaid() {
	p.PaymentStatus = PaymentStatusPaid
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MarkPartiallyPaid marks the purchase partially paid
func (p *Purchase) MarkPartiallyPaid() {
	p.PaymentStatus = PaymentStatusPartial
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsGST returns true when the purchase is a GST invoice
func (p *Purchase) IsGST() bool {
	return p.Type == PurchaseTypeGST
}

// IsSimple returns true when the purchase carries no tax breakdown
func (p *Purchase) IsSimple() bool {
	return p.Type == PurchaseTypeSimple
}

// TaxBreakdown returns (cgst, sgst, igst). Zero values for simple purchases.
func (p *Purchase) TaxBreakdown() (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	if !p.IsGST() {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}
	return p.CGSTAmount, p.SGSTAmount, p.IGSTAmount
}

// ItemCount returns the number of line items
func (p *Purchase) ItemCount() int {
	return len(p.Items)
}

// GetItemByProduct returns the first line for a product, or nil
func (p *Purchase) GetItemByProduct(productID uuid.UUID) *PurchaseItem {
	for idx := range p.Items {
		if p.Items[idx].ProductID == productID {
			return &p.Items[idx]
		}
	}
	return nil
}

// GetGrandTotalMoney returns the grand total as Money
func (p *Purchase) GetGrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.GrandTotal)
}

// recalculateTotals recomputes subtotal, tax and grand total.
// Intra-state GST splits evenly into CGST and SGST; IGST stays zero.
// SGST takes the remainder so the halves always sum to the total tax.
func (p *Purchase) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for idx := range p.Items {
		subtotal = subtotal.Add(p.Items[idx].LineTotal)
		if p.IsGST() {
			tax = tax.Add(p.Items[idx].TaxAmount())
		}
	}

	p.Subtotal = valueobject.RoundHalfUp2(subtotal)
	p.TotalTax = valueobject.RoundHalfUp2(tax)
	if p.IsGST() {
		p.CGSTAmount = valueobject.RoundHalfUp2(p.TotalTax.Div(decimal.NewFromInt(2)))
		p.SGSTAmount = p.TotalTax.Sub(p.CGSTAmount)
	} else {
		p.CGSTAmount = decimal.Zero
		p.SGSTAmount = decimal.Zero
	}
	p.IGSTAmount = decimal.Zero
	p.GrandTotal = valueobject.RoundHalfUp2(p.Subtotal.Add(p.TotalTax))
}
