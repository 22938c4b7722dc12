package reorder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReorderStatus represents the status of a reorder
type ReorderStatus string

const (
	ReorderStatusPlaced          ReorderStatus = "placed"
	ReorderStatusPartialReceived ReorderStatus = "partial_received"
	ReorderStatusReceived        ReorderStatus = "received"
	ReorderStatusCancelled       ReorderStatus = "cancelled"
)

// IsValid checks if the status is a valid ReorderStatus
func (s ReorderStatus) IsValid() bool {
	switch s {
	case ReorderStatusPlaced, ReorderStatusPartialReceived, ReorderStatusReceived, ReorderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReorderStatus
func (s ReorderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReorderStatus) CanTransitionTo(target ReorderStatus) bool {
	switch s {
	case ReorderStatusPlaced:
		return target == ReorderStatusPartialReceived || target == ReorderStatusReceived || target == ReorderStatusCancelled
	case ReorderStatusPartialReceived:
		return target == ReorderStatusPartialReceived || target == ReorderStatusReceived
	case ReorderStatusReceived, ReorderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for terminal states
func (s ReorderStatus) IsTerminal() bool {
	return s == ReorderStatusReceived || s == ReorderStatusCancelled
}

// CanReceive returns true if receiving goods is allowed in this status
func (s ReorderStatus) CanReceive() bool {
	return s == ReorderStatusPlaced || s == ReorderStatusPartialReceived
}

// ReorderType distinguishes GST reorders from simple ones.
// Tax fields are only meaningful when the type is gst.
type ReorderType string

const (
	ReorderTypeGST    ReorderType = "gst"
	ReorderTypeSimple ReorderType = "simple"
)

// IsValid checks if the type is a valid ReorderType
func (t ReorderType) IsValid() bool {
	return t == ReorderTypeGST || t == ReorderTypeSimple
}

// ReorderItem represents a line item on a reorder
type ReorderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReorderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Article     string          `gorm:"type:varchar(100)"` // Style/article snapshot from the suggestion
	HSNCode     string          `gorm:"type:varchar(20)"`
	OrderedQty  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cumulative across receipts, never decreases
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // Percent, only meaningful for gst reorders
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`          // OrderedQty * UnitPrice
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReorderItem) TableName() string {
	return "reorder_items"
}

// NewReorderItem creates a new reorder line item
func NewReorderItem(reorderID, productID uuid.UUID, productName string, orderedQty, unitPrice decimal.Decimal) (*ReorderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if orderedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &ReorderItem{
		ID:          uuid.New(),
		ReorderID:   reorderID,
		ProductID:   productID,
		ProductName: productName,
		OrderedQty:  orderedQty,
		ReceivedQty: decimal.Zero,
		UnitPrice:   unitPrice,
		GSTRate:     decimal.Zero,
		LineTotal:   valueobject.RoundHalfUp2(orderedQty.Mul(unitPrice)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetGSTRate sets the line GST rate
func (i *ReorderItem) SetGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_GST_RATE", "GST rate cannot exceed 100 percent")
	}

	i.GSTRate = rate
	i.UpdatedAt = time.Now()

	return nil
}

// SetArticle sets the article snapshot and HSN code
func (i *ReorderItem) SetArticle(article, hsnCode string) {
	i.Article = article
	i.HSNCode = hsnCode
	i.UpdatedAt = time.Now()
}

// UpdateOrderedQty updates the ordered quantity and recomputes the line total
func (i *ReorderItem) UpdateOrderedQty(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}

	i.OrderedQty = qty
	i.LineTotal = valueobject.RoundHalfUp2(i.OrderedQty.Mul(i.UnitPrice))
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the line total
func (i *ReorderItem) UpdateUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.UnitPrice = price
	i.LineTotal = valueobject.RoundHalfUp2(i.OrderedQty.Mul(i.UnitPrice))
	i.UpdatedAt = time.Now()

	return nil
}

// IsFullyReceived returns true once the cumulative receipt covers the order
func (i *ReorderItem) IsFullyReceived() bool {
	return i.ReceivedQty.GreaterThanOrEqual(i.OrderedQty)
}

// PendingQty returns the quantity still outstanding, zero when over-received
func (i *ReorderItem) PendingQty() decimal.Decimal {
	pending := i.OrderedQty.Sub(i.ReceivedQty)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// TaxAmount returns the GST amount for this line
func (i *ReorderItem) TaxAmount() decimal.Decimal {
	if i.GSTRate.IsZero() {
		return decimal.Zero
	}
	return valueobject.RoundHalfUp2(i.GSTRate.Div(decimal.NewFromInt(100)).Mul(i.LineTotal))
}

// ReorderPurchaseLink records a purchase generated by a receipt against
// the reorder. Every receiving round appends one.
type ReorderPurchaseLink struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReorderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReorderPurchaseLink) TableName() string {
	return "reorder_purchase_links"
}

// ReceiptUpdate is one caller-supplied line for a receiving round.
// NewReceivedQty is the new cumulative received quantity for the product,
// not an increment. UnitPrice, when set, overrides the stored line price.
type ReceiptUpdate struct {
	ProductID      uuid.UUID
	NewReceivedQty decimal.Decimal
	UnitPrice      *decimal.Decimal
}

// ReceiptDelta describes what actually arrived for one line in a round
type ReceiptDelta struct {
	ProductID   uuid.UUID
	ProductName string
	Article     string
	HSNCode     string
	GSTRate     decimal.Decimal
	Quantity    decimal.Decimal // This round's increment
	UnitPrice   decimal.Decimal
}

// ReorderOrder is the replenishment order aggregate root. It tracks a
// supplier order from placement through one or more receiving rounds.
type ReorderOrder struct {
	shared.TenantAggregateRoot
	ReorderNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_reorder_tenant_number,priority:2"`
	Type            ReorderType           `gorm:"type:varchar(10);not null;default:'gst'"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName    string                `gorm:"type:varchar(200);not null"`
	SupplierGSTIN   string                `gorm:"type:varchar(15)"`
	OrderDate       time.Time             `gorm:"not null;index"`
	ExpectedDate    *time.Time            `gorm:"index"`
	Items           []ReorderItem         `gorm:"foreignKey:ReorderID;references:ID"`
	LinkedPurchases []ReorderPurchaseLink `gorm:"foreignKey:ReorderID;references:ID"`
	Subtotal        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status          ReorderStatus         `gorm:"type:varchar(20);not null;default:'placed'"`
	Notes           string                `gorm:"type:text"`
	CancelledAt     *time.Time
	ReceivedAt      *time.Time
}

// TableName returns the table name for GORM
func (ReorderOrder) TableName() string {
	return "reorders"
}

// NewReorderOrder creates a new reorder in placed status
func NewReorderOrder(tenantID uuid.UUID, reorderNumber string, reorderType ReorderType, supplierID uuid.UUID, supplierName, supplierGSTIN string) (*ReorderOrder, error) {
	if reorderNumber == "" {
		return nil, shared.NewDomainError("INVALID_REORDER_NUMBER", "Reorder number cannot be empty")
	}
	if len(reorderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REORDER_NUMBER", "Reorder number cannot exceed 50 characters")
	}
	if !reorderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid reorder type")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &ReorderOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReorderNumber:       reorderNumber,
		Type:                reorderType,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		SupplierGSTIN:       supplierGSTIN,
		OrderDate:           time.Now(),
		Items:               make([]ReorderItem, 0),
		LinkedPurchases:     make([]ReorderPurchaseLink, 0),
		Subtotal:            decimal.Zero,
		TotalTax:            decimal.Zero,
		GrandTotal:          decimal.Zero,
		Status:              ReorderStatusPlaced,
	}

	order.AddDomainEvent(NewReorderPlacedEvent(order))

	return order, nil
}

// AddItem adds a line item. Rejected once the reorder is terminal.
func (o *ReorderOrder) AddItem(item *ReorderItem) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}
	if item == nil {
		return shared.NewDomainError("INVALID_ITEM", "Item cannot be nil")
	}
	if o.IsSimple() && !item.GSTRate.IsZero() {
		return shared.NewDomainError("INVALID_GST_RATE", "Simple reorders cannot carry a GST rate")
	}
	for idx := range o.Items {
		if o.Items[idx].ProductID == item.ProductID && o.Items[idx].Article == item.Article {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists on the reorder, update the line instead")
		}
	}

	item.ReorderID = o.ID
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// UpdateItemOrderedQty updates a line's ordered quantity.
// Rejected once the reorder is terminal.
func (o *ReorderOrder) UpdateItemOrderedQty(itemID uuid.UUID, qty decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateOrderedQty(qty); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Reorder item not found")
}

// UpdateItemUnitPrice updates a line's unit price.
// Rejected once the reorder is terminal.
func (o *ReorderOrder) UpdateItemUnitPrice(itemID uuid.UUID, price decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateUnitPrice(price); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Reorder item not found")
}

// RemoveItem removes a line item. Rejected once the reorder is terminal.
func (o *ReorderOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if o.Items[idx].ReceivedQty.GreaterThan(decimal.Zero) {
				return shared.NewDomainError("ALREADY_RECEIVED", "Cannot remove a line that has received goods")
			}
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Reorder item not found")
}

// SetExpectedDate sets the expected delivery date.
// Rejected once the reorder is terminal.
func (o *ReorderOrder) SetExpectedDate(date time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}

	o.ExpectedDate = &date
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetNotes sets the reorder notes. Rejected once the reorder is terminal.
func (o *ReorderOrder) SetNotes(notes string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify a %s reorder", o.Status))
	}

	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Cancel cancels the reorder. Only allowed before any goods have arrived.
func (o *ReorderOrder) Cancel() error {
	if !o.Status.CanTransitionTo(ReorderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s reorder", o.Status))
	}

	now := time.Now()
	o.Status = ReorderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewReorderCancelledEvent(o))

	return nil
}

// ApplyReceipt applies one receiving round. Each update carries the new
// cumulative received quantity for its product; products without an update
// keep their stored value. Returns the per-line increments for this round.
// Returns shared.ErrNothingToReceive when no line actually increased.
func (o *ReorderOrder) ApplyReceipt(updates []ReceiptUpdate) ([]ReceiptDelta, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for a %s reorder", o.Status))
	}
	if len(o.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Reorder has no items to receive")
	}

	byProduct := make(map[uuid.UUID]ReceiptUpdate, len(updates))
	for _, u := range updates {
		if _, err := o.findItemByProduct(u.ProductID); err != nil {
			return nil, err
		}
		byProduct[u.ProductID] = u
	}

	deltas := make([]ReceiptDelta, 0, len(o.Items))
	now := time.Now()

	for idx := range o.Items {
		item := &o.Items[idx]
		update, ok := byProduct[item.ProductID]
		if !ok {
			continue // No additional receipt for this line this round
		}

		if update.NewReceivedQty.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
		}
		if update.NewReceivedQty.LessThan(item.ReceivedQty) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Received quantity for %s cannot decrease from %s to %s",
					item.ProductName, item.ReceivedQty.String(), update.NewReceivedQty.String()))
		}

		if update.UnitPrice != nil {
			if err := item.UpdateUnitPrice(*update.UnitPrice); err != nil {
				return nil, err
			}
		}

		delta := update.NewReceivedQty.Sub(item.ReceivedQty)
		if delta.IsPositive() {
			deltas = append(deltas, ReceiptDelta{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Article:     item.Article,
				HSNCode:     item.HSNCode,
				GSTRate:     item.GSTRate,
				Quantity:    delta,
				UnitPrice:   item.UnitPrice,
			})
		}

		item.ReceivedQty = update.NewReceivedQty
		item.UpdatedAt = now
	}

	if len(deltas) == 0 {
		return nil, shared.ErrNothingToReceive
	}

	if o.isFullyReceived() {
		o.Status = ReorderStatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = ReorderStatusPartialReceived
	}

	o.recalculateTotals()
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewReorderReceivedEvent(o, deltas))

	return deltas, nil
}

// AppendLinkedPurchase records a purchase generated by a receiving round.
// Links are append-only.
func (o *ReorderOrder) AppendLinkedPurchase(purchaseID uuid.UUID) error {
	if purchaseID == uuid.Nil {
		return shared.NewDomainError("INVALID_PURCHASE", "Purchase ID cannot be empty")
	}

	o.LinkedPurchases = append(o.LinkedPurchases, ReorderPurchaseLink{
		ID:         uuid.New(),
		ReorderID:  o.ID,
		PurchaseID: purchaseID,
		CreatedAt:  time.Now(),
	})
	o.UpdatedAt = time.Now()

	return nil
}

// LinkedPurchaseIDs returns the purchase ids generated by receipts, oldest first
func (o *ReorderOrder) LinkedPurchaseIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.LinkedPurchases))
	for _, link := range o.LinkedPurchases {
		ids = append(ids, link.PurchaseID)
	}
	return ids
}

// IsGST returns true when the reorder is GST-typed
func (o *ReorderOrder) IsGST() bool {
	return o.Type == ReorderTypeGST
}

// IsSimple returns true when the reorder carries no tax breakdown
func (o *ReorderOrder) IsSimple() bool {
	return o.Type == ReorderTypeSimple
}

// IsTerminal returns true if the reorder is received or cancelled
func (o *ReorderOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// ItemCount returns the number of line items
func (o *ReorderOrder) ItemCount() int {
	return len(o.Items)
}

// GetItemByProduct returns the first line for a product, or nil
func (o *ReorderOrder) GetItemByProduct(productID uuid.UUID) *ReorderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// TotalPendingQty returns the total quantity still outstanding
func (o *ReorderOrder) TotalPendingQty() decimal.Decimal {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].PendingQty())
	}
	return total
}

// GetGrandTotalMoney returns the grand total as Money
func (o *ReorderOrder) GetGrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(o.GrandTotal)
}

func (o *ReorderOrder) findItemByProduct(productID uuid.UUID) (*ReorderItem, error) {
	if item := o.GetItemByProduct(productID); item != nil {
		return item, nil
	}
	return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Product %s not found on the reorder", productID))
}

func (o *ReorderOrder) isFullyReceived() bool {
	for idx := range o.Items {
		if !o.Items[idx].IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// recalculateTotals recomputes subtotal, tax and grand total from the lines
func (o *ReorderOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].LineTotal)
		if o.IsGST() {
			tax = tax.Add(o.Items[idx].TaxAmount())
		}
	}

	o.Subtotal = valueobject.RoundHalfUp2(subtotal)
	o.TotalTax = valueobject.RoundHalfUp2(tax)
	o.GrandTotal = valueobject.RoundHalfUp2(o.Subtotal.Add(o.TotalTax))
}
