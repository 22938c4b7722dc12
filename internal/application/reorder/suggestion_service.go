package reorder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/purchase"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SuggestionOptions tunes the suggestion engine. Zero values fall back to
// the configured defaults.
type SuggestionOptions struct {
	LookbackWeeks int `form:"lookback_weeks"`
	LeadTimeWeeks int `form:"lead_time_weeks"`
}

// SuggestionService computes replenishment candidates in two passes:
// product-level against the product's own minimum stock, then
// article-level across purchase lines grouped by style/article.
type SuggestionService struct {
	productRepo  catalog.ProductRepository
	purchaseRepo purchase.PurchaseRepository
	velocity     *VelocityService
	defaults     SuggestionOptions
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(productRepo catalog.ProductRepository, purchaseRepo purchase.PurchaseRepository, velocity *VelocityService, defaults SuggestionOptions) *SuggestionService {
	if defaults.LookbackWeeks <= 0 {
		defaults.LookbackWeeks = 4
	}
	if defaults.LeadTimeWeeks <= 0 {
		defaults.LeadTimeWeeks = 2
	}
	return &SuggestionService{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		velocity:     velocity,
		defaults:     defaults,
	}
}

// articleGroup aggregates purchase lines sharing a lowercased article
type articleGroup struct {
	productID   uuid.UUID
	productName string
	article     string // First-seen original casing, used for the label
	available   decimal.Decimal
	minStock    decimal.Decimal
	lastQty     decimal.Decimal
	lastPrice   decimal.Decimal
}

// Suggest returns replenishment candidates sorted by available stock
// ascending, most urgent first.
func (s *SuggestionService) Suggest(ctx context.Context, tenantID uuid.UUID, opts SuggestionOptions) ([]SuggestionRow, error) {
	if opts.LookbackWeeks <= 0 {
		opts.LookbackWeeks = s.defaults.LookbackWeeks
	}
	if opts.LeadTimeWeeks <= 0 {
		opts.LeadTimeWeeks = s.defaults.LeadTimeWeeks
	}

	velocities, err := s.velocity.ComputeVelocity(ctx, tenantID, opts.LookbackWeeks)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindActive(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}

	// Purchases arrive newest first, so the first matching line in any scan
	// below is the most recent purchase of that product or article.
	purchases, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, shared.Filter{
		OrderBy:  "purchase_date",
		OrderDir: "desc",
	})
	if err != nil {
		return nil, err
	}

	linesByProduct := make(map[uuid.UUID][]*purchase.PurchaseItem)
	groups := make(map[string]*articleGroup)
	groupOrder := make([]string, 0)

	for pIdx := range purchases {
		for iIdx := range purchases[pIdx].Items {
			item := &purchases[pIdx].Items[iIdx]
			linesByProduct[item.ProductID] = append(linesByProduct[item.ProductID], item)

			article := strings.ToLower(strings.TrimSpace(item.Article))
			if article == "" {
				continue
			}
			key := item.ProductID.String() + "|" + article
			group, ok := groups[key]
			if !ok {
				group = &articleGroup{
					productID:   item.ProductID,
					productName: item.ProductName,
					article:     strings.TrimSpace(item.Article),
				}
				groups[key] = group
				groupOrder = append(groupOrder, key)
			}
			group.available = group.available.Add(item.AvailableQuantity())
			if item.MinStockLevel != nil && item.MinStockLevel.GreaterThan(group.minStock) {
				group.minStock = *item.MinStockLevel
			}
			if group.lastQty.IsZero() && item.AvailableQuantity().IsPositive() {
				group.lastQty = item.Quantity
				group.lastPrice = item.UnitPrice
			}
		}
	}

	rows := make([]SuggestionRow, 0)

	// Pass 1: product-level, driven by each product's own minimum stock
	for idx := range products {
		product := &products[idx]
		if !product.MinStock.IsPositive() {
			continue
		}

		available := product.StockQuantity
		lineAvailable := decimal.Zero
		for _, ref := range linesByProduct[product.ID] {
			lineAvailable = lineAvailable.Add(ref.AvailableQuantity())
		}
		if lineAvailable.GreaterThan(available) {
			available = lineAvailable
		}

		if available.GreaterThanOrEqual(product.MinStock) {
			continue
		}

		lastQty, lastPrice := s.lastPurchase(linesByProduct[product.ID])
		if lastPrice.IsZero() {
			lastPrice = product.PurchasePrice
		}
		perWeek := velocities[product.ID].PerWeek

		rows = append(rows, SuggestionRow{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Label:           product.Name,
			AvailableQty:    available,
			MinStock:        product.MinStock,
			VelocityPerWeek: perWeek,
			LastPurchaseQty: lastQty,
			LastUnitPrice:   lastPrice,
			SuggestedQty:    suggestQuantity(perWeek, opts.LeadTimeWeeks, product.MinStock, available, lastQty),
		})
	}

	// Pass 2: article-level, driven by per-line minimum stock overrides
	for _, key := range groupOrder {
		group := groups[key]
		if !group.minStock.IsPositive() {
			continue
		}
		if group.available.GreaterThan(group.minStock) {
			continue
		}

		perWeek := velocities[group.productID].PerWeek

		rows = append(rows, SuggestionRow{
			ProductID:       group.productID,
			ProductName:     group.productName,
			Article:         group.article,
			Label:           fmt.Sprintf("%s [%s]", group.productName, group.article),
			AvailableQty:    group.available,
			MinStock:        group.minStock,
			VelocityPerWeek: perWeek,
			LastPurchaseQty: group.lastQty,
			LastUnitPrice:   group.lastPrice,
			SuggestedQty:    suggestQuantity(perWeek, opts.LeadTimeWeeks, group.minStock, group.available, group.lastQty),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AvailableQty.LessThan(rows[j].AvailableQty)
	})

	return rows, nil
}

// lastPurchase returns the quantity and unit price of the most recent
// purchase line that still has stock available
func (s *SuggestionService) lastPurchase(lines []*purchase.PurchaseItem) (decimal.Decimal, decimal.Decimal) {
	for _, line := range lines {
		if line.AvailableQuantity().IsPositive() {
			return line.Quantity, line.UnitPrice
		}
	}
	return decimal.Zero, decimal.Zero
}

// suggestQuantity computes the order quantity for one candidate.
// With sales velocity: enough to cover the lead time and restore the
// minimum, rounded up, never below the minimum. Without velocity: the
// largest of topping up to twice the minimum, repeating the last purchase,
// or the minimum itself.
func suggestQuantity(perWeek decimal.Decimal, leadTimeWeeks int, minStock, available, lastQty decimal.Decimal) decimal.Decimal {
	if perWeek.IsPositive() {
		need := perWeek.Mul(decimal.NewFromInt(int64(leadTimeWeeks))).Add(minStock).Sub(available)
		if need.IsNegative() {
			need = decimal.Zero
		}
		qty := need.Ceil()
		if qty.LessThan(minStock) {
			return minStock
		}
		return qty
	}

	qty := minStock.Mul(decimal.NewFromInt(2)).Sub(available)
	if lastQty.GreaterThan(qty) {
		qty = lastQty
	}
	if minStock.GreaterThan(qty) {
		qty = minStock
	}
	return qty
}
