package reorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ProductVelocity is the sales velocity of one product over the lookback
// window
type ProductVelocity struct {
	TotalSold decimal.Decimal `json:"total_sold"`
	PerWeek   decimal.Decimal `json:"per_week"`
}

// VelocityCache caches computed velocity maps. Implementations must be
// safe for concurrent use.
type VelocityCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int) (map[uuid.UUID]ProductVelocity, bool)
	Set(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int, velocities map[uuid.UUID]ProductVelocity)
}

// VelocityService aggregates sales history into per-product weekly
// velocities. Returns are excluded so a heavy return week does not
// depress replenishment.
type VelocityService struct {
	saleRepo sales.SaleRepository
	cache    VelocityCache
	now      func() time.Time
}

// NewVelocityService creates a new VelocityService
func NewVelocityService(saleRepo sales.SaleRepository) *VelocityService {
	return &VelocityService{
		saleRepo: saleRepo,
		now:      time.Now,
	}
}

// SetCache sets an optional velocity cache
func (s *VelocityService) SetCache(cache VelocityCache) {
	s.cache = cache
}

// SetClock overrides the time source, used by tests and backfills
func (s *VelocityService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ComputeVelocity returns the per-product sales velocity over the trailing
// lookbackWeeks*7 days ending now. A non-positive lookback yields an empty
// map.
func (s *VelocityService) ComputeVelocity(ctx context.Context, tenantID uuid.UUID, lookbackWeeks int) (map[uuid.UUID]ProductVelocity, error) {
	if lookbackWeeks <= 0 {
		return map[uuid.UUID]ProductVelocity{}, nil
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, tenantID, lookbackWeeks); ok {
			return cached, nil
		}
	}

	to := s.now()
	from := to.AddDate(0, 0, -lookbackWeeks*7)

	bills, err := s.saleRepo.FindByDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]decimal.Decimal)
	for idx := range bills {
		if bills[idx].IsReturn() {
			continue
		}
		for _, item := range bills[idx].Items {
			totals[item.ProductID] = totals[item.ProductID].Add(item.Quantity)
		}
	}

	weeks := decimal.NewFromInt(int64(lookbackWeeks))
	velocities := make(map[uuid.UUID]ProductVelocity, len(totals))
	for productID, total := range totals {
		velocities[productID] = ProductVelocity{
			TotalSold: total,
			PerWeek:   total.Div(weeks),
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, tenantID, lookbackWeeks, velocities)
	}

	return velocities, nil
}
