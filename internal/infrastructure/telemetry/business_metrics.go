package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is constructed without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// BusinessMetrics tracks replenishment activity: reorders placed and
// cancelled, receipts booked, and the low-stock product count.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	reorderPlacedTotal    *Counter
	reorderAmountTotal    *Counter
	reorderCancelledTotal *Counter
	receiptTotal          *Counter
	receiptAmountTotal    *Counter

	lowStockCount *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	catalogProvider CatalogMetricsProvider
}

// CatalogMetricsProvider provides catalog data for periodic metrics
// collection without a direct dependency on the catalog domain.
type CatalogMetricsProvider interface {
	// GetLowStockCount returns the count of active products below their
	// minimum stock level for a tenant
	GetLowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// TenantProvider provides tenant IDs for periodic metrics collection
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// BusinessMetricsConfig holds configuration for business metrics
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CatalogProvider CatalogMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		catalogProvider: cfg.CatalogProvider,
	}

	var err error

	bm.reorderPlacedTotal, err = NewCounter(
		cfg.Meter,
		"retailops_reorder_placed_total",
		"Total number of reorders placed",
		"{reorders}",
	)
	if err != nil {
		return nil, err
	}

	bm.reorderAmountTotal, err = NewCounter(
		cfg.Meter,
		"retailops_reorder_amount_total",
		"Total reorder amount in paise",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	bm.reorderCancelledTotal, err = NewCounter(
		cfg.Meter,
		"retailops_reorder_cancelled_total",
		"Total number of reorders cancelled",
		"{reorders}",
	)
	if err != nil {
		return nil, err
	}

	bm.receiptTotal, err = NewCounter(
		cfg.Meter,
		"retailops_receipt_total",
		"Total number of receipts booked against reorders",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	bm.receiptAmountTotal, err = NewCounter(
		cfg.Meter,
		"retailops_receipt_amount_total",
		"Total received amount in paise",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	bm.lowStockCount, err = NewGauge(
		cfg.Meter,
		"retailops_low_stock_count",
		"Number of products below minimum stock level",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordReorderPlaced records a placed reorder and its amount
func (bm *BusinessMetrics) RecordReorderPlaced(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	bm.reorderPlacedTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))

	// Amounts are reported in the smallest currency unit
	amountPaise := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.reorderAmountTotal.Add(ctx, amountPaise, AttrTenantID.String(tenantID.String()))
}

// RecordReorderCancelled records a cancelled reorder
func (bm *BusinessMetrics) RecordReorderCancelled(ctx context.Context, tenantID uuid.UUID) {
	bm.reorderCancelledTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordReceipt records a receipt booked against a reorder
func (bm *BusinessMetrics) RecordReceipt(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	bm.receiptTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))

	amountPaise := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.receiptAmountTotal.Add(ctx, amountPaise, AttrTenantID.String(tenantID.String()))
}

// RecordLowStockCount records the number of products below minimum stock
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.lowStockCount.Record(ctx, count, AttrTenantID.String(tenantID.String()))
}

// StartPeriodicCollection starts periodic collection of the low-stock
// gauge. Non-blocking; use Stop to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectLowStockMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectLowStockMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectLowStockMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.catalogProvider == nil || tenantProvider == nil {
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Warn("failed to list tenants for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		count, err := bm.catalogProvider.GetLowStockCount(ctx, tenantID)
		if err != nil {
			bm.logger.Warn("failed to collect low stock count",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		bm.RecordLowStockCount(ctx, tenantID, count)
	}
}

// Stop stops periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
