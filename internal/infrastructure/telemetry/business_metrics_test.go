package telemetry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestBusinessMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(BusinessMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	return bm, reader
}

func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestNewBusinessMetrics_RequiresMeter(t *testing.T) {
	_, err := NewBusinessMetrics(BusinessMetricsConfig{})
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBusinessMetrics_RecordReorderPlaced(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t)
	ctx := context.Background()
	tenantID := uuid.New()

	bm.RecordReorderPlaced(ctx, tenantID, decimal.NewFromFloat(1500.50))
	bm.RecordReorderPlaced(ctx, tenantID, decimal.NewFromInt(100))

	assert.Equal(t, int64(2), sumOf(t, reader, "retailops_reorder_placed_total"))
	// 1500.50 + 100.00 rupees in paise
	assert.Equal(t, int64(160050), sumOf(t, reader, "retailops_reorder_amount_total"))
}

func TestBusinessMetrics_RecordReorderCancelled(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t)

	bm.RecordReorderCancelled(context.Background(), uuid.New())

	assert.Equal(t, int64(1), sumOf(t, reader, "retailops_reorder_cancelled_total"))
}

func TestBusinessMetrics_RecordReceipt(t *testing.T) {
	bm, reader := newTestBusinessMetrics(t)

	bm.RecordReceipt(context.Background(), uuid.New(), decimal.NewFromInt(2100))

	assert.Equal(t, int64(1), sumOf(t, reader, "retailops_receipt_total"))
	assert.Equal(t, int64(210000), sumOf(t, reader, "retailops_receipt_amount_total"))
}

type staticTenantProvider struct {
	ids []uuid.UUID
}

func (p *staticTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	return p.ids, nil
}

type staticCatalogProvider struct {
	count int64
}

func (p *staticCatalogProvider) GetLowStockCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return p.count, nil
}

func TestBusinessMetrics_CollectLowStockMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	bm, err := NewBusinessMetrics(BusinessMetricsConfig{
		Meter:           provider.Meter("test"),
		Logger:          zap.NewNop(),
		CatalogProvider: &staticCatalogProvider{count: 7},
	})
	require.NoError(t, err)

	bm.collectLowStockMetrics(context.Background(), &staticTenantProvider{ids: []uuid.UUID{uuid.New()}})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "retailops_low_stock_count" {
				gauge, ok := m.Data.(metricdata.Gauge[int64])
				require.True(t, ok)
				require.Len(t, gauge.DataPoints, 1)
				assert.Equal(t, int64(7), gauge.DataPoints[0].Value)
				found = true
			}
		}
	}
	assert.True(t, found)
}
