package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, "SKU-001", product.Code)
		assert.Equal(t, "Test Product", product.Name)
		assert.Equal(t, "pcs", product.Unit)
		assert.True(t, product.PurchasePrice.IsZero())
		assert.True(t, product.SellingPrice.IsZero())
		assert.True(t, product.StockQuantity.IsZero())
		assert.True(t, product.MinStock.IsZero())
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		product, err := NewProduct(tenantID, "sku-001", "Test Product", "pcs")
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.Code)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-002", "Test Product", "pcs")
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct(tenantID, "", "Test Product", "pcs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU@001", "Test Product", "pcs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "can only contain letters")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "", "pcs")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "Test Product", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unit cannot be empty")
	})
}

func TestProductSetPrices(t *testing.T) {
	tenantID := uuid.New()

	t.Run("sets both prices", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		err = product.SetPrices(valueobject.NewMoneyINRFromFloat(50), valueobject.NewMoneyINRFromFloat(80))
		require.NoError(t, err)

		assert.True(t, product.PurchasePrice.Equal(decimal.NewFromInt(50)))
		assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, 2, product.GetVersion())
	})

	t.Run("rejects negative purchase price", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		err = product.SetPrices(valueobject.NewMoneyINRFromFloat(-1), valueobject.NewMoneyINRFromFloat(80))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Purchase price cannot be negative")
	})

	t.Run("publishes ProductPriceChanged event", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		product.ClearDomainEvents()

		err = product.SetPrices(valueobject.NewMoneyINRFromFloat(50), valueobject.NewMoneyINRFromFloat(80))
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductPriceChanged, events[0].EventType())
	})
}

func TestProductSyncPurchasePrice(t *testing.T) {
	tenantID := uuid.New()

	t.Run("records the latest cost", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		product.SyncPurchasePrice(decimal.NewFromFloat(42.50))
		assert.True(t, product.PurchasePrice.Equal(decimal.NewFromFloat(42.50)))
	})

	t.Run("ignores zero price", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		product.SyncPurchasePrice(decimal.NewFromInt(10))

		product.SyncPurchasePrice(decimal.Zero)
		assert.True(t, product.PurchasePrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("ignores negative price", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		product.SyncPurchasePrice(decimal.NewFromInt(10))

		product.SyncPurchasePrice(decimal.NewFromInt(-5))
		assert.True(t, product.PurchasePrice.Equal(decimal.NewFromInt(10)))
	})
}

func TestProductAdjustStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("adds stock", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		err = product.AdjustStock(decimal.NewFromInt(5), StockDirectionAdd)
		require.NoError(t, err)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("subtracts stock", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		require.NoError(t, product.AdjustStock(decimal.NewFromInt(5), StockDirectionAdd))

		err = product.AdjustStock(decimal.NewFromInt(3), StockDirectionSubtract)
		require.NoError(t, err)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		err = product.AdjustStock(decimal.NewFromInt(-1), StockDirectionAdd)
		require.Error(t, err)
	})

	t.Run("publishes ProductStockAdjusted event", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		product.ClearDomainEvents()

		require.NoError(t, product.AdjustStock(decimal.NewFromInt(7), StockDirectionAdd))

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductStockAdjusted, events[0].EventType())

		event, ok := events[0].(*ProductStockAdjustedEvent)
		require.True(t, ok)
		assert.True(t, event.Delta.Equal(decimal.NewFromInt(7)))
		assert.True(t, event.NewStock.Equal(decimal.NewFromInt(7)))
	})
}

func TestProductIsBelowMinStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("false when min stock disabled", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		assert.False(t, product.IsBelowMinStock())
	})

	t.Run("true when stock below min", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		require.NoError(t, product.SetMinStock(decimal.NewFromInt(10)))
		require.NoError(t, product.AdjustStock(decimal.NewFromInt(4), StockDirectionAdd))

		assert.True(t, product.IsBelowMinStock())
	})

	t.Run("false when stock at min", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)
		require.NoError(t, product.SetMinStock(decimal.NewFromInt(4)))
		require.NoError(t, product.AdjustStock(decimal.NewFromInt(4), StockDirectionAdd))

		assert.False(t, product.IsBelowMinStock())
	})
}

func TestProductStatus(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deactivate then activate", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		require.NoError(t, product.Deactivate())
		assert.False(t, product.IsActive())

		require.NoError(t, product.Activate())
		assert.True(t, product.IsActive())
	})

	t.Run("cannot activate twice", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Test Product", "pcs")
		require.NoError(t, err)

		err = product.Activate()
		require.Error(t, err)
	})
}
