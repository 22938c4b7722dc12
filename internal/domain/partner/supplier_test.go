package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates supplier with valid inputs", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)
		require.NotNil(t, supplier)

		assert.Equal(t, tenantID, supplier.TenantID)
		assert.Equal(t, "SUP-0001", supplier.Code)
		assert.Equal(t, "Acme Traders", supplier.Name)
		assert.Equal(t, SupplierStatusActive, supplier.Status)
		assert.Empty(t, supplier.GSTIN)
		assert.Equal(t, 1, supplier.GetVersion())
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "sup-0001", "Acme Traders")
		require.NoError(t, err)
		assert.Equal(t, "SUP-0001", supplier.Code)
	})

	t.Run("publishes SupplierCreated event", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)

		events := supplier.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSupplierCreated, events[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "", "Acme Traders")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "SUP-0001", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestSupplierSetGSTIN(t *testing.T) {
	tenantID := uuid.New()

	t.Run("accepts 15-character GSTIN", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)

		err = supplier.SetGSTIN("29abcde1234f1z5")
		require.NoError(t, err)
		assert.Equal(t, "29ABCDE1234F1Z5", supplier.GSTIN)
		assert.True(t, supplier.HasGSTIN())
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)

		err = supplier.SetGSTIN("SHORT")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "15 characters")
	})

	t.Run("empty value clears GSTIN", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)
		require.NoError(t, supplier.SetGSTIN("29ABCDE1234F1Z5"))

		require.NoError(t, supplier.SetGSTIN(""))
		assert.False(t, supplier.HasGSTIN())
	})
}

func TestSupplierStatus(t *testing.T) {
	tenantID := uuid.New()

	t.Run("deactivate then activate", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)

		require.NoError(t, supplier.Deactivate())
		assert.False(t, supplier.IsActive())

		require.NoError(t, supplier.Activate())
		assert.True(t, supplier.IsActive())
	})

	t.Run("cannot deactivate twice", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-0001", "Acme Traders")
		require.NoError(t, err)

		require.NoError(t, supplier.Deactivate())
		err = supplier.Deactivate()
		require.Error(t, err)
	})
}
