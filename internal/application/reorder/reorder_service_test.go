package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/reorder"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testReorderTenantID = uuid.New()
	testReorderNumber   = "RO-2026-00001"
)

func createTestSupplier(t *testing.T) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(testReorderTenantID, "SUP-0001", "Acme Traders")
	require.NoError(t, err)
	require.NoError(t, supplier.SetGSTIN("29ABCDE1234F1Z5"))
	return supplier
}

func createTestReorder(t *testing.T, lines ...*reorder.ReorderItem) *reorder.ReorderOrder {
	t.Helper()
	order, err := reorder.NewReorderOrder(testReorderTenantID, testReorderNumber, reorder.ReorderTypeGST, uuid.New(), "Acme Traders", "29ABCDE1234F1Z5")
	require.NoError(t, err)
	for _, line := range lines {
		require.NoError(t, order.AddItem(line))
	}
	order.ClearDomainEvents()
	return order
}

func createTestReorderLine(t *testing.T, productName string, qty, price int64) *reorder.ReorderItem {
	t.Helper()
	item, err := reorder.NewReorderItem(uuid.Nil, uuid.New(), productName, decimal.NewFromInt(qty), decimal.NewFromInt(price))
	require.NoError(t, err)
	return item
}

func TestReorderService_Place(t *testing.T) {
	ctx := context.Background()

	t.Run("successful placement", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		supplierRepo := new(MockSupplierRepository)
		service := NewReorderService(reorderRepo, supplierRepo)

		supplier := createTestSupplier(t)
		gstRate := decimal.NewFromInt(5)
		req := CreateReorderRequest{
			Type:       "gst",
			SupplierID: supplier.ID,
			Notes:      "Monthly replenishment",
			Items: []CreateReorderItemInput{
				{
					ProductID:   uuid.New(),
					ProductName: "Cotton Shirt",
					Article:     "Blue",
					HSNCode:     "6105",
					OrderedQty:  decimal.NewFromInt(10),
					UnitPrice:   decimal.NewFromInt(200),
					GSTRate:     &gstRate,
				},
			},
		}

		supplierRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, supplier.ID).Return(supplier, nil)
		reorderRepo.On("GenerateReorderNumber", mock.Anything, testReorderTenantID).Return(testReorderNumber, nil)
		reorderRepo.On("Save", mock.Anything, mock.AnythingOfType("*reorder.ReorderOrder")).Return(nil)

		response, err := service.Place(ctx, testReorderTenantID, req)

		require.NoError(t, err)
		assert.Equal(t, testReorderNumber, response.ReorderNumber)
		assert.Equal(t, string(reorder.ReorderStatusPlaced), response.Status)
		assert.Equal(t, supplier.Name, response.SupplierName)
		assert.Equal(t, supplier.GSTIN, response.SupplierGSTIN)
		require.Len(t, response.Items, 1)
		assert.True(t, decimal.NewFromInt(2000).Equal(response.Subtotal))
		assert.True(t, decimal.NewFromInt(100).Equal(response.TotalTax))
		assert.True(t, decimal.NewFromInt(2100).Equal(response.GrandTotal))
		reorderRepo.AssertExpectations(t)
		supplierRepo.AssertExpectations(t)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		supplierRepo := new(MockSupplierRepository)
		service := NewReorderService(reorderRepo, supplierRepo)

		_, err := service.Place(ctx, testReorderTenantID, CreateReorderRequest{Type: "gst", SupplierID: uuid.New()})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
		supplierRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown supplier fails placement", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		supplierRepo := new(MockSupplierRepository)
		service := NewReorderService(reorderRepo, supplierRepo)

		supplierID := uuid.New()
		supplierRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, supplierID).Return(nil, shared.ErrNotFound)

		req := CreateReorderRequest{
			Type:       "simple",
			SupplierID: supplierID,
			Items: []CreateReorderItemInput{
				{ProductID: uuid.New(), ProductName: "Socks", OrderedQty: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(40)},
			},
		}

		_, err := service.Place(ctx, testReorderTenantID, req)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		reorderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("gst rate on a simple reorder fails placement", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		supplierRepo := new(MockSupplierRepository)
		service := NewReorderService(reorderRepo, supplierRepo)

		supplier := createTestSupplier(t)
		gstRate := decimal.NewFromInt(12)
		supplierRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, supplier.ID).Return(supplier, nil)
		reorderRepo.On("GenerateReorderNumber", mock.Anything, testReorderTenantID).Return(testReorderNumber, nil)

		req := CreateReorderRequest{
			Type:       "simple",
			SupplierID: supplier.ID,
			Items: []CreateReorderItemInput{
				{ProductID: uuid.New(), ProductName: "Socks", OrderedQty: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(40), GSTRate: &gstRate},
			},
		}

		_, err := service.Place(ctx, testReorderTenantID, req)

		require.Error(t, err)
		reorderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("publishes placed event", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		supplierRepo := new(MockSupplierRepository)
		service := NewReorderService(reorderRepo, supplierRepo)

		publisher := new(MockEventPublisher)
		service.SetEventPublisher(publisher)

		supplier := createTestSupplier(t)
		supplierRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, supplier.ID).Return(supplier, nil)
		reorderRepo.On("GenerateReorderNumber", mock.Anything, testReorderTenantID).Return(testReorderNumber, nil)
		reorderRepo.On("Save", mock.Anything, mock.AnythingOfType("*reorder.ReorderOrder")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		req := CreateReorderRequest{
			Type:       "gst",
			SupplierID: supplier.ID,
			Items: []CreateReorderItemInput{
				{ProductID: uuid.New(), ProductName: "Shirt", OrderedQty: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(150)},
			},
		}

		_, err := service.Place(ctx, testReorderTenantID, req)

		require.NoError(t, err)
		publisher.AssertCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestReorderService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reorder", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)

		response, err := service.GetByID(ctx, testReorderTenantID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, response.ID)
		assert.Equal(t, order.ReorderNumber, response.ReorderNumber)
	})

	t.Run("not found", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		id := uuid.New()
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, testReorderTenantID, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestReorderService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults without a status filter", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))

		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "created_at" && f.OrderDir == "desc"
		})
		reorderRepo.On("FindAllForTenant", mock.Anything, testReorderTenantID, matchFilter).Return([]reorder.ReorderOrder{*order}, nil)
		reorderRepo.On("CountForTenant", mock.Anything, testReorderTenantID, matchFilter).Return(int64(1), nil)

		items, total, err := service.List(ctx, testReorderTenantID, ReorderListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, order.ReorderNumber, items[0].ReorderNumber)
		reorderRepo.AssertExpectations(t)
	})

	t.Run("status filter routes through the status scan", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		status := reorder.ReorderStatusPlaced

		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Filters["status"] == "placed"
		})
		reorderRepo.On("FindByStatus", mock.Anything, testReorderTenantID, status, matchFilter).Return([]reorder.ReorderOrder{*order}, nil)
		reorderRepo.On("CountForTenant", mock.Anything, testReorderTenantID, matchFilter).Return(int64(1), nil)

		items, total, err := service.List(ctx, testReorderTenantID, ReorderListFilter{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		reorderRepo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
		reorderRepo.AssertExpectations(t)
	})
}

func TestReorderService_StatusSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("counts every status", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		reorderRepo.On("CountByStatus", mock.Anything, testReorderTenantID, reorder.ReorderStatusPlaced).Return(int64(3), nil)
		reorderRepo.On("CountByStatus", mock.Anything, testReorderTenantID, reorder.ReorderStatusPartialReceived).Return(int64(2), nil)
		reorderRepo.On("CountByStatus", mock.Anything, testReorderTenantID, reorder.ReorderStatusReceived).Return(int64(7), nil)
		reorderRepo.On("CountByStatus", mock.Anything, testReorderTenantID, reorder.ReorderStatusCancelled).Return(int64(1), nil)

		summary, err := service.StatusSummary(ctx, testReorderTenantID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), summary.Placed)
		assert.Equal(t, int64(2), summary.PartialReceived)
		assert.Equal(t, int64(7), summary.Received)
		assert.Equal(t, int64(1), summary.Cancelled)
		reorderRepo.AssertExpectations(t)
	})

	t.Run("propagates a count failure", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		reorderRepo.On("CountByStatus", mock.Anything, testReorderTenantID, reorder.ReorderStatusPlaced).Return(int64(0), errors.New("connection reset"))

		summary, err := service.StatusSummary(ctx, testReorderTenantID)

		require.Error(t, err)
		assert.Nil(t, summary)
	})
}

func TestReorderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("saves with the version read before mutating", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		line := createTestReorderLine(t, "Shirt", 10, 200)
		order := createTestReorder(t, line)
		versionBefore := order.GetVersion()

		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)
		reorderRepo.On("SaveWithLock", mock.Anything, order, versionBefore).Return(nil)

		newQty := decimal.NewFromInt(15)
		notes := "Supplier confirmed"
		response, err := service.Update(ctx, testReorderTenantID, order.ID, UpdateReorderRequest{
			Notes: &notes,
			Items: []UpdateReorderItemInput{{ItemID: line.ID, OrderedQty: &newQty}},
		})

		require.NoError(t, err)
		assert.Equal(t, notes, response.Notes)
		assert.True(t, decimal.NewFromInt(15).Equal(response.Items[0].OrderedQty))
		assert.Greater(t, response.Version, versionBefore)
		reorderRepo.AssertExpectations(t)
	})

	t.Run("surfaces concurrency conflicts", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)
		reorderRepo.On("SaveWithLock", mock.Anything, order, mock.AnythingOfType("int")).Return(shared.ErrConcurrencyConflict)

		notes := "stale"
		_, err := service.Update(ctx, testReorderTenantID, order.ID, UpdateReorderRequest{Notes: &notes})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("rejects updates on a cancelled reorder", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		require.NoError(t, order.Cancel())
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)

		notes := "too late"
		_, err := service.Update(ctx, testReorderTenantID, order.ID, UpdateReorderRequest{Notes: &notes})

		require.Error(t, err)
		reorderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReorderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a placed reorder", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		versionBefore := order.GetVersion()

		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)
		reorderRepo.On("SaveWithLock", mock.Anything, order, versionBefore).Return(nil)

		response, err := service.Cancel(ctx, testReorderTenantID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, string(reorder.ReorderStatusCancelled), response.Status)
		assert.NotNil(t, response.CancelledAt)
		reorderRepo.AssertExpectations(t)
	})

	t.Run("cannot cancel after goods arrived", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		line := createTestReorderLine(t, "Shirt", 10, 200)
		order := createTestReorder(t, line)
		_, err := order.ApplyReceipt([]reorder.ReceiptUpdate{{ProductID: line.ProductID, NewReceivedQty: decimal.NewFromInt(4)}})
		require.NoError(t, err)
		order.ClearDomainEvents()

		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)

		_, err = service.Cancel(ctx, testReorderTenantID, order.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		reorderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReorderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an existing reorder", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		order := createTestReorder(t, createTestReorderLine(t, "Shirt", 10, 200))
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, order.ID).Return(order, nil)
		reorderRepo.On("DeleteForTenant", mock.Anything, testReorderTenantID, order.ID).Return(nil)

		err := service.Delete(ctx, testReorderTenantID, order.ID)

		require.NoError(t, err)
		reorderRepo.AssertExpectations(t)
	})

	t.Run("missing reorder is not deleted", func(t *testing.T) {
		reorderRepo := new(MockReorderRepository)
		service := NewReorderService(reorderRepo, new(MockSupplierRepository))

		id := uuid.New()
		reorderRepo.On("FindByIDForTenant", mock.Anything, testReorderTenantID, id).Return(nil, shared.ErrNotFound)

		err := service.Delete(ctx, testReorderTenantID, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		reorderRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}
