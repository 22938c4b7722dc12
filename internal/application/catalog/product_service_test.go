package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBelowMinStock(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product, expectedVersion int) error {
	args := m.Called(ctx, product, expectedVersion)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, tenantID, productID, delta)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

var testProductTenantID = uuid.New()

func createTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(testProductTenantID, "SHIRT-01", "Cotton Shirt", "pcs")
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		purchasePrice := decimal.NewFromInt(200)
		minStock := decimal.NewFromInt(10)
		req := CreateProductRequest{
			Code:          "shirt-01",
			Name:          "Cotton Shirt",
			Unit:          "pcs",
			PurchasePrice: &purchasePrice,
			MinStock:      &minStock,
		}

		repo.On("ExistsByCode", mock.Anything, testProductTenantID, "shirt-01").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		response, err := service.Create(ctx, testProductTenantID, req)

		require.NoError(t, err)
		assert.Equal(t, "SHIRT-01", response.Code)
		assert.True(t, decimal.NewFromInt(200).Equal(response.PurchasePrice))
		assert.True(t, decimal.NewFromInt(10).Equal(response.MinStock))
		assert.True(t, response.BelowMinStock)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("ExistsByCode", mock.Anything, testProductTenantID, "SHIRT-01").Return(true, nil)

		_, err := service.Create(ctx, testProductTenantID, CreateProductRequest{Code: "SHIRT-01", Name: "Cotton Shirt", Unit: "pcs"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("saves with the version read before mutating", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product := createTestProduct(t)
		versionBefore := product.GetVersion()

		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, product.ID).Return(product, nil)
		repo.On("SaveWithLock", mock.Anything, product, versionBefore).Return(nil)

		name := "Linen Shirt"
		minStock := decimal.NewFromInt(5)
		response, err := service.Update(ctx, testProductTenantID, product.ID, UpdateProductRequest{Name: &name, MinStock: &minStock})

		require.NoError(t, err)
		assert.Equal(t, "Linen Shirt", response.Name)
		assert.True(t, decimal.NewFromInt(5).Equal(response.MinStock))
		repo.AssertExpectations(t)
	})

	t.Run("surfaces concurrency conflicts", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product := createTestProduct(t)
		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, product.ID).Return(product, nil)
		repo.On("SaveWithLock", mock.Anything, product, mock.AnythingOfType("int")).Return(shared.ErrConcurrencyConflict)

		name := "Linen Shirt"
		_, err := service.Update(ctx, testProductTenantID, product.ID, UpdateProductRequest{Name: &name})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestProductService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("add moves stock up through the repository", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product := createTestProduct(t)
		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, product.ID).Return(product, nil)
		repo.On("AdjustStock", mock.Anything, testProductTenantID, product.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(7))
		})).Return(nil)

		response, err := service.AdjustStock(ctx, testProductTenantID, product.ID, AdjustStockRequest{
			Quantity:  decimal.NewFromInt(7),
			Direction: "add",
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(7).Equal(response.StockQuantity))
		repo.AssertExpectations(t)
	})

	t.Run("subtract sends a negative delta", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product := createTestProduct(t)
		product.StockQuantity = decimal.NewFromInt(10)

		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, product.ID).Return(product, nil)
		repo.On("AdjustStock", mock.Anything, testProductTenantID, product.ID, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(-3))
		})).Return(nil)

		response, err := service.AdjustStock(ctx, testProductTenantID, product.ID, AdjustStockRequest{
			Quantity:  decimal.NewFromInt(3),
			Direction: "subtract",
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(7).Equal(response.StockQuantity))
		repo.AssertExpectations(t)
	})

	t.Run("negative quantity is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		product := createTestProduct(t)
		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, product.ID).Return(product, nil)

		_, err := service.AdjustStock(ctx, testProductTenantID, product.ID, AdjustStockRequest{
			Quantity:  decimal.NewFromInt(-1),
			Direction: "add",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_ListBelowMinStock(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	product := createTestProduct(t)
	require.NoError(t, product.SetMinStock(decimal.NewFromInt(10)))

	repo.On("FindBelowMinStock", mock.Anything, testProductTenantID).Return([]catalog.Product{*product}, nil)

	responses, err := service.ListBelowMinStock(ctx, testProductTenantID)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].BelowMinStock)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing product is not deleted", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, testProductTenantID, id).Return(nil, shared.ErrNotFound)

		err := service.Delete(ctx, testProductTenantID, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}
