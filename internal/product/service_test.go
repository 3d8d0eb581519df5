package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetByVendor(ctx context.Context, vendorID uint, limit, page int) ([]*Product, error) {
	args := m.Called(ctx, vendorID, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Deactivate(ctx context.Context, id, vendorID uint) error {
	args := m.Called(ctx, id, vendorID)
	return args.Error(0)
}

func (m *MockRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func validProduct() NewProductInput {
	return NewProductInput{
		Name:        "Madu Hutan",
		Description: "Raw forest honey, 500ml",
		Price:       12.50,
		Category:    "food",
		Stock:       10,
	}
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Product).ID = 3
			}).
			Return(nil)

		p, err := svc.Create(ctx, 7, validProduct())
		require.NoError(t, err)
		assert.Equal(t, uint(3), p.ID)
		assert.Equal(t, uint(7), p.VendorID)
		assert.True(t, p.IsActive)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		input := validProduct()
		input.Price = -1
		_, err := svc.Create(ctx, 7, input)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("NegativeStock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		input := validProduct()
		input.Stock = -5
		_, err := svc.Create(ctx, 7, input)
		assert.ErrorIs(t, err, ErrInvalidStock)
	})

	t.Run("MissingName", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		input := validProduct()
		input.Name = ""
		_, err := svc.Create(ctx, 7, input)
		assert.Error(t, err)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	owned := func() *Product {
		return &Product{ID: 3, VendorID: 7, Name: "Madu Hutan", Price: 12.50, Stock: 10}
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil)

		price := 15.00
		stock := 4
		p, err := svc.Update(ctx, 7, 3, UpdateProductInput{Price: &price, Stock: &stock})
		require.NoError(t, err)
		assert.Equal(t, 15.00, p.Price)
		assert.Equal(t, 4, p.Stock)
		// Unset fields keep their values.
		assert.Equal(t, "Madu Hutan", p.Name)
	})

	t.Run("NotOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)

		price := 15.00
		_, err := svc.Update(ctx, 8, 3, UpdateProductInput{Price: &price})
		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(404)).Return(nil, ErrProductNotFound)

		_, err := svc.Update(ctx, 7, 404, UpdateProductInput{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(3)).Return(owned(), nil)

		price := -1.0
		_, err := svc.Update(ctx, 7, 3, UpdateProductInput{Price: &price})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(3)).Return(&Product{ID: 3, VendorID: 7}, nil)
		repo.On("Deactivate", mock.Anything, uint(3), uint(7)).Return(nil)

		require.NoError(t, svc.Delete(ctx, 7, 3))
		repo.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", mock.Anything, uint(3)).Return(&Product{ID: 3, VendorID: 7}, nil)

		err := svc.Delete(ctx, 8, 3)
		assert.ErrorIs(t, err, ErrNotOwner)
		repo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetList_ClampsPagination(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("GetList", mock.Anything, QueryOptions{Limit: 50, Page: 1}).
		Return([]*Product{}, nil)
	repo.On("GetList", mock.Anything, QueryOptions{Limit: 100, Page: 2}).
		Return([]*Product{}, nil)

	_, err := svc.GetList(context.Background(), QueryOptions{})
	require.NoError(t, err)

	_, err = svc.GetList(context.Background(), QueryOptions{Limit: 500, Page: 2})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
