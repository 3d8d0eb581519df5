package product

import (
	"context"
	"errors"
	"time"

	"localmart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetVendorProducts(ctx context.Context, vendorID uint, limit, page int) ([]*Product, error)
	Create(ctx context.Context, vendorID uint, input NewProductInput) (*Product, error)
	Update(ctx context.Context, vendorID, productID uint, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, vendorID, productID uint) error
	Categories(ctx context.Context) ([]string, error)
	Cities(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetList(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetList"),
	)

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}

	start := time.Now()
	products, err := s.repo.GetList(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list", zap.Error(err))
		return nil, err
	}

	log.Debug("product list fetched",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetVendorProducts(ctx context.Context, vendorID uint, limit, page int) ([]*Product, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetByVendor(ctx, vendorID, limit, page)
}

func (s *service) Create(ctx context.Context, vendorID uint, input NewProductInput) (*Product, error) {
	if input.Name == "" {
		return nil, errors.New("product name is required")
	}
	if input.Description == "" {
		return nil, errors.New("description is required")
	}
	if input.Category == "" {
		return nil, errors.New("category is required")
	}
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if input.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p := &Product{
		VendorID:    vendorID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		Image:       input.Image,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to create product", zap.Error(err))
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Uint("product_id", p.ID),
		zap.Uint("vendor_id", vendorID),
	)
	return p, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uint, input UpdateProductInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, ErrNotOwner
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.New("product name cannot be empty")
		}
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		p.Price = *input.Price
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidStock
		}
		p.Stock = *input.Stock
	}
	if input.Image != nil {
		p.Image = *input.Image
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, vendorID, productID uint) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.VendorID != vendorID {
		return ErrNotOwner
	}
	return s.repo.Deactivate(ctx, productID, vendorID)
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *service) Cities(ctx context.Context) ([]string, error) {
	return s.repo.Cities(ctx)
}
