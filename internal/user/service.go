package user

import (
	"context"
	"errors"
	"strings"

	"localmart-be/internal/auth"
	"localmart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, string, error)
	Login(ctx context.Context, input LoginInput) (*User, string, error)
	GetProfile(ctx context.Context, userID uint) (*User, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*User, error)
	ListVendors(ctx context.Context) ([]*Vendor, error)
	GetVendor(ctx context.Context, vendorID uint) (*Vendor, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" || input.Email == "" {
		return nil, "", errors.New("name and email are required")
	}
	if len(input.Password) < 6 {
		return nil, "", errors.New("password must be at least 6 characters")
	}
	if input.Role != "customer" && input.Role != "vendor" {
		return nil, "", errors.New("role must be customer or vendor")
	}

	if existing, err := s.repo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		log.Warn("registration with existing email", zap.String("email", input.Email))
		return nil, "", ErrEmailExists
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     input.Role,
		Phone:    input.Phone,
		Street:   input.Street,
		City:     input.City,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, "", err
	}

	token, err := auth.GenerateJWT(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return u, token, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPasswordHash(input.Password, u.Password) {
		return nil, "", ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	token, err := auth.GenerateJWT(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	if input.Street != nil {
		u.Street = *input.Street
	}
	if input.City != nil {
		u.City = *input.City
	}

	if u.Name == "" {
		return nil, errors.New("name cannot be empty")
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ListVendors(ctx context.Context) ([]*Vendor, error) {
	return s.repo.ListVendors(ctx)
}

func (s *service) GetVendor(ctx context.Context, vendorID uint) (*Vendor, error) {
	return s.repo.GetVendor(ctx, vendorID)
}
