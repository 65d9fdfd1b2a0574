package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, in domain.NewProduct) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if in.Name == "" || in.Description == "" || in.ImageURL == "" || !in.Price.IsPositive() {
		return domain.Product{}, ErrInvalidInput
	}

	product, err := s.repo.Create(ctx, in)
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, strings.TrimSpace(id))
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}

// UpdatePrice changes a product's unit price. Carts pick the new price up on
// their next read since totals are never stored.
func (s *Service) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error) {
	if strings.TrimSpace(id) == "" || price.IsNegative() {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.UpdatePrice(ctx, strings.TrimSpace(id), price)
}
