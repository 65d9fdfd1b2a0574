package app

import (
	"context"

	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type ProductRepo interface {
	Create(ctx context.Context, p domain.NewProduct) (domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error)
}
