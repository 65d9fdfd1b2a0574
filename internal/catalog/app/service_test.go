package app

import (
	"context"
	"testing"

	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	lastLimit int
	created   []domain.NewProduct
}

func (f *fakeRepo) Create(ctx context.Context, p domain.NewProduct) (domain.Product, error) {
	f.created = append(f.created, p)
	return domain.Product{ID: "p1", Name: p.Name, Description: p.Description, ImageURL: p.ImageURL, Price: p.Price}, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{ID: id}, nil
}

func (f *fakeRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	f.lastLimit = limit
	return nil, "", nil
}

func (f *fakeRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error) {
	return domain.Product{ID: id, Price: price}, nil
}

func validProduct() domain.NewProduct {
	return domain.NewProduct{
		Name:        "Keyboard",
		Description: "Mechanical, 87 keys",
		ImageURL:    "https://example.com/keyboard.jpg",
		Price:       decimal.RequireFromString("49.99"),
	}
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()

	cases := map[string]func(*domain.NewProduct){
		"empty name -> invalid":        func(p *domain.NewProduct) { p.Name = "   " },
		"empty description -> invalid": func(p *domain.NewProduct) { p.Description = "" },
		"empty image url -> invalid":   func(p *domain.NewProduct) { p.ImageURL = " " },
		"zero price -> invalid":        func(p *domain.NewProduct) { p.Price = decimal.Zero },
		"negative price -> invalid":    func(p *domain.NewProduct) { p.Price = decimal.NewFromInt(-1) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo)

			in := validProduct()
			mutate(&in)

			_, err := svc.CreateProduct(ctx, in)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Empty(t, repo.created)
		})
	}
}

func TestCreateProductTrimsFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	in := validProduct()
	in.Name = "  Keyboard  "

	p, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "Keyboard", p.Name)
	require.Len(t, repo.created, 1)
}

func TestListProductsClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, _, _ = svc.ListProducts(ctx, "", 0, "")
	require.Equal(t, 20, repo.lastLimit)

	_, _, _ = svc.ListProducts(ctx, "", 500, "")
	require.Equal(t, 100, repo.lastLimit)

	_, _, _ = svc.ListProducts(ctx, "", 7, "")
	require.Equal(t, 7, repo.lastLimit)
}

func TestUpdatePriceValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	ctx := context.Background()

	_, err := svc.UpdatePrice(ctx, "p1", decimal.NewFromInt(-5))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdatePrice(ctx, "", decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.UpdatePrice(ctx, "p1", decimal.Zero)
	require.NoError(t, err)
	require.True(t, p.Price.IsZero())
}
