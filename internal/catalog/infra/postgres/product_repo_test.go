package postgres_test

import (
	"context"
	"testing"

	"github.com/dwikikusuma/flowmazon/internal/catalog/app"
	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/dwikikusuma/flowmazon/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/flowmazon/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newProduct(name, price string) domain.NewProduct {
	return domain.NewProduct{
		Name:        name,
		Description: name + " description",
		ImageURL:    "https://example.com/" + name + ".jpg",
		Price:       decimal.RequireFromString(price),
	}
}

func TestProductRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepo(testutil.DB(t))

	created, err := repo.Create(ctx, newProduct("Lamp", "19.99"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Lamp", got.Name)
	require.Equal(t, "https://example.com/Lamp.jpg", got.ImageURL)
	require.True(t, got.Price.Equal(decimal.RequireFromString("19.99")), "price %s", got.Price)
}

func TestProductRepo_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepo(testutil.DB(t))

	_, err := repo.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, app.ErrNotFound)

	_, err = repo.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestProductRepo_ListPaginatesAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepo(testutil.DB(t))

	for _, name := range []string{"Red Mug", "Blue Mug", "Green Mug", "Desk"} {
		_, err := repo.Create(ctx, newProduct(name, "5.00"))
		require.NoError(t, err)
	}

	page1, next, err := repo.List(ctx, "mug", 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, next)

	page2, next, err := repo.List(ctx, "MUG", 2, next)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	require.Empty(t, next)

	seen := map[string]bool{}
	for _, p := range append(page1, page2...) {
		require.Contains(t, p.Name, "Mug")
		seen[p.ID] = true
	}
	require.Len(t, seen, 3)

	_, _, err = repo.List(ctx, "", 10, "garbage")
	require.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestProductRepo_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepo(testutil.DB(t))

	p, err := repo.Create(ctx, newProduct("Chair", "10.00"))
	require.NoError(t, err)

	updated, err := repo.UpdatePrice(ctx, p.ID, decimal.RequireFromString("8.00"))
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(8)))

	_, err = repo.UpdatePrice(ctx, uuid.NewString(), decimal.NewFromInt(1))
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestProductRepo_PriceKeepsSubCentDigits(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewProductRepo(testutil.DB(t))

	created, err := repo.Create(ctx, newProduct("Screw", "0.125"))
	require.NoError(t, err)

	updated, err := repo.UpdatePrice(ctx, created.ID, decimal.RequireFromString("8.005"))
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(decimal.RequireFromString("8.005")), "price %s", updated.Price)
}
