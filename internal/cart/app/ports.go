package app

import (
	"context"

	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
)

// CartStore is the only writer of carts and their items. Implementations
// return ErrCartNotFound, ErrItemNotFound and ErrDuplicateItem as documented
// and any other error for infrastructure failures.
type CartStore interface {
	CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	// GetCart returns the cart with its items, or ErrCartNotFound.
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	// FindItem returns the (cart, product) line, or ErrItemNotFound.
	FindItem(ctx context.Context, cartID, productID string) (domain.CartItem, error)
	// InsertItem returns ErrDuplicateItem if the line already exists.
	InsertItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// IncrementItem atomically adds delta to the line, creating it with
	// quantity delta if absent. It must be a single storage operation.
	IncrementItem(ctx context.Context, cartID, productID string, delta int) error
	DeleteItem(ctx context.Context, cartID, productID string) error
}

// CatalogReader resolves product ids to current catalog data. Unknown ids are
// absent from the result map; only infrastructure problems are errors.
type CatalogReader interface {
	GetProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// RefreshSignal tells cached views that a cart changed.
type RefreshSignal interface {
	CartChanged(ctx context.Context, evt domain.CartChanged) error
}

type noopSignal struct{}

func (noopSignal) CartChanged(context.Context, domain.CartChanged) error { return nil }
