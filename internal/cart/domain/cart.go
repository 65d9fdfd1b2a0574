package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cart struct {
	ID string
	// OwnerUserID is set once at creation for signed-in visitors. It is
	// metadata only: carts are always looked up by their token.
	OwnerUserID string
	Items       []CartItem
	CreatedAt   time.Time
}

// Product is the catalog's view of a product as the cart needs it.
type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
}

type Line struct {
	Item    CartItem
	Product Product
}

// Total is the line's quantity times the product's current price.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}

// ShoppingCart is a cart joined with live product data and its derived totals.
type ShoppingCart struct {
	Cart
	Lines    []Line
	Size     int
	Subtotal decimal.Decimal
}
