package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewProduct struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
}

// FormatPrice renders a price for display, e.g. "$12.50".
func FormatPrice(price decimal.Decimal) string {
	if price.IsNegative() {
		return "-$" + price.Neg().StringFixed(2)
	}
	return "$" + price.StringFixed(2)
}
