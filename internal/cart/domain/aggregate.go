package domain

import "github.com/shopspring/decimal"

// Summarize derives the unit count and subtotal of a set of lines. It holds
// no state and must be re-run on every read.
func Summarize(lines []Line) (size int, subtotal decimal.Decimal) {
	subtotal = decimal.Zero
	for _, l := range lines {
		size += l.Item.Quantity
		subtotal = subtotal.Add(l.Total())
	}
	return size, subtotal
}

// NewShoppingCart joins cart items with products by id and computes totals.
// Items whose product is missing from products are returned in dropped and
// left out of the view.
func NewShoppingCart(cart Cart, products map[string]Product) (sc ShoppingCart, dropped []CartItem) {
	lines := make([]Line, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			dropped = append(dropped, it)
			continue
		}
		lines = append(lines, Line{Item: it, Product: p})
	}

	size, subtotal := Summarize(lines)
	return ShoppingCart{
		Cart:     cart,
		Lines:    lines,
		Size:     size,
		Subtotal: subtotal,
	}, dropped
}
