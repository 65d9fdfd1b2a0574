package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		size, subtotal := Summarize(nil)
		require.Equal(t, 0, size)
		require.True(t, subtotal.IsZero())
	})

	t.Run("mixed prices", func(t *testing.T) {
		lines := []Line{
			{Item: CartItem{ProductID: "a", Quantity: 2}, Product: Product{ID: "a", Price: decimal.RequireFromString("10.00")}},
			{Item: CartItem{ProductID: "b", Quantity: 1}, Product: Product{ID: "b", Price: decimal.RequireFromString("5.50")}},
		}
		size, subtotal := Summarize(lines)
		require.Equal(t, 3, size)
		require.True(t, subtotal.Equal(decimal.RequireFromString("25.50")), "subtotal %s", subtotal)
	})

	t.Run("no float drift", func(t *testing.T) {
		lines := []Line{
			{Item: CartItem{Quantity: 3}, Product: Product{Price: decimal.RequireFromString("0.10")}},
			{Item: CartItem{Quantity: 1}, Product: Product{Price: decimal.RequireFromString("0.20")}},
		}
		_, subtotal := Summarize(lines)
		require.Equal(t, "0.5", subtotal.String())
	})
}

func TestNewShoppingCartDropsUnknownProducts(t *testing.T) {
	cart := Cart{
		ID: "c1",
		Items: []CartItem{
			{ProductID: "a", Quantity: 2},
			{ProductID: "gone", Quantity: 4},
		},
	}
	products := map[string]Product{
		"a": {ID: "a", Price: decimal.NewFromInt(3)},
	}

	sc, dropped := NewShoppingCart(cart, products)
	require.Len(t, sc.Lines, 1)
	require.Equal(t, 2, sc.Size)
	require.True(t, sc.Subtotal.Equal(decimal.NewFromInt(6)))
	require.Len(t, dropped, 1)
	require.Equal(t, "gone", dropped[0].ProductID)
}

func TestLineTotal(t *testing.T) {
	l := Line{Item: CartItem{Quantity: 4}, Product: Product{Price: decimal.RequireFromString("2.25")}}
	require.True(t, l.Total().Equal(decimal.RequireFromString("9")))
}
