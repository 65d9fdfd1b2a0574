package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "$0.00", FormatPrice(decimal.Zero))
	require.Equal(t, "$25.50", FormatPrice(decimal.RequireFromString("25.5")))
	require.Equal(t, "$10.00", FormatPrice(decimal.NewFromInt(10)))
	require.Equal(t, "$0.13", FormatPrice(decimal.RequireFromString("0.125")))
	require.Equal(t, "-$3.00", FormatPrice(decimal.NewFromInt(-3)))
}
