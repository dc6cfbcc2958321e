package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceTableLookup(t *testing.T) {
	table := NewPriceTable(map[string]decimal.Decimal{
		"BTCUSDT": decimal.NewFromInt(50000),
		"ETHUSDT": decimal.NewFromInt(3000),
	})

	price, ok := table.PriceOf("BTCUSDT")
	require.True(t, ok)
	require.True(t, price.Equal(decimal.NewFromInt(50000)))

	// missing pair is the normal unpriceable path, not an error
	_, ok = table.PriceOf("NOPEUSDT")
	require.False(t, ok)
}

func TestPriceTableDiscardsNonPositivePrices(t *testing.T) {
	table := NewPriceTable(map[string]decimal.Decimal{
		"GOODUSDT": decimal.NewFromFloat(1.5),
		"ZEROUSDT": decimal.Zero,
		"NEGUSDT":  decimal.NewFromInt(-1),
	})

	require.Equal(t, 1, table.Len())
	_, ok := table.PriceOf("ZEROUSDT")
	require.False(t, ok)
}
