package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewWalletValueMapCoalescesMissingTypesToZero(t *testing.T) {
	m := NewWalletValueMap(map[AccountType]decimal.Decimal{
		AccountTypeSpot: decimal.NewFromInt(100),
	})

	require.Len(t, m, 5)
	for _, accountType := range AllAccountTypes() {
		_, ok := m[accountType]
		require.True(t, ok, "missing key %s", accountType)
	}
	require.True(t, m[AccountTypeSpot].Equal(decimal.NewFromInt(100)))
	require.True(t, m[AccountTypeCrossMargin].IsZero())
}

func TestWalletValueMapTotalAndAdd(t *testing.T) {
	a := NewWalletValueMap(map[AccountType]decimal.Decimal{
		AccountTypeSpot:        decimal.NewFromInt(100),
		AccountTypeUSDTFutures: decimal.NewFromInt(50),
	})
	b := NewWalletValueMap(map[AccountType]decimal.Decimal{
		AccountTypeSpot: decimal.NewFromInt(25),
	})

	require.True(t, a.Total().Equal(decimal.NewFromInt(150)))

	sum := a.Add(b)
	require.True(t, sum[AccountTypeSpot].Equal(decimal.NewFromInt(125)))
	require.True(t, sum.Total().Equal(decimal.NewFromInt(175)))
	// inputs unchanged
	require.True(t, a[AccountTypeSpot].Equal(decimal.NewFromInt(100)))
}

func TestProfitRate(t *testing.T) {
	rate := ProfitRate(decimal.NewFromInt(150), decimal.NewFromInt(100))
	require.Equal(t, "50.00", rate.StringFixed(2))

	loss := ProfitRate(decimal.NewFromInt(80), decimal.NewFromInt(100))
	require.Equal(t, "-20.00", loss.StringFixed(2))

	// zero investment never divides by zero
	require.True(t, ProfitRate(decimal.NewFromInt(150), decimal.Zero).IsZero())
}

func TestFilterPositive(t *testing.T) {
	balances := []AssetBalance{
		{Asset: "BTC", Quantity: decimal.NewFromFloat(0.5)},
		{Asset: "DUST", Quantity: decimal.Zero},
		{Asset: "DEBT", Quantity: decimal.NewFromInt(-3)},
		{Asset: "ETH", Quantity: decimal.NewFromInt(2)},
	}

	filtered := FilterPositive(balances)
	require.Len(t, filtered, 2)
	require.Equal(t, "BTC", filtered[0].Asset)
	require.Equal(t, "ETH", filtered[1].Asset)
}

func TestTotalConfiguredInvestmentSumsAllCredentials(t *testing.T) {
	total := TotalConfiguredInvestment([]InvestmentConfig{
		{Label: "a", TotalInvestment: decimal.NewFromInt(100)},
		{Label: "b", TotalInvestment: decimal.NewFromInt(50)},
	})
	require.True(t, total.Equal(decimal.NewFromInt(150)))

	require.True(t, TotalConfiguredInvestment(nil).IsZero())
}
