package reader

import (
	"context"
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/delivery"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

type fakeClient struct {
	spotAccount     *binance.Account
	spotErr         error
	futBalances     []*futures.Balance
	futBalancesErr  error
	futPositions    []*futures.AccountPosition
	futPositionsErr error
	coinBalances    []*delivery.Balance
	coinErr         error
	marginAccount   *binance.MarginAccount
	marginErr       error
	isolatedAccount *binance.IsolatedMarginAccount
	isolatedErr     error
}

func (f *fakeClient) SpotAccount(context.Context) (*binance.Account, error) {
	return f.spotAccount, f.spotErr
}

func (f *fakeClient) FuturesBalances(context.Context) ([]*futures.Balance, error) {
	return f.futBalances, f.futBalancesErr
}

func (f *fakeClient) FuturesPositions(context.Context) ([]*futures.AccountPosition, error) {
	return f.futPositions, f.futPositionsErr
}

func (f *fakeClient) CoinFuturesBalances(context.Context) ([]*delivery.Balance, error) {
	return f.coinBalances, f.coinErr
}

func (f *fakeClient) CrossMarginAccount(context.Context) (*binance.MarginAccount, error) {
	return f.marginAccount, f.marginErr
}

func (f *fakeClient) IsolatedMarginAccount(context.Context) (*binance.IsolatedMarginAccount, error) {
	return f.isolatedAccount, f.isolatedErr
}

func prices(pairs map[string]float64) *domain.PriceTable {
	m := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		m[k] = decimal.NewFromFloat(v)
	}
	return domain.NewPriceTable(m)
}

func TestSpotReaderSumsFreeAndLocked(t *testing.T) {
	client := &fakeClient{spotAccount: &binance.Account{Balances: []binance.Balance{
		{Asset: "BTC", Free: "0.5", Locked: "0.1"},
		{Asset: "USDT", Free: "100", Locked: "0"},
		{Asset: "DUST", Free: "0", Locked: "0"},
	}}}

	r := &SpotReader{client: client}
	balances, err := r.Read(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, balances, 2)
	require.Equal(t, "BTC", balances[0].Asset)
	require.True(t, balances[0].Quantity.Equal(decimal.NewFromFloat(0.6)))
	require.Equal(t, "USDT", balances[1].Asset)
	require.True(t, balances[1].Quantity.Equal(decimal.NewFromInt(100)))
}

func TestSpotReaderWrapsFetchFailure(t *testing.T) {
	client := &fakeClient{spotErr: errors.New("boom")}

	r := &SpotReader{client: client}
	_, err := r.Read(context.Background(), nil)
	require.Error(t, err)

	var accErr *domain.AccountError
	require.ErrorAs(t, err, &accErr)
	require.Equal(t, domain.AccountTypeSpot, accErr.Type)
}

func TestUSDTFuturesReaderFoldsUnrealizedProfitIntoQuoteRow(t *testing.T) {
	client := &fakeClient{
		futBalances: []*futures.Balance{
			{Asset: "USDT", Balance: "100"},
			{Asset: "BNB", Balance: "2"},
		},
		futPositions: []*futures.AccountPosition{
			{Symbol: "BTCUSDT", UnrealizedProfit: "25"},
			{Symbol: "ETHUSDT", UnrealizedProfit: "-5"},
		},
	}

	r := &USDTFuturesReader{client: client, quote: "USDT"}
	balances, err := r.Read(context.Background(), nil)
	require.NoError(t, err)

	byAsset := map[string]decimal.Decimal{}
	for _, b := range balances {
		byAsset[b.Asset] = b.Quantity
	}
	require.True(t, byAsset["USDT"].Equal(decimal.NewFromInt(120)), "got %s", byAsset["USDT"])
	require.True(t, byAsset["BNB"].Equal(decimal.NewFromInt(2)))
}

func TestUSDTFuturesReaderCreatesQuoteRowForOrphanProfit(t *testing.T) {
	// positions carry PnL but the wallet has no USDT row: the quote leg must
	// be created, not dropped
	client := &fakeClient{
		futBalances: []*futures.Balance{
			{Asset: "BNB", Balance: "2"},
		},
		futPositions: []*futures.AccountPosition{
			{Symbol: "BTCUSDT", UnrealizedProfit: "30"},
		},
	}

	r := &USDTFuturesReader{client: client, quote: "USDT"}
	balances, err := r.Read(context.Background(), nil)
	require.NoError(t, err)

	byAsset := map[string]decimal.Decimal{}
	for _, b := range balances {
		byAsset[b.Asset] = b.Quantity
	}
	require.True(t, byAsset["USDT"].Equal(decimal.NewFromInt(30)))
}

func TestCoinFuturesReaderDoesNotFoldProfit(t *testing.T) {
	client := &fakeClient{
		coinBalances: []*delivery.Balance{
			{Asset: "BTC", Balance: "0.2"},
			{Asset: "EMPTY", Balance: "0"},
		},
		// positions would only matter for the USDT futures reader
		futPositions: []*futures.AccountPosition{{Symbol: "BTCUSD_PERP", UnrealizedProfit: "99"}},
	}

	r := &CoinFuturesReader{client: client}
	balances, err := r.Read(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, balances, 1)
	require.Equal(t, "BTC", balances[0].Asset)
	require.True(t, balances[0].Quantity.Equal(decimal.NewFromFloat(0.2)))
}

func TestCrossMarginReaderUsesNetAsset(t *testing.T) {
	client := &fakeClient{marginAccount: &binance.MarginAccount{UserAssets: []binance.UserAsset{
		{Asset: "BTC", NetAsset: "0.3"},
		{Asset: "USDT", NetAsset: "-12"},
		{Asset: "BNB", NetAsset: "0"},
	}}}

	r := &CrossMarginReader{client: client}
	balances, err := r.Read(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, balances, 1)
	require.Equal(t, "BTC", balances[0].Asset)
}

func TestIsolatedMarginReaderConvertsEnabledPairs(t *testing.T) {
	client := &fakeClient{isolatedAccount: &binance.IsolatedMarginAccount{
		Assets: []binance.IsolatedMarginAsset{
			{
				Symbol:     "BTCUSDT",
				Enabled:    true,
				BaseAsset:  binance.IsolatedUserAsset{Asset: "BTC", NetAsset: "0.001"},
				QuoteAsset: binance.IsolatedUserAsset{Asset: "USDT", NetAsset: "10"},
			},
			{
				Symbol:     "ETHBTC",
				Enabled:    true,
				BaseAsset:  binance.IsolatedUserAsset{Asset: "ETH", NetAsset: "1"},
				QuoteAsset: binance.IsolatedUserAsset{Asset: "BTC", NetAsset: "0.5"},
			},
			{
				Symbol:     "BNBUSDT",
				Enabled:    false,
				BaseAsset:  binance.IsolatedUserAsset{Asset: "BNB", NetAsset: "100"},
				QuoteAsset: binance.IsolatedUserAsset{Asset: "USDT", NetAsset: "100"},
			},
		},
	}}

	table := prices(map[string]float64{"BTCUSDT": 50000, "ETHUSDT": 3000})

	r := &IsolatedMarginReader{client: client, quote: "USDT"}
	balances, err := r.Read(context.Background(), table)
	require.NoError(t, err)

	byPair := map[string]decimal.Decimal{}
	for _, b := range balances {
		byPair[b.Asset] = b.Quantity
	}
	// 0.001 BTC * 50000 + 10 USDT quote leg
	require.True(t, byPair["BTCUSDT"].Equal(decimal.NewFromInt(60)), "got %s", byPair["BTCUSDT"])
	// ETH base priced via ETHUSDT; BTC quote leg ignored because quote != USDT
	require.True(t, byPair["ETHBTC"].Equal(decimal.NewFromInt(3000)))
	// disabled pair skipped entirely
	_, ok := byPair["BNBUSDT"]
	require.False(t, ok)
}

func TestIsolatedMarginReaderMissingPriceZeroesOnlyThatPair(t *testing.T) {
	client := &fakeClient{isolatedAccount: &binance.IsolatedMarginAccount{
		Assets: []binance.IsolatedMarginAsset{
			{
				Symbol:     "BTCUSDT",
				Enabled:    true,
				BaseAsset:  binance.IsolatedUserAsset{Asset: "BTC", NetAsset: "0.001"},
				QuoteAsset: binance.IsolatedUserAsset{Asset: "USDT", NetAsset: "0"},
			},
			{
				Symbol:     "ETHUSDT",
				Enabled:    true,
				BaseAsset:  binance.IsolatedUserAsset{Asset: "ETH", NetAsset: "2"},
				QuoteAsset: binance.IsolatedUserAsset{Asset: "USDT", NetAsset: "0"},
			},
		},
	}}

	// no BTCUSDT price: that pair's base contributes 0, ETH unaffected
	table := prices(map[string]float64{"ETHUSDT": 3000})

	r := &IsolatedMarginReader{client: client, quote: "USDT"}
	balances, err := r.Read(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, balances, 1)
	require.Equal(t, "ETHUSDT", balances[0].Asset)
	require.True(t, balances[0].Quantity.Equal(decimal.NewFromInt(6000)))
}

func TestAllBuildsRegistryForEveryAccountType(t *testing.T) {
	registry := All(&fakeClient{}, "USDT")

	require.Len(t, registry, 5)
	for _, accountType := range domain.AllAccountTypes() {
		r, ok := registry[accountType]
		require.True(t, ok, "missing reader for %s", accountType)
		require.Equal(t, accountType, r.Type())
	}
}
