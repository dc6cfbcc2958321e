// Package reader normalizes the five Binance account shapes into flat
// balance lists. Each account type has exactly one reader, resolved through
// the registry built by All.
package reader

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/delivery"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// ExchangeClient is the slice of the exchange API the readers consume.
// *clients.BinanceClient satisfies it; tests substitute fakes.
type ExchangeClient interface {
	SpotAccount(ctx context.Context) (*binance.Account, error)
	FuturesBalances(ctx context.Context) ([]*futures.Balance, error)
	FuturesPositions(ctx context.Context) ([]*futures.AccountPosition, error)
	CoinFuturesBalances(ctx context.Context) ([]*delivery.Balance, error)
	CrossMarginAccount(ctx context.Context) (*binance.MarginAccount, error)
	IsolatedMarginAccount(ctx context.Context) (*binance.IsolatedMarginAccount, error)
}

// Reader produces the normalized balance list for one account type.
// The price table is only consulted by the isolated margin reader, which
// pre-converts per-pair values; the other readers ignore it.
type Reader interface {
	Type() domain.AccountType
	Read(ctx context.Context, prices *domain.PriceTable) ([]domain.AssetBalance, error)
}

// All builds the full reader registry for one credential's client, keyed by
// account type. Account-type dispatch happens through this table only.
func All(client ExchangeClient, quote string) map[domain.AccountType]Reader {
	return map[domain.AccountType]Reader{
		domain.AccountTypeSpot:           &SpotReader{client: client},
		domain.AccountTypeUSDTFutures:    &USDTFuturesReader{client: client, quote: quote},
		domain.AccountTypeCoinFutures:    &CoinFuturesReader{client: client},
		domain.AccountTypeCrossMargin:    &CrossMarginReader{client: client},
		domain.AccountTypeIsolatedMargin: &IsolatedMarginReader{client: client, quote: quote},
	}
}

func parseAmount(value, asset string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "parse amount %q for %s", value, asset)
	}
	return d, nil
}
