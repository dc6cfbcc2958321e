package reader

import (
	"context"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// CoinFuturesReader reads the coin-margined futures wallet. Unlike the USDT
// futures reader it does not fold unrealized PnL into the balance; the live
// system behaves this way and the asymmetry is kept until product confirms
// whether it is intentional.
type CoinFuturesReader struct {
	client ExchangeClient
}

// Type implements Reader.
func (r *CoinFuturesReader) Type() domain.AccountType {
	return domain.AccountTypeCoinFutures
}

// Read implements Reader.
func (r *CoinFuturesReader) Read(ctx context.Context, _ *domain.PriceTable) ([]domain.AssetBalance, error) {
	rows, err := r.client.CoinFuturesBalances(ctx)
	if err != nil {
		return nil, domain.NewAccountError(r.Type(), err)
	}

	balances := make([]domain.AssetBalance, 0, len(rows))
	for _, row := range rows {
		qty, err := parseAmount(row.Balance, row.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		balances = append(balances, domain.AssetBalance{Asset: row.Asset, Quantity: qty})
	}

	return domain.FilterPositive(balances), nil
}
