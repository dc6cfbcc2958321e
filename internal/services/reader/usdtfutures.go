package reader

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// USDTFuturesReader reads the USDT-margined futures wallet. Unrealized profit
// across all open positions is folded entirely into the quote-currency row:
// PnL is marked in the quote leg, not tracked per asset.
type USDTFuturesReader struct {
	client ExchangeClient
	quote  string
}

// Type implements Reader.
func (r *USDTFuturesReader) Type() domain.AccountType {
	return domain.AccountTypeUSDTFutures
}

// Read implements Reader.
func (r *USDTFuturesReader) Read(ctx context.Context, _ *domain.PriceTable) ([]domain.AssetBalance, error) {
	rows, err := r.client.FuturesBalances(ctx)
	if err != nil {
		return nil, domain.NewAccountError(r.Type(), err)
	}

	balances := make([]domain.AssetBalance, 0, len(rows))
	quoteIdx := -1
	for _, row := range rows {
		qty, err := parseAmount(row.Balance, row.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		if row.Asset == r.quote {
			quoteIdx = len(balances)
		}
		balances = append(balances, domain.AssetBalance{Asset: row.Asset, Quantity: qty})
	}

	positions, err := r.client.FuturesPositions(ctx)
	if err != nil {
		return nil, domain.NewAccountError(r.Type(), err)
	}

	unrealized := decimal.Zero
	for _, pos := range positions {
		pnl, err := parseAmount(pos.UnrealizedProfit, pos.Symbol)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		unrealized = unrealized.Add(pnl)
	}

	if !unrealized.IsZero() {
		if quoteIdx >= 0 {
			balances[quoteIdx].Quantity = balances[quoteIdx].Quantity.Add(unrealized)
		} else {
			// positions carry PnL but the wallet has no quote row: create the
			// quote leg rather than drop the profit
			balances = append(balances, domain.AssetBalance{Asset: r.quote, Quantity: unrealized})
		}
	}

	return domain.FilterPositive(balances), nil
}
