package reader

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// IsolatedMarginReader reads the isolated margin account. Values are
// pre-converted to the quote currency per enabled pair: the base leg through
// the pair's own <base><quote> price, the quote leg taken as-is only when the
// pair's quote asset already is the quote currency. The resulting entries
// carry the pair symbol and the converted value.
type IsolatedMarginReader struct {
	client ExchangeClient
	quote  string
}

// Type implements Reader.
func (r *IsolatedMarginReader) Type() domain.AccountType {
	return domain.AccountTypeIsolatedMargin
}

// Read implements Reader.
func (r *IsolatedMarginReader) Read(ctx context.Context, prices *domain.PriceTable) ([]domain.AssetBalance, error) {
	account, err := r.client.IsolatedMarginAccount(ctx)
	if err != nil {
		// like cross margin, isolated margin may not be enabled at all
		return nil, domain.NewAccountError(r.Type(), err)
	}

	balances := make([]domain.AssetBalance, 0, len(account.Assets))
	for _, pair := range account.Assets {
		if !pair.Enabled {
			continue
		}

		baseNet, err := parseAmount(pair.BaseAsset.NetAsset, pair.BaseAsset.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		baseValue := decimal.Zero
		if baseNet.IsPositive() {
			// price lookup failure zeroes only this pair's base leg
			if price, ok := prices.PriceOf(pair.BaseAsset.Asset + r.quote); ok {
				baseValue = baseNet.Mul(price)
			}
		}

		quoteNet, err := parseAmount(pair.QuoteAsset.NetAsset, pair.QuoteAsset.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		quoteValue := decimal.Zero
		if pair.QuoteAsset.Asset == r.quote {
			quoteValue = quoteNet
		}

		balances = append(balances, domain.AssetBalance{
			Asset:    pair.Symbol,
			Quantity: baseValue.Add(quoteValue),
		})
	}

	return domain.FilterPositive(balances), nil
}
