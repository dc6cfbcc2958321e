package reader

import (
	"context"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// CrossMarginReader reads the cross margin account. The balance per asset is
// the net asset: free plus locked minus borrowed minus accrued interest.
// Binance reports netAsset directly, so that field is taken as-is.
type CrossMarginReader struct {
	client ExchangeClient
}

// Type implements Reader.
func (r *CrossMarginReader) Type() domain.AccountType {
	return domain.AccountTypeCrossMargin
}

// Read implements Reader.
func (r *CrossMarginReader) Read(ctx context.Context, _ *domain.PriceTable) ([]domain.AssetBalance, error) {
	account, err := r.client.CrossMarginAccount(ctx)
	if err != nil {
		// cross margin may simply never have been enabled for this account,
		// the aggregator treats the failure as tolerable
		return nil, domain.NewAccountError(r.Type(), err)
	}

	balances := make([]domain.AssetBalance, 0, len(account.UserAssets))
	for _, asset := range account.UserAssets {
		net, err := parseAmount(asset.NetAsset, asset.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		balances = append(balances, domain.AssetBalance{Asset: asset.Asset, Quantity: net})
	}

	return domain.FilterPositive(balances), nil
}
