package reader

import (
	"context"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// SpotReader reads the spot wallet: balance per asset is free plus locked.
type SpotReader struct {
	client ExchangeClient
}

// Type implements Reader.
func (r *SpotReader) Type() domain.AccountType {
	return domain.AccountTypeSpot
}

// Read implements Reader.
func (r *SpotReader) Read(ctx context.Context, _ *domain.PriceTable) ([]domain.AssetBalance, error) {
	account, err := r.client.SpotAccount(ctx)
	if err != nil {
		return nil, domain.NewAccountError(r.Type(), err)
	}

	balances := make([]domain.AssetBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		free, err := parseAmount(b.Free, b.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		locked, err := parseAmount(b.Locked, b.Asset)
		if err != nil {
			return nil, domain.NewAccountError(r.Type(), err)
		}
		balances = append(balances, domain.AssetBalance{
			Asset:    b.Asset,
			Quantity: free.Add(locked),
		})
	}

	return domain.FilterPositive(balances), nil
}
