// Package clients wraps the Binance SDK clients behind flat methods so the
// reader services can depend on one narrow seam instead of three SDK clients.
package clients

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/delivery"
	"github.com/adshao/go-binance/v2/futures"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// BinanceClient bundles the spot, USDT-margined futures and coin-margined
// delivery clients for one credential.
type BinanceClient struct {
	spot     *binance.Client
	futures  *futures.Client
	delivery *delivery.Client
}

// NewBinanceClient creates authenticated clients for all Binance API groups.
func NewBinanceClient(cred domain.Credential) *BinanceClient {
	return &BinanceClient{
		spot:     binance.NewClient(cred.APIKey, cred.APISecret),
		futures:  futures.NewClient(cred.APIKey, cred.APISecret),
		delivery: delivery.NewClient(cred.APIKey, cred.APISecret),
	}
}

// NewPublicClient creates an unauthenticated client. Only the public market
// data endpoints (price listing) work through it.
func NewPublicClient() *BinanceClient {
	return &BinanceClient{
		spot:     binance.NewClient("", ""),
		futures:  futures.NewClient("", ""),
		delivery: delivery.NewClient("", ""),
	}
}

// SpotAccount returns the spot account with per-asset free/locked balances.
func (c *BinanceClient) SpotAccount(ctx context.Context) (*binance.Account, error) {
	return c.spot.NewGetAccountService().Do(ctx)
}

// FuturesBalances returns per-asset balances of the USDT-margined futures wallet.
func (c *BinanceClient) FuturesBalances(ctx context.Context) ([]*futures.Balance, error) {
	return c.futures.NewGetBalanceService().Do(ctx)
}

// FuturesPositions returns all positions of the USDT-margined futures account.
func (c *BinanceClient) FuturesPositions(ctx context.Context) ([]*futures.AccountPosition, error) {
	account, err := c.futures.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, err
	}
	return account.Positions, nil
}

// CoinFuturesBalances returns per-asset balances of the coin-margined futures wallet.
func (c *BinanceClient) CoinFuturesBalances(ctx context.Context) ([]*delivery.Balance, error) {
	return c.delivery.NewGetBalanceService().Do(ctx)
}

// CrossMarginAccount returns the cross margin account with per-asset net positions.
func (c *BinanceClient) CrossMarginAccount(ctx context.Context) (*binance.MarginAccount, error) {
	return c.spot.NewGetMarginAccountService().Do(ctx)
}

// IsolatedMarginAccount returns the isolated margin account with per-pair assets.
func (c *BinanceClient) IsolatedMarginAccount(ctx context.Context) (*binance.IsolatedMarginAccount, error) {
	return c.spot.NewGetIsolatedMarginAccountService().Do(ctx)
}

// ListPrices returns the current price of every traded pair.
func (c *BinanceClient) ListPrices(ctx context.Context) ([]*binance.SymbolPrice, error) {
	return c.spot.NewListPricesService().Do(ctx)
}
