// Package pricer fetches the price table shared by every valuation in a pass.
package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// PriceLister lists current prices of all traded pairs.
type PriceLister interface {
	ListPrices(ctx context.Context) ([]*binance.SymbolPrice, error)
}

// Service pulls a full price snapshot from the exchange.
type Service struct {
	client PriceLister
	logger *zap.Logger
}

// New creates a price table service.
func New(client PriceLister, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Fetch pulls the current price of every traded pair. Failure here is fatal
// for the aggregation pass: a partial table would silently zero out assets,
// so callers get domain.ErrPricingUnavailable instead of a best-effort table.
func (s *Service) Fetch(ctx context.Context) (*domain.PriceTable, error) {
	listed, err := s.client.ListPrices(ctx)
	if err != nil {
		return nil, errors.Wrap(domain.ErrPricingUnavailable, err.Error())
	}

	prices := make(map[string]decimal.Decimal, len(listed))
	for _, p := range listed {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			s.logger.Warn("skipping unparsable price",
				zap.String("symbol", p.Symbol), zap.String("price", p.Price))
			continue
		}
		prices[p.Symbol] = price
	}

	table := domain.NewPriceTable(prices)
	s.logger.Debug("fetched price table", zap.Int("pairs", table.Len()))
	return table, nil
}
