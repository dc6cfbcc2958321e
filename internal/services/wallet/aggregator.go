// Package wallet aggregates all account types of a single credential into a
// per-type value map.
package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/services/reader"
	"github.com/vadiminshakov/walletrack/internal/services/valuator"
)

// Aggregator fans out the five account readers for one credential and merges
// the valued results. Spot and USDT futures failures fail the whole
// credential; the remaining account types degrade to zero.
type Aggregator struct {
	readers map[domain.AccountType]reader.Reader
	quote   string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates an aggregator over the given client's readers. timeout bounds
// each individual exchange call; zero means no bound.
func New(client reader.ExchangeClient, quote string, timeout time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		readers: reader.All(client, quote),
		quote:   quote,
		timeout: timeout,
		logger:  logger,
	}
}

// Aggregate reads and values every account type concurrently. The returned
// map always carries all five keys. The error is non-nil only for a fatal
// account failure, in which case the credential must be excluded from totals.
func (a *Aggregator) Aggregate(ctx context.Context, prices *domain.PriceTable) (domain.WalletValueMap, error) {
	var mu sync.Mutex
	values := make(map[domain.AccountType]decimal.Decimal, len(a.readers))

	g, gctx := errgroup.WithContext(ctx)
	for accountType, r := range a.readers {
		g.Go(func() error {
			value, err := a.readAndValue(gctx, r, prices)
			if err != nil {
				if accountType.FatalOnFailure() {
					return err
				}
				a.logger.Warn("account read failed, counting as zero",
					zap.String("account_type", accountType.String()),
					zap.Error(err))
				value = decimal.Zero
			}
			mu.Lock()
			values[accountType] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewWalletValueMap(values), nil
}

func (a *Aggregator) readAndValue(ctx context.Context, r reader.Reader, prices *domain.PriceTable) (decimal.Decimal, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	balances, err := r.Read(ctx, prices)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return valuator.Value(balances, prices, r.Type(), a.quote), nil
}
