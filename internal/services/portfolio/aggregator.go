// Package portfolio aggregates wallets across all configured credentials and
// computes profit against the configured investment.
package portfolio

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/walletrack/internal/clients"
	"github.com/vadiminshakov/walletrack/internal/domain"
)

// WalletAggregator aggregates one credential's accounts into a value map.
type WalletAggregator interface {
	Aggregate(ctx context.Context, prices *domain.PriceTable) (domain.WalletValueMap, error)
}

// PriceFetcher pulls the price table shared by a whole pass.
type PriceFetcher interface {
	Fetch(ctx context.Context) (*domain.PriceTable, error)
}

// Aggregator runs a full portfolio pass: one price table, one wallet
// aggregation per credential, merged totals and profit figures.
type Aggregator struct {
	pricer    PriceFetcher
	newWallet func(cred domain.Credential) WalletAggregator
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a portfolio aggregator. newWallet builds the per-credential
// wallet aggregator, keeping the exchange client construction out of this
// package.
func New(pricer PriceFetcher, newWallet func(cred domain.Credential) WalletAggregator, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		pricer:    pricer,
		newWallet: newWallet,
		logger:    logger,
		now:       time.Now,
	}
}

// AggregateAll aggregates every credential and reduces the results into one
// snapshot. A fatally failed credential is reported in the snapshot's
// Failures and excluded from value totals, but its configured investment
// still counts toward the investment total. The pass as a whole fails only
// when the price table cannot be fetched.
func (a *Aggregator) AggregateAll(ctx context.Context, creds []domain.Credential, investments []domain.InvestmentConfig) (*domain.PortfolioSnapshot, error) {
	prices, err := a.pricer.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "aggregation pass aborted")
	}

	type outcome struct {
		values domain.WalletValueMap
		err    error
	}
	outcomes := make([]outcome, len(creds))

	// indexed fan-out keeps the output order tied to the configured order,
	// not to completion order
	g, gctx := errgroup.WithContext(ctx)
	for i, cred := range creds {
		wallet := a.newWallet(cred)
		g.Go(func() error {
			values, err := wallet.Aggregate(gctx, prices)
			outcomes[i] = outcome{values: values, err: err}
			return nil
		})
	}
	// goroutines only record outcomes, they never return errors
	_ = g.Wait()

	snapshot := &domain.PortfolioSnapshot{
		Totals:     domain.NewWalletValueMap(nil),
		RecordedAt: a.now(),
	}
	for i, cred := range creds {
		if outcomes[i].err != nil {
			failure := domain.CredentialFailure{
				Label:  cred.Label,
				Kind:   clients.Classify(outcomes[i].err),
				Reason: clients.FriendlyMessage(outcomes[i].err),
			}
			snapshot.Failures = append(snapshot.Failures, failure)
			a.logger.Error("credential aggregation failed",
				zap.String("label", cred.Label),
				zap.String("kind", string(failure.Kind)),
				zap.Error(outcomes[i].err))
			continue
		}
		snapshot.Accounts = append(snapshot.Accounts, domain.AccountResult{
			Label:  cred.Label,
			Values: outcomes[i].values,
		})
		snapshot.Totals = snapshot.Totals.Add(outcomes[i].values)
	}

	snapshot.TotalValue = snapshot.Totals.Total()
	snapshot.TotalInvestment = domain.TotalConfiguredInvestment(investments)
	snapshot.ProfitAmount = snapshot.TotalValue.Sub(snapshot.TotalInvestment)
	snapshot.ProfitRate = domain.ProfitRate(snapshot.TotalValue, snapshot.TotalInvestment)

	a.logger.Info("portfolio pass complete",
		zap.Int("credentials", len(creds)),
		zap.Int("failed", len(snapshot.Failures)),
		zap.String("total_value", snapshot.TotalValue.String()))

	return snapshot, nil
}
