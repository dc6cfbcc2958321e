// Package internal wires the aggregation services into the long-running
// tracker that records portfolio snapshots.
package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/events"
	"github.com/vadiminshakov/walletrack/internal/services/portfolio"
	"github.com/vadiminshakov/walletrack/internal/storage/snapshots"
	"github.com/vadiminshakov/walletrack/pkg/retrier"
)

// CredentialSource lists the configured credentials of a session.
type CredentialSource interface {
	List(session string) ([]domain.Credential, []domain.InvestmentConfig, error)
}

// Tracker periodically aggregates the portfolio of one session, persists the
// snapshot and publishes it to subscribers. The session is carried explicitly,
// there is no ambient session state.
type Tracker struct {
	session     string
	creds       CredentialSource
	store       snapshots.Store
	aggregator  *portfolio.Aggregator
	broadcaster *events.PortfolioBroadcaster
	interval    time.Duration
	retrier     *retrier.Retrier
	logger      *zap.Logger
}

// NewTracker creates a tracker for one session.
func NewTracker(
	session string,
	creds CredentialSource,
	store snapshots.Store,
	aggregator *portfolio.Aggregator,
	broadcaster *events.PortfolioBroadcaster,
	interval time.Duration,
	logger *zap.Logger,
) *Tracker {
	return &Tracker{
		session:     session,
		creds:       creds,
		store:       store,
		aggregator:  aggregator,
		broadcaster: broadcaster,
		interval:    interval,
		retrier:     retrier.New(),
		logger:      logger,
	}
}

// AggregatePortfolio runs one aggregation pass over the session's configured
// credentials. Partial credential failures are reported inside the snapshot,
// never as an error.
func (t *Tracker) AggregatePortfolio(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	creds, investments, err := t.creds.List(t.session)
	if err != nil {
		return nil, errors.Wrap(err, "list credentials")
	}
	return t.aggregator.AggregateAll(ctx, creds, investments)
}

// History returns the session's persisted snapshots recorded at or after since.
func (t *Tracker) History(ctx context.Context, since time.Time) ([]domain.PortfolioSnapshot, error) {
	return t.store.Query(ctx, t.session, since)
}

// RecordAndFetchHistory aggregates, persists the snapshot and returns it
// together with the full history including the new row.
func (t *Tracker) RecordAndFetchHistory(ctx context.Context) (*domain.PortfolioSnapshot, []domain.PortfolioSnapshot, error) {
	snapshot, err := t.AggregatePortfolio(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := t.store.Append(ctx, t.session, *snapshot); err != nil {
		return nil, nil, errors.Wrap(err, "append snapshot")
	}
	history, err := t.store.Query(ctx, t.session, time.Time{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "query history")
	}
	return snapshot, history, nil
}

// Run records snapshots on the configured interval until ctx is cancelled.
// A failing pass (pricing outage, storage trouble) is retried with backoff
// and then skipped until the next tick.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.recordOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.recordOnce(ctx)
		}
	}
}

func (t *Tracker) recordOnce(ctx context.Context) {
	snapshot, err := retrier.DoWithData(t.retrier, ctx, func(ctx context.Context) (*domain.PortfolioSnapshot, error) {
		snap, err := t.AggregatePortfolio(ctx)
		if err != nil {
			return nil, err
		}
		if err := t.store.Append(ctx, t.session, *snap); err != nil {
			return nil, errors.Wrap(err, "append snapshot")
		}
		return snap, nil
	})
	if err != nil {
		t.logger.Error("recording pass failed", zap.Error(err))
		return
	}

	t.broadcaster.Publish(*snapshot)
	t.logger.Info("snapshot recorded",
		zap.String("session", t.session),
		zap.String("total_value", snapshot.TotalValue.String()),
		zap.String("profit_rate", snapshot.ProfitRate.StringFixed(2)))
}
