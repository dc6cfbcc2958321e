package internal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/events"
	"github.com/vadiminshakov/walletrack/internal/services/portfolio"
	"github.com/vadiminshakov/walletrack/internal/storage/credentials"
	"github.com/vadiminshakov/walletrack/internal/storage/snapshots"
)

type staticPricer struct{}

func (staticPricer) Fetch(context.Context) (*domain.PriceTable, error) {
	return domain.NewPriceTable(nil), nil
}

type staticWallet struct{}

func (staticWallet) Aggregate(context.Context, *domain.PriceTable) (domain.WalletValueMap, error) {
	return domain.NewWalletValueMap(map[domain.AccountType]decimal.Decimal{
		domain.AccountTypeSpot: decimal.NewFromInt(150),
	}), nil
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	credStore, err := credentials.NewFileStore(filepath.Join(t.TempDir(), "creds.yaml"))
	require.NoError(t, err)
	require.NoError(t, credStore.Save("s",
		domain.Credential{Label: "main", APIKey: "k", APISecret: "sec"},
		decimal.NewFromInt(100)))

	store, err := snapshots.NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	aggregator := portfolio.New(staticPricer{}, func(domain.Credential) portfolio.WalletAggregator {
		return staticWallet{}
	}, zap.NewNop())

	return NewTracker("s", credStore, store, aggregator,
		events.NewPortfolioBroadcaster(1), time.Minute, zap.NewNop())
}

func TestTrackerAggregatePortfolio(t *testing.T) {
	tracker := newTestTracker(t)

	snapshot, err := tracker.AggregatePortfolio(context.Background())
	require.NoError(t, err)

	require.True(t, snapshot.TotalValue.Equal(decimal.NewFromInt(150)))
	require.True(t, snapshot.TotalInvestment.Equal(decimal.NewFromInt(100)))
	require.Equal(t, "50.00", snapshot.ProfitRate.StringFixed(2))
}

func TestTrackerRecordAndFetchHistory(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()

	snapshot, history, err := tracker.RecordAndFetchHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.True(t, history[0].TotalValue.Equal(snapshot.TotalValue))

	_, history, err = tracker.RecordAndFetchHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.False(t, history[1].RecordedAt.Before(history[0].RecordedAt))
}

func TestTrackerHistoryEmptyBeforeFirstRecord(t *testing.T) {
	tracker := newTestTracker(t)

	history, err := tracker.History(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Empty(t, history)
}
