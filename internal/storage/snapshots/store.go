// Package snapshots persists portfolio snapshots as an append-only,
// time-ordered history per session.
package snapshots

import (
	"context"
	"time"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

// Store is the snapshot history boundary: append a snapshot, query history.
// Query returns rows in ascending recorded-at order; a zero since means the
// whole history.
type Store interface {
	Append(ctx context.Context, session string, snapshot domain.PortfolioSnapshot) error
	Query(ctx context.Context, session string, since time.Time) ([]domain.PortfolioSnapshot, error)
	Close() error
}
