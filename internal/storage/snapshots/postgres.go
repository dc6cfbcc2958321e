package snapshots

import (
	"context"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS portfolio_history (
	id          BIGSERIAL PRIMARY KEY,
	session_id  TEXT NOT NULL,
	total_value NUMERIC NOT NULL,
	payload     JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS portfolio_history_session_recorded_idx
	ON portfolio_history (session_id, recorded_at);
`

// PostgresStore persists snapshots in a Postgres table. The full snapshot
// lives in a JSONB payload; session and recorded-at are indexed columns.
type PostgresStore struct {
	db *sqlx.DB
}

type historyRow struct {
	SessionID  string    `db:"session_id"`
	TotalValue string    `db:"total_value"`
	Payload    []byte    `db:"payload"`
	RecordedAt time.Time `db:"recorded_at"`
}

// NewPostgresStore connects with the pgx stdlib driver and ensures the
// history table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if _, err := db.ExecContext(ctx, createHistoryTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create portfolio_history table")
	}
	return &PostgresStore{db: db}, nil
}

// Append implements Store.
func (s *PostgresStore) Append(ctx context.Context, session string, snapshot domain.PortfolioSnapshot) error {
	if session == "" {
		return errors.New("session is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal portfolio snapshot")
	}

	row := historyRow{
		SessionID:  session,
		TotalValue: snapshot.TotalValue.String(),
		Payload:    payload,
		RecordedAt: snapshot.RecordedAt,
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO portfolio_history (session_id, total_value, payload, recorded_at)
		VALUES (:session_id, :total_value, :payload, :recorded_at)`, row)
	return errors.Wrap(err, "insert portfolio snapshot")
}

// Query implements Store.
func (s *PostgresStore) Query(ctx context.Context, session string, since time.Time) ([]domain.PortfolioSnapshot, error) {
	rows := make([]historyRow, 0)
	err := s.db.SelectContext(ctx, &rows, `
		SELECT session_id, total_value, payload, recorded_at
		FROM portfolio_history
		WHERE session_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC`, session, since)
	if err != nil {
		return nil, errors.Wrap(err, "query portfolio history")
	}

	out := make([]domain.PortfolioSnapshot, 0, len(rows))
	for _, row := range rows {
		var snapshot domain.PortfolioSnapshot
		if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode portfolio snapshot")
		}
		out = append(out, snapshot)
	}
	return out, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
