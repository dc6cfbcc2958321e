package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/walletrack/internal/domain"
)

const (
	defaultSnapshotDir   = "./wal/portfolio"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "portfolio_snapshot_"
)

// WALStore persists portfolio snapshots in a write-ahead log. It is the
// default backend: no external services, crash-safe appends.
//
// byKey maps each WAL key to its record indexes so Query never rescans other
// sessions' records; it is rebuilt once on open and extended on Append.
type WALStore struct {
	wal   *gowal.Wal
	mu    sync.RWMutex
	byKey map[string][]uint64
}

// NewWALStore initializes a WAL-backed snapshot store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "snapshot_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init portfolio snapshot WAL")
	}

	byKey := make(map[string][]uint64)
	for idx := uint64(1); idx <= wal.CurrentIndex(); idx++ {
		if key, _, err := wal.Get(idx); err == nil {
			byKey[key] = append(byKey[key], idx)
		}
	}

	return &WALStore{wal: wal, byKey: byKey}, nil
}

// Append writes the snapshot under the session's key.
func (s *WALStore) Append(_ context.Context, session string, snapshot domain.PortfolioSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}
	if session == "" {
		return errors.New("session is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal portfolio snapshot")
	}

	key := fmt.Sprintf("%s%s", snapshotKeyPrefix, session)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, key, payload); err != nil {
		return err
	}
	s.byKey[key] = append(s.byKey[key], nextIndex)
	return nil
}

// Query returns the session's snapshots recorded at or after since, in
// append order. Appends are monotonic in time, so append order is time order.
func (s *WALStore) Query(_ context.Context, session string, since time.Time) ([]domain.PortfolioSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("snapshot store is not initialized")
	}

	key := fmt.Sprintf("%s%s", snapshotKeyPrefix, session)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.PortfolioSnapshot
	for _, idx := range s.byKey[key] {
		_, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		var snapshot domain.PortfolioSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode portfolio snapshot")
		}
		if !since.IsZero() && snapshot.RecordedAt.Before(since) {
			continue
		}
		out = append(out, snapshot)
	}

	return out, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
