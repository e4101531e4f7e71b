package dataset

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"stockdash/internal/infrastructure"
)

// ErrNotLoaded is returned by Store.Dataset before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Store is the process-lifetime memoization cache for the loader's output.
// The snapshot is loaded once at startup and reused on every request; Reload
// swaps in a fresh snapshot atomically and keeps the previous one when the
// reload fails. Dataset is the single accessor; there is no other way to
// reach the cached load.
type Store struct {
	loader  *Loader
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu   sync.Mutex // serializes Load/Reload
	snap atomic.Pointer[Snapshot]
}

// NewStore creates a store over the given loader. metrics may be nil.
func NewStore(loader *Loader, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{loader: loader, logger: logger, metrics: metrics}
}

// Load performs the initial load. It is called once at process start; a
// failure here means a required input file is missing or unreadable and the
// dashboard cannot render.
func (s *Store) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Dataset returns the current snapshot. It never triggers a load.
func (s *Store) Dataset() (*Snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Loaded reports whether a snapshot is available.
func (s *Store) Loaded() bool {
	return s.snap.Load() != nil
}

// Sources returns the configured source specs backing the store.
func (s *Store) Sources() []SourceTable {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.PerSource
}

// Reload re-runs the loader and atomically swaps the snapshot. On failure
// the previous snapshot stays live and the error is returned. Loading stays
// all-or-nothing; there is no partial refresh.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	snap, err := s.loader.Load(ctx)

	rows := 0
	if snap != nil {
		rows = snap.Combined.Len()
	}
	infrastructure.RecordDatasetLoadMetrics(ctx, s.metrics, rows, time.Since(start), err)

	if err != nil {
		s.logger.ErrorContext(ctx, "dataset reload failed, keeping previous snapshot",
			slog.String("error", err.Error()),
			slog.Bool("snapshot_available", s.snap.Load() != nil))
		return nil, err
	}

	s.snap.Store(snap)
	return snap, nil
}
