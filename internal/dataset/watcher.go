package dataset

import (
	"context"
	"log/slog"
	"os"
	"time"

	"stockdash/internal/config"
)

// StaleFunc is called with the changed file paths whenever the watcher
// detects that source files on disk are newer than the loaded snapshot.
type StaleFunc func(changed []string)

// Watcher polls the tracked source files' modification times and reports
// when they drift ahead of the loaded snapshot. It never reloads on its own;
// reloading stays an explicit operation.
type Watcher struct {
	store    *Store
	sources  []config.SourceSpec
	interval time.Duration
	onStale  StaleFunc
	logger   *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// NewWatcher creates a watcher over the store's configured sources.
func NewWatcher(store *Store, sources []config.SourceSpec, interval time.Duration, onStale StaleFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		store:    store,
		sources:  sources,
		interval: interval,
		onStale:  onStale,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the polling loop in a background goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.check(ctx)
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the polling loop and waits for it to exit.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	<-w.done
}

// check compares each source file's mtime against the snapshot load time and
// invokes the stale callback once per sweep with every changed file.
func (w *Watcher) check(ctx context.Context) {
	snap, err := w.store.Dataset()
	if err != nil {
		return
	}

	var changed []string
	for _, src := range w.sources {
		info, err := os.Stat(src.File)
		if err != nil {
			// A vanished file will fail the next explicit reload; the
			// watcher only reports, it does not enforce.
			w.logger.WarnContext(ctx, "source file unreadable during freshness check",
				slog.String("file", src.File),
				slog.String("error", err.Error()))
			continue
		}
		if info.ModTime().After(snap.LoadedAt) {
			changed = append(changed, src.File)
		}
	}

	if len(changed) == 0 {
		return
	}

	w.logger.InfoContext(ctx, "source files changed on disk since load",
		slog.Int("changed", len(changed)))

	if w.onStale != nil {
		w.onStale(changed)
	}
}
