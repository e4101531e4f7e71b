package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/config"
)

func writeWatcherCSV(t *testing.T, path string) {
	t.Helper()
	content := "Date,Open,High,Low,Close,Volume\n" +
		"2015-01-02,27.85,27.86,26.84,27.33,212818400\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWatcherStore(t *testing.T, sources []config.SourceSpec) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewStore(NewLoader(sources, logger), logger, nil)
	require.NoError(t, store.Load(context.Background()))
	return store
}

func TestWatcherReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "AAPL.csv")
	writeWatcherCSV(t, file)

	sources := []config.SourceSpec{{File: file, Label: "Kaggle_AAPL"}}
	store := newWatcherStore(t, sources)

	var mu sync.Mutex
	var reported []string
	onStale := func(changed []string) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, changed...)
	}

	w := NewWatcher(store, sources, 10*time.Millisecond, onStale, nil)
	w.Start(context.Background())
	defer w.Stop()

	// Push the mtime past the snapshot load time.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, future, future))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reported) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, reported, file)
}

func TestWatcherQuietWhenFresh(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "AAPL.csv")
	writeWatcherCSV(t, file)

	sources := []config.SourceSpec{{File: file, Label: "Kaggle_AAPL"}}
	store := newWatcherStore(t, sources)

	called := make(chan struct{}, 1)
	w := NewWatcher(store, sources, 10*time.Millisecond, func([]string) {
		select {
		case called <- struct{}{}:
		default:
		}
	}, nil)
	w.Start(context.Background())
	defer w.Stop()

	select {
	case <-called:
		t.Fatal("stale callback fired for unchanged files")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "AAPL.csv")
	writeWatcherCSV(t, file)

	sources := []config.SourceSpec{{File: file, Label: "Kaggle_AAPL"}}
	store := newWatcherStore(t, sources)

	w := NewWatcher(store, sources, time.Minute, nil, nil)
	w.Start(context.Background())

	w.Stop()
	w.Stop()
}

func TestWatcherSkipsWhenNotLoaded(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "AAPL.csv")
	writeWatcherCSV(t, file)

	sources := []config.SourceSpec{{File: file, Label: "Kaggle_AAPL"}}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewStore(NewLoader(sources, logger), logger, nil)

	called := false
	w := NewWatcher(store, sources, time.Minute, func([]string) { called = true }, nil)
	w.check(context.Background())

	assert.False(t, called)
}
