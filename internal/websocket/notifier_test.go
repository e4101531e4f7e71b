package websocket

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/domain"
	"stockdash/pkg/contracts/events"
)

func notifierSnapshot() *dataset.Snapshot {
	rows := []domain.Row{
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100, Volume: 1000, Source: "Kaggle_AAPL"},
		{Date: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), Close: 102, Volume: 1100, Source: "Kaggle_AAPL"},
	}
	return &dataset.Snapshot{
		Combined: dataset.Table{Rows: rows},
		PerSource: []dataset.SourceTable{
			{Label: "Kaggle_AAPL", File: "data/AAPL.csv", Table: dataset.Table{Rows: rows}},
		},
		LoadedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotifierSnapshotReloaded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "notifier-client")
	notifier := NewNotifier(hub, logger)

	notifier.SnapshotReloaded(notifierSnapshot(), "trace-1")

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeDatasetReloaded), msg["type"])
	assert.Equal(t, "trace-1", msg["trace_id"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_rows"])
	sources := data["sources"].([]interface{})
	require.Len(t, sources, 1)
	assert.Equal(t, "Kaggle_AAPL", sources[0])
}

func TestNotifierSnapshotReloadedNilSnapshot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "nil-client")
	notifier := NewNotifier(hub, logger)

	// A nil snapshot must not broadcast anything
	notifier.SnapshotReloaded(nil, "")

	select {
	case raw := <-client.send:
		t.Fatalf("unexpected message: %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNotifierSourcesChanged(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "stale-notifier-client")
	notifier := NewNotifier(hub, logger)

	notifier.SourcesChanged([]string{"data/AAPL.csv", "data/NFLX.csv"})

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeDatasetStale), msg["type"])

	data := msg["data"].(map[string]interface{})
	changed := data["changed_files"].([]interface{})
	require.Len(t, changed, 2)
	assert.Equal(t, "data/AAPL.csv", changed[0])
	assert.NotEmpty(t, data["detected_at"])
}

func TestNotifierLoadFailed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hub := NewHub(logger)
	hub.Start()
	defer hub.Stop()

	client := registerTestClient(t, hub, "fail-client")
	notifier := NewNotifier(hub, logger)

	notifier.LoadFailed(errors.New("open data/AAPL.csv: no such file"))

	msg := receiveMessage(t, client)
	assert.Equal(t, string(events.MessageTypeError), msg["type"])

	data := msg["data"].(map[string]interface{})
	assert.Equal(t, "DATASET_LOAD_FAILED", data["code"])
	assert.Contains(t, data["message"], "AAPL.csv")
	assert.Equal(t, false, data["fatal"])
}

func TestNotifierNilLoggerUsesHubLogger(t *testing.T) {
	hub := NewHub(nil)
	notifier := NewNotifier(hub, nil)
	assert.NotNil(t, notifier.logger)
}
