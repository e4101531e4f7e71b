package websocket

import (
	"log/slog"
	"time"

	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/events"
)

// Notifier translates dataset lifecycle callbacks into hub broadcasts. It sits
// between the dataset store/watcher and the hub so that neither needs to know
// the wire format of the stream.
type Notifier struct {
	hub    *Hub
	logger *slog.Logger
}

// NewNotifier creates a new notifier with dependency injection
func NewNotifier(hub *Hub, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = hub.logger // Use hub's logger if none provided
	}
	return &Notifier{
		hub:    hub,
		logger: logger.With(slog.String("component", "websocket.notifier")),
	}
}

// SnapshotReloaded announces a freshly loaded snapshot to all clients.
func (n *Notifier) SnapshotReloaded(snap *dataset.Snapshot, traceID string) {
	if snap == nil {
		return
	}
	meta := snap.Meta()

	payload := events.DatasetReloaded{
		TotalRows: meta.TotalRows,
		Sources:   snap.Labels(),
		LoadedAt:  meta.LoadedAt,
	}

	n.logger.Info("Broadcasting dataset reload",
		slog.Int("total_rows", payload.TotalRows),
		slog.Int("sources", len(payload.Sources)))

	n.hub.BroadcastDatasetReloadedWithTrace(payload, traceID)
}

// SourcesChanged advises clients that source files changed after the current
// snapshot was loaded. Matches the watcher's onStale callback signature.
func (n *Notifier) SourcesChanged(changedFiles []string) {
	n.logger.Warn("Broadcasting stale dataset notice",
		slog.Int("changed_files", len(changedFiles)))

	n.hub.BroadcastDatasetStale(events.DatasetStale{
		ChangedFiles: changedFiles,
		DetectedAt:   time.Now().UTC(),
	})
}

// LoadFailed pushes a reload failure to clients. The previous snapshot stays
// live, so the error is not fatal for connected dashboards.
func (n *Notifier) LoadFailed(err error) {
	n.logger.Error("Broadcasting dataset load failure",
		slog.String("error", err.Error()))

	n.hub.BroadcastError("DATASET_LOAD_FAILED", err.Error(), false)
}
