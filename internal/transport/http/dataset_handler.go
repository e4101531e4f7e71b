package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"stockdash/internal/dataset"
	apierrors "stockdash/internal/errors"
	"stockdash/internal/infrastructure"
	custommw "stockdash/internal/middleware"
	ws "stockdash/internal/websocket"
)

// DatasetHandler handles dataset lifecycle requests
type DatasetHandler struct {
	store        *dataset.Store
	notifier     *ws.Notifier
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(store *dataset.Store, notifier *ws.Notifier, logger *slog.Logger) *DatasetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetHandler{
		store:        store,
		notifier:     notifier,
		logger:       logger.With(slog.String("handler", "dataset")),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// Routes returns the routes for dataset endpoints
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/reload", custommw.ReloadTraceHandler(h.Reload))

	return r
}

// Reload handles POST /api/dataset/reload. The reload is all-or-nothing: on
// failure the previously loaded snapshot stays live and connected clients are
// told why.
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	traceID := infrastructure.TraceIDFromContext(r.Context())

	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID),
		slog.String("trace_id", traceID))

	snap, err := h.store.Reload(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset reload failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
		if h.notifier != nil {
			h.notifier.LoadFailed(err)
		}
		h.errorHandler.HandleError(w, r, translateServiceError(err))
		return
	}

	if h.notifier != nil {
		h.notifier.SnapshotReloaded(snap, traceID)
	}

	meta := snap.Meta()
	h.logger.InfoContext(r.Context(), "dataset reloaded",
		slog.String("request_id", reqID),
		slog.Int("total_rows", snap.Combined.Len()),
		slog.Int("sources", len(snap.PerSource)))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   meta,
	})
}
