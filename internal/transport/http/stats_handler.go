package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "stockdash/internal/errors"
	custommw "stockdash/internal/middleware"
	api "stockdash/pkg/contracts/api/v1"
)

// StatsHandler handles summary statistics requests
type StatsHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *custommw.ValidationMiddleware
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service DashboardServiceInterface, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return &StatsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "stats")),
		errorHandler: errorHandler,
		validate:     custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the routes for stats endpoints
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetStats)

	return r
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	req := api.StatsRequest{
		DateRangeRequest: parseDateRange(r),
		Tickers:          parseTickers(r),
	}
	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cards, tables, filter, err := h.service.Stats(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"metric_cards": cards,
			"source_stats": tables,
			"filter":       filter,
		},
	})
}
