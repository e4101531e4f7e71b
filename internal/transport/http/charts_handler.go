package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "stockdash/internal/errors"
	custommw "stockdash/internal/middleware"
	api "stockdash/pkg/contracts/api/v1"
)

// ChartsHandler handles chart generation requests
type ChartsHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *custommw.ValidationMiddleware
}

// NewChartsHandler creates a new charts handler
func NewChartsHandler(service DashboardServiceInterface, logger *slog.Logger) *ChartsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return &ChartsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "charts")),
		errorHandler: errorHandler,
		validate:     custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the routes for chart endpoints
func (h *ChartsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/{kind}", h.GetCharts)

	return r
}

// GetCharts handles GET /api/charts/{kind}
func (h *ChartsHandler) GetCharts(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	req := api.ChartRequest{
		DateRangeRequest: parseDateRange(r),
		Kind:             kind,
		Tickers:          parseTickers(r),
	}
	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	start := time.Now()
	charts, err := h.service.Charts(r.Context(), req)
	custommw.RecordChartBuild(r.Context(), kind, time.Since(start), err == nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "chart build failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, translateServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   charts,
	})
}
