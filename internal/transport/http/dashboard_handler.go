package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "stockdash/internal/errors"
	custommw "stockdash/internal/middleware"
	"stockdash/internal/services"
	api "stockdash/pkg/contracts/api/v1"
)

// DashboardHandler handles dashboard state and dataset metadata requests
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *custommw.ValidationMiddleware
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
		validate:     custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the routes for dashboard endpoints
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetDashboard)
	r.Get("/meta", h.GetMeta)

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req := api.DashboardRequest{
		DateRangeRequest: parseDateRange(r),
		Tickers:          parseTickers(r),
		Analysis:         r.URL.Query().Get("analysis"),
	}
	if err := h.validate.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dashboard requested",
		slog.String("request_id", reqID),
		slog.Any("tickers", req.Tickers),
		slog.String("start", req.Start),
		slog.String("end", req.End),
		slog.String("analysis", req.Analysis))

	state, err := h.service.Dashboard(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   state,
	})
}

// GetMeta handles GET /api/dashboard/meta
func (h *DashboardHandler) GetMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.service.Meta(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   meta,
	})
}

func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, translateServiceError(err))
}

// translateServiceError maps service sentinel errors to API errors with the
// appropriate status codes. Unrecognized errors pass through unchanged so the
// error handler can classify them.
func translateServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.DatasetUnavailableError(err)
	case errors.Is(err, services.ErrDatasetReload):
		return apierrors.DatasetUnavailableError(err)
	case errors.Is(err, services.ErrTickerNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, "TICKER_NOT_FOUND",
			"One or more requested tickers are not in the dataset",
			map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidDate):
		return apierrors.ErrValidation("date", err.Error())
	case errors.Is(err, services.ErrUnknownAnalysisKind):
		return apierrors.ErrValidation("analysis", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return apierrors.InvalidRequestWithError(err)
	case errors.Is(err, services.ErrFileNotFound):
		return apierrors.NotFoundError("report")
	case errors.Is(err, services.ErrInvalidFileType):
		return apierrors.ErrValidation("format", err.Error())
	default:
		return err
	}
}

// parseDateRange extracts the optional start/end query parameters
func parseDateRange(r *http.Request) api.DateRangeRequest {
	return api.DateRangeRequest{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
}

// parseTickers extracts the comma-separated tickers query parameter.
// An absent or empty parameter means all sources.
func parseTickers(r *http.Request) []string {
	raw := r.URL.Query().Get("tickers")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
