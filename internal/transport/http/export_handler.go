package http

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apierrors "stockdash/internal/errors"
	custommw "stockdash/internal/middleware"
	api "stockdash/pkg/contracts/api/v1"
)

// ExportHandler handles report download requests
type ExportHandler struct {
	service      ExportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *custommw.ValidationMiddleware
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ExportServiceInterface, logger *slog.Logger) *ExportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "export")),
		errorHandler: errorHandler,
		validate:     custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the routes for export endpoints
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats.csv", h.exportStats("csv"))
	r.Get("/stats.xlsx", h.exportStats("xlsx"))

	return r
}

// exportStats generates the statistics report in the given format and
// streams it as a download.
func (h *ExportHandler) exportStats(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())

		req := api.ExportRequest{
			DateRangeRequest: parseDateRange(r),
			Tickers:          parseTickers(r),
			Format:           format,
		}
		if err := h.validate.ValidateStruct(req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		filename, err := h.service.ExportStats(r.Context(), req)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "stats export failed",
				slog.String("request_id", reqID),
				slog.String("format", format),
				slog.String("error", err.Error()))
			h.errorHandler.HandleError(w, r, translateServiceError(err))
			return
		}

		// ExportStats returns the full path; ServeReport wants a name
		// relative to the reports directory.
		filename = filepath.Base(filename)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if err := h.service.ServeReport(r.Context(), ww, r, filename); err != nil {
			// Once bytes have been streamed the status line is gone; all we
			// can do is log.
			if ww.BytesWritten() > 0 {
				h.logger.ErrorContext(r.Context(), "report download interrupted",
					slog.String("filename", filename),
					slog.String("error", err.Error()))
				return
			}
			h.errorHandler.HandleError(w, r, translateServiceError(err))
			return
		}

		h.logger.InfoContext(r.Context(), "report downloaded",
			slog.String("request_id", reqID),
			slog.String("filename", filename),
			slog.String("format", format))
	}
}
