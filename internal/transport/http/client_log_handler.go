package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"stockdash/internal/errors"
)

// ClientLogHandler accepts log entries from the dashboard UI so browser
// errors land in the server log alongside request logs.
type ClientLogHandler struct {
	logger *slog.Logger
}

func NewClientLogHandler(logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		logger: logger.With(slog.String("handler", "client_log")),
	}
}

// ClientLogEntry is one browser-side log line.
type ClientLogEntry struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Page    string                 `json:"page,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Unknown levels are logged at info rather than rejected; the UI should
// never lose a log line to a typo.
var clientLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Handle records a client log entry and acknowledges it.
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var entry ClientLogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		errors.WriteError(w, errors.NewValidationError("Invalid request format"))
		return
	}

	level, ok := clientLogLevels[entry.Level]
	if !ok {
		level = slog.LevelInfo
	}

	attrs := []slog.Attr{
		slog.String("client_page", entry.Page),
	}
	if entry.Data != nil {
		attrs = append(attrs, slog.Any("data", entry.Data))
	}

	h.logger.LogAttrs(r.Context(), level, entry.Message, attrs...)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}
