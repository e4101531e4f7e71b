package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SecureHeaders sets browser security headers on the dashboard page and any
// other HTML responses. Zero-valued fields fall back to the defaults below.
type SecureHeaders struct {
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	ContentSecurityPolicy string

	XFrameOptions       string
	XContentTypeOptions string
	XSSProtection       string
	ReferrerPolicy      string
	PermissionsPolicy   string

	// DevMode relaxes CSP so local asset tinkering does not get blocked.
	DevMode bool
}

// DefaultSecureHeaders returns secure headers with default settings
func DefaultSecureHeaders() *SecureHeaders {
	return &SecureHeaders{
		HSTSMaxAge:            63072000, // 2 years
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		XSSProtection:         "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// Handler returns the middleware handler
func (sh *SecureHeaders) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Websocket upgrades carry no HTML, skip them.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if sh.HSTSMaxAge > 0 && (r.TLS != nil || sh.DevMode) {
			w.Header().Set("Strict-Transport-Security", sh.hstsValue())
		}

		setHeader(w, "Content-Security-Policy", sh.ContentSecurityPolicy, sh.csp())
		setHeader(w, "X-Frame-Options", sh.XFrameOptions, "")
		setHeader(w, "X-Content-Type-Options", sh.XContentTypeOptions, "")
		setHeader(w, "X-XSS-Protection", sh.XSSProtection, "")
		setHeader(w, "Referrer-Policy", sh.ReferrerPolicy, "")
		setHeader(w, "Permissions-Policy", sh.PermissionsPolicy, sh.permissionsPolicy())

		next.ServeHTTP(w, r)
	})
}

// setHeader writes value when set, otherwise fallback when non-empty.
func setHeader(w http.ResponseWriter, name, value, fallback string) {
	switch {
	case value != "":
		w.Header().Set(name, value)
	case fallback != "":
		w.Header().Set(name, fallback)
	}
}

func (sh *SecureHeaders) hstsValue() string {
	hsts := fmt.Sprintf("max-age=%d", sh.HSTSMaxAge)
	if sh.HSTSIncludeSubdomains {
		hsts += "; includeSubDomains"
	}
	if sh.HSTSPreload {
		hsts += "; preload"
	}
	return hsts
}

// csp builds the Content-Security-Policy. The dashboard is fully
// self-hosted, so production only needs 'self' plus inline script/style and
// the websocket origin.
func (sh *SecureHeaders) csp() string {
	if sh.DevMode {
		return strings.Join([]string{
			"default-src 'self'",
			"script-src 'self' 'unsafe-inline' 'unsafe-eval' *",
			"style-src 'self' 'unsafe-inline' *",
			"img-src * data: blob:",
			"font-src *",
			"connect-src *",
		}, "; ")
	}

	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: blob:",
		"font-src 'self' data:",
		"connect-src 'self' ws: wss:",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"upgrade-insecure-requests",
	}, "; ")
}

func (sh *SecureHeaders) permissionsPolicy() string {
	if sh.DevMode {
		return ""
	}
	return strings.Join([]string{
		"accelerometer=()",
		"camera=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
		"interest-cohort=()",
	}, ", ")
}

// AuditLog records one entry when a request arrives and one when it
// completes, with the response status. Mounted on the API group so dataset
// reloads and exports leave a trail.
func AuditLog(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()

			ww := &auditResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			logger.InfoContext(ctx, "audit log",
				"event_type", "api_access",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.Query().Encode(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			next.ServeHTTP(ww, r)

			logger.InfoContext(ctx, "audit log complete",
				"event_type", "api_response",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// auditResponseWriter captures the response status code
type auditResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (w *auditResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *auditResponseWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
