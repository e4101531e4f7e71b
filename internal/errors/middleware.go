package errors

import (
	"net/http"
)

// RecoveryMiddleware converts handler panics into RFC 7807 500 responses and
// logs error statuses. Mounted inside the API route group so API clients
// always receive a problem document, even when a handler panics.
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return handler.Middleware
}
