// Package http implements the HTTP handlers for the stock dashboard service.
// It is a thin layer between transport and the service packages: handlers
// parse requests, call a service, and translate errors into responses.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Dataset Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handler Structure
//
// Each handler owns a service interface, a logger and an error handler, and
// exposes its routes as a chi.Router:
//
//	func (h *Handler) Routes() chi.Router {
//	    r := chi.NewRouter()
//	    r.Use(render.SetContentType(render.ContentTypeJSON))
//	    r.Get("/", h.GetSomething)
//	    return r
//	}
//
// Successful responses use a uniform envelope:
//
//	{"status": "success", "data": {...}}
//
// # Error Handling
//
// Service sentinel errors are mapped to API errors with explicit status
// codes; everything else is classified by the shared error handler and
// rendered as RFC 7807 Problem Details:
//
//	{
//	    "type": "/problems/service-unavailable",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "dataset not loaded"
//	}
//
// # Testing
//
// Handlers are tested with httptest against mock service interfaces.
package http
