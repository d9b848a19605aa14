// Package shield provides the HTTP middleware stack for the tabctl server:
// security headers, JSON body limits, request tracing, per-IP rate limiting,
// and HEAD method handling.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.DefaultStack() {
//	    r.Use(mw)
//	}
//	r.Use(shield.NewRateLimiter(120, time.Minute).Middleware)
package shield

import "net/http"

type contextKey string

const (
	// LoggerKey is the context key for the per-request structured logger.
	LoggerKey contextKey = "shield_logger"

	// TraceIDKey is the context key for the per-request trace ID.
	TraceIDKey contextKey = "shield_trace_id"
)

// DefaultStack returns the standard middleware stack for the tabctl server.
// Rate limiting is not included; add a RateLimiter explicitly where the
// deployment is publicly exposed.
func DefaultStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxJSONBody(1 << 20),
		TraceID,
	}
}
