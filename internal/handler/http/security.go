package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"doc-summarizer/internal/handler/http/requestid"
	"doc-summarizer/pkg/security/csp"
)

const corsMaxAge = 86400

var (
	corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsAllowedHeaders = []string{"Content-Type", requestid.RequestIDHeader}
)

// CORS returns middleware that lets browser front-ends on the listed origins
// call the API. "*" allows any origin. Requests from other origins pass through
// without CORS headers, so the browser blocks the response.
func CORS(allowedOrigins []string, logger *slog.Logger) Middleware {
	allowAny := slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !allowAny && !slices.Contains(allowedOrigins, origin) {
				logger.Debug("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", strings.Join([]string{requestid.RequestIDHeader, "X-Trace-Id"}, ", "))

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(corsAllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(corsAllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders returns middleware that sets a Content-Security-Policy on every
// response: a strict policy for the JSON API and a relaxed one for Swagger UI.
func SecurityHeaders() Middleware {
	strict, swagger := csp.Strict(), csp.SwaggerUI()
	strictValue, swaggerValue := strict.String(), swagger.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				h.Set(swagger.Header(), swaggerValue)
			} else {
				h.Set(strict.Header(), strictValue)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
