// Package http provides the HTTP surface of the summarizer: request handlers
// for health checks and metrics, the middleware chain, and the router that
// mounts the summary endpoints.
package http

import (
	"net/http"
	"time"

	"doc-summarizer/internal/handler/http/respond"
	"doc-summarizer/internal/infra/summarizer"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// StatusReporter reports summarizer readiness without triggering initialization.
type StatusReporter interface {
	Status() summarizer.Status
}

// HealthHandler reports overall health including the summarizer check.
// An open circuit makes the service "degraded", not unhealthy: the process is
// alive and recovers on its own once the circuit half-opens.
type HealthHandler struct {
	Summarizer StatusReporter
	Version    string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	check := summarizerCheck(h.Summarizer)

	response := HealthResponse{
		Status:    check.Status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{"summarizer": check},
		Version:   h.Version,
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, response)
}

// ReadyHandler reports whether the service can accept summarization requests.
// It returns 503 while the summarizer circuit is open.
type ReadyHandler struct {
	Summarizer StatusReporter
	Version    string
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	check := summarizerCheck(h.Summarizer)

	code := http.StatusOK
	status := "ready"
	if check.Status != "healthy" {
		code = http.StatusServiceUnavailable
		status = "not_ready"
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{"summarizer": check},
		Version:   h.Version,
	})
}

// LiveHandler reports that the process is running. It performs no checks.
type LiveHandler struct {
	Version string
}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
	})
}

func summarizerCheck(reporter StatusReporter) CheckStatus {
	if reporter == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}

	s := reporter.Status()
	details := map[string]any{"loaded": s.Loaded}
	if s.Provider != "" {
		details["provider"] = s.Provider
	}
	if s.Circuit != "" {
		details["circuit"] = s.Circuit
	}

	if !s.Available {
		return CheckStatus{Status: "degraded", Message: "circuit breaker open", Details: details}
	}
	if !s.Loaded {
		return CheckStatus{Status: "healthy", Message: "loads on first request", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}
