// Package respond writes JSON responses and turns errors into client-safe bodies.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"doc-summarizer/internal/observability/logging"
)

// CodeInternal is reported for every error that is not an *AppError.
const CodeInternal = "internal_error"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	// Code is a stable machine-readable identifier.
	Code string `json:"code,omitempty"`
}

// Internal is the body sent for unexpected failures.
var Internal = ErrorBody{Error: "internal server error", Code: CodeInternal}

// JSON writes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", slog.Int("status", code), slog.Any("error", err))
	}
}

// AppError pairs an internal error with the status and message a client may see.
type AppError struct {
	Status  int
	Code    string
	UserMsg string
	// Err is logged, never sent.
	Err error
}

func NewAppError(status int, code, userMsg string, err error) *AppError {
	return &AppError{Status: status, Code: code, UserMsg: userMsg, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.UserMsg
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Fail writes err as an error response and logs it with the request's logger.
// An *AppError in the chain decides the status and message; anything else is
// a 500 whose details stay in the log. Logged messages have credentials masked.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		logger.ErrorContext(ctx, "internal server error", slog.String("error", SanitizeError(err)))
		JSON(w, http.StatusInternalServerError, Internal)
		return
	}

	if appErr.Err != nil {
		level := slog.LevelWarn
		if appErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "request failed",
			slog.Int("status", appErr.Status),
			slog.String("error_code", appErr.Code),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Status, ErrorBody{Error: appErr.UserMsg, Code: appErr.Code})
}
