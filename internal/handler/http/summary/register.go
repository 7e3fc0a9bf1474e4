// Package summary serves the summarization endpoints.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/domain/entity"
	"doc-summarizer/internal/observability/logging"
	"doc-summarizer/internal/usecase/summarize"
)

// Service is the reduction use case as seen by the handlers.
type Service interface {
	Summarize(ctx context.Context, document string, opts ...summarize.Option) (*entity.Result, error)
	Config() config.ReductionConfig
}

// Register registers the summary handlers with the given mux.
func Register(mux *http.ServeMux, svc Service, server config.ServerConfig) {
	mux.Handle("POST /summaries", CreateHandler{Svc: svc})
	mux.Handle("POST /summaries/upload", UploadHandler{
		Svc:               svc,
		AllowedExtensions: server.AllowedExtensions,
		MaxBytes:          server.MaxUploadBytes,
	})
}

// summarizeOptions applies cfg and logs chunk progress at debug level.
func summarizeOptions(r *http.Request, cfg config.ReductionConfig) []summarize.Option {
	logger := logging.FromContext(r.Context())
	return []summarize.Option{
		summarize.WithReduction(cfg),
		summarize.WithProgress(func(fraction float64) {
			logger.Debug("summarization progress", slog.Int("percent", int(fraction*100)))
		}),
	}
}
