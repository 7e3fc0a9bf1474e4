package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/handler/http/requestid"
	"doc-summarizer/internal/handler/http/summary"
	"doc-summarizer/internal/observability/tracing"
)

// multipartOverhead is the allowance for multipart framing on top of the upload limit.
const multipartOverhead = 64 << 10

// RouterConfig holds the dependencies of the HTTP surface.
type RouterConfig struct {
	Summaries  summary.Service
	Summarizer StatusReporter
	Server     config.ServerConfig
	Version    string
	Logger     *slog.Logger
}

// NewRouter mounts every endpoint and wraps the mux in the middleware chain.
//
// Middleware order, outermost first:
//
//	CORS → request ID → recover → logging → security headers → tracing →
//	body limit → input validation → timeout → metrics
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	summary.Register(mux, cfg.Summaries, cfg.Server)

	mux.Handle("GET /health", &HealthHandler{Summarizer: cfg.Summarizer, Version: cfg.Version})
	mux.Handle("GET /ready", &ReadyHandler{Summarizer: cfg.Summarizer, Version: cfg.Version})
	mux.Handle("GET /live", &LiveHandler{Version: cfg.Version})
	mux.Handle("GET /metrics", MetricsHandler())

	// Swagger UI serves whatever spec the docs package registered.
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return Chain(mux,
		CORS(cfg.Server.CORSAllowedOrigins, logger),
		requestid.Middleware,
		Recover(logger),
		Logging(logger),
		SecurityHeaders(),
		tracing.Middleware,
		LimitRequestBody(cfg.Server.MaxUploadBytes+multipartOverhead),
		InputValidation(),
		Timeout(cfg.Server.RequestTimeout),
		MetricsMiddleware,
	)
}
