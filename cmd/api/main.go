package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"doc-summarizer/internal/config"
	hhttp "doc-summarizer/internal/handler/http"
	"doc-summarizer/internal/infra/summarizer"
	"doc-summarizer/internal/observability/logging"
	"doc-summarizer/internal/observability/tracing"
	"doc-summarizer/internal/usecase/summarize"

	_ "doc-summarizer/docs" // swagger docs
)

// @title           Document Summarizer API
// @version         1.0
// @description     Summarizes documents of any length with an external abstractive summarizer.
// @description     Long documents are split into word chunks, each chunk is summarized, and the joined summaries are condensed again when still too long.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Observability)
	version := getVersion()

	shutdownTracing := initTracing(logger, cfg.Observability)

	// The summarizer client is built on the first request so that startup
	// does not depend on the backend being reachable.
	lazy := summarizer.NewLazy(func() (*summarizer.Client, error) {
		return summarizer.New(cfg.Provider)
	})

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Summaries:  summarize.NewService(lazy, cfg.Reduction),
		Summarizer: lazy,
		Server:     cfg.Server,
		Version:    version,
		Logger:     logger,
	})

	runErr := runServer(logger, cfg.Server, handler, version)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}

	if runErr != nil {
		logger.Error("server failed", slog.Any("error", runErr))
		os.Exit(1)
	}
}

// initLogger builds the JSON logger and installs it as the default.
func initLogger(cfg config.ObservabilityConfig) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.LogLevel, true)
	slog.SetDefault(logger)
	return logger
}

// initTracing installs the tracer provider when enabled and returns its shutdown function.
func initTracing(logger *slog.Logger, cfg config.ObservabilityConfig) func(context.Context) error {
	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }
	}
	logger.Info("tracing enabled")
	return tracing.Setup()
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
// In-flight summarizations see their context cancelled only after the
// shutdown timeout expires.
func runServer(logger *slog.Logger, cfg config.ServerConfig, handler http.Handler, version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		// Writes must outlive the request timeout so that the 504 body reaches the client.
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return baseCtx
		},
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version),
			slog.Duration("request_timeout", cfg.RequestTimeout),
			slog.Int64("max_upload_bytes", cfg.MaxUploadBytes))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Abort summarizations still running after the grace period.
		cancelBase()
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return eg.Wait()
}
