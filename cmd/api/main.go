package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shyim/pagespeed-api/internal/analysis"
	"github.com/shyim/pagespeed-api/internal/cleanup"
	"github.com/shyim/pagespeed-api/internal/config"
	"github.com/shyim/pagespeed-api/internal/handler"
	"github.com/shyim/pagespeed-api/internal/history"
	"github.com/shyim/pagespeed-api/internal/pagespeed"
	"github.com/shyim/pagespeed-api/internal/storage"
	"github.com/shyim/pagespeed-api/internal/telemetry"
)

var version = "dev"

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fatal("Invalid configuration", err)
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, "pagespeed-api")
	if err != nil {
		fatal("Failed to initialize tracing", err)
	}
	shutdownSentry, err := telemetry.InitSentry(cfg.SentryDSN, cfg.Environment, version)
	if err != nil {
		fatal("Failed to initialize Sentry", err)
	}

	var archive handler.Archive
	if cfg.ArchiveEnabled {
		storageService, err := storage.NewService(ctx, storage.Options{
			ServiceURL: cfg.S3ServiceURL,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			BucketName: cfg.S3BucketName,
		})
		if err != nil {
			fatal("Failed to initialize storage service", err)
		}
		if err := storageService.EnsureBucket(ctx); err != nil {
			slog.Warn("Failed to ensure archive bucket", "bucket", cfg.S3BucketName, "error", err)
		}
		archive = storageService

		// Start background cleanup
		cleanup.Start(ctx, cfg.CacheDir, cfg.CleanupInterval, cfg.CacheMaxAge)
	}

	client := pagespeed.NewClient(pagespeed.Options{
		Endpoint:   cfg.PageSpeedEndpoint,
		APIKey:     cfg.PageSpeedAPIKey,
		Timeout:    cfg.PageSpeedTimeout,
		MaxRetries: cfg.PageSpeedMaxRetries,
	})
	if cfg.PageSpeedAPIKey == "" {
		slog.Warn("PAGESPEED_API_KEY is not set, requests are subject to anonymous quota")
	}

	h := handler.NewHandler(analysis.NewAnalyzer(client), history.New(cfg.HistoryLimit), archive, cfg.CacheDir)

	mux := http.NewServeMux()
	h.Routes(mux)

	// Logger -> Recoverer -> Sentry -> Tracing -> Mux
	var finalHandler http.Handler = otelhttp.NewHandler(mux, "pagespeed-api")
	finalHandler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(finalHandler)
	finalHandler = recoverMiddleware(finalHandler)
	finalHandler = loggingMiddleware(finalHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           finalHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "version", version, "archive", cfg.ArchiveEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Tracer shutdown failed", "error", err)
	}
	shutdownSentry(shutdownCtx)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
