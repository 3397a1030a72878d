package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dirmaker/internal/config"
	dbRedis "github.com/kailas-cloud/dirmaker/internal/db/redis"
	"github.com/kailas-cloud/dirmaker/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/dirmaker/internal/logger"
	"github.com/kailas-cloud/dirmaker/internal/metrics"
	catalogrepo "github.com/kailas-cloud/dirmaker/internal/repository/catalog"
	chiTransport "github.com/kailas-cloud/dirmaker/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/dirmaker/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/dirmaker/internal/usecase/health"
	viewuc "github.com/kailas-cloud/dirmaker/internal/usecase/view"
	"github.com/kailas-cloud/dirmaker/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dirmaker API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Strings("taxonomies", cfg.Catalog.Taxonomies),
	)

	ctx := context.Background()

	// Catalog source: data file, or a key in Valkey/Redis
	var (
		source cataloguc.Source
		pinger healthuc.DBPinger
	)
	if cfg.Catalog.UsesStore() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("db_addrs", cfg.Database.Addrs))

		source = catalogrepo.NewStoreSource(store, cfg.Catalog.Key, cfg.Catalog.Taxonomies)
		pinger = store
	} else {
		source = catalogrepo.NewFileSource(cfg.Catalog.Path, cfg.Catalog.Taxonomies)
	}

	// Register filter metrics explicitly (no init())
	metrics.RegisterFilterMetrics()

	catalogSvc := cataloguc.New(source, cfg.Catalog.Taxonomies, logger).
		WithPagination(cfg.Catalog.PerPage).
		WithFilter(cfg.Filter.MinQueryLength, cfg.Filter.Debounce(), mode.Compose(cfg.Filter.Compose)).
		WithRecorder(metrics.FilterRecorder{})
	if err := catalogSvc.Load(ctx); err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	if cat, err := catalogSvc.Catalog(); err == nil {
		metrics.CatalogItems.Set(float64(cat.Len()))
	}

	viewSvc := viewuc.New(catalogSvc, logger).
		WithLimits(time.Duration(cfg.Views.TTLSec)*time.Second, cfg.Views.Max).
		WithGauge(metrics.ActiveViews)

	healthSvc := healthuc.New(catalogSvc, pinger)

	server := chiTransport.NewServer(catalogSvc, viewSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Idle views are swept lazily on create; this keeps memory bounded between creates.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepViews(sweepCtx, viewSvc, time.Duration(cfg.Views.TTLSec)*time.Second)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// sweepViews drops expired views every ttl until ctx is done.
func sweepViews(ctx context.Context, views *viewuc.Service, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			views.Sweep()
		}
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
