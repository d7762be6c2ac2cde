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

	"github.com/reelfind/reelfind/internal/config"
	"github.com/reelfind/reelfind/internal/db"
	dbRedis "github.com/reelfind/reelfind/internal/db/redis"
	"github.com/reelfind/reelfind/internal/domain"
	logpkg "github.com/reelfind/reelfind/internal/logger"
	"github.com/reelfind/reelfind/internal/metrics"
	catalogrepo "github.com/reelfind/reelfind/internal/repository/catalog"
	"github.com/reelfind/reelfind/internal/repository/embcache"
	chiTransport "github.com/reelfind/reelfind/internal/transport/chi"
	openaiTransport "github.com/reelfind/reelfind/internal/transport/openai"
	extractuc "github.com/reelfind/reelfind/internal/usecase/extract"
	healthuc "github.com/reelfind/reelfind/internal/usecase/health"
	ingestuc "github.com/reelfind/reelfind/internal/usecase/ingest"
	searchuc "github.com/reelfind/reelfind/internal/usecase/search"
	"github.com/reelfind/reelfind/internal/version"
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

	logger.Info("Starting reelfind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("csv_path", cfg.Catalog.CSVPath),
	)

	ctx := context.Background()

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Optional query-embedding cache
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Take the first vectorizer config
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	provCfg := cfg.Embedding.Providers[provName]

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})
	docEmbedder := buildDocumentEmbedder(base, vecCfg.DocumentInstruction)
	queryEmbedder := buildQueryEmbedder(base, vecCfg.QueryInstruction, store, cfg.Cache.TTLHours, logger)
	logger.Info("Embedders created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
	)

	// Optional entity extractor sharing the provider credentials
	var entityExtractor extractuc.EntityExtractor
	if cfg.Extraction.Provider != "" {
		extProvCfg := cfg.Embedding.Providers[cfg.Extraction.Provider]
		entityExtractor = openaiTransport.NewExtractor(&openaiTransport.ExtractorConfig{
			APIKey:   extProvCfg.APIKey,
			BaseURL:  extProvCfg.BaseURL,
			Model:    cfg.Extraction.Model,
			Provider: cfg.Extraction.Provider,
			Logger:   logger,
		})
		logger.Info("Entity extractor created",
			zap.String("provider", cfg.Extraction.Provider),
			zap.String("model", cfg.Extraction.Model),
		)
	}

	// Load and embed the catalog before serving the first query
	raws, err := catalogrepo.NewLoader(cfg.Catalog.CSVPath).Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("rows", len(raws)))

	ingestSvc := ingestuc.New(docEmbedder, logger).WithBatchSize(cfg.Catalog.EmbedBatchSize)
	catalogStore, err := ingestSvc.Build(ctx, raws)
	if err != nil {
		logger.Fatal("Failed to build catalog store", zap.Error(err))
	}

	// Create use case services
	extractSvc := extractuc.New(entityExtractor, logger)
	searchSvc := searchuc.New(catalogStore, queryEmbedder, extractSvc, logger).
		WithLimits(cfg.Search.ScanLimit, cfg.Search.ResultCap)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(base, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, catalogStore, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// buildDocumentEmbedder assembles the batch chain: OpenAI -> Instruction.
// Catalog embedding runs once at startup, so it never goes through the cache.
func buildDocumentEmbedder(base *openaiTransport.Embedder, instruction string) ingestuc.Embedder {
	if instruction != "" {
		return domain.NewInstructionEmbedder(base, instruction)
	}
	return base
}

// buildQueryEmbedder assembles the per-query chain: OpenAI -> Cached -> Instruction.
// The instruction decorator sits outermost so the cache key includes it.
func buildQueryEmbedder(
	base *openaiTransport.Embedder,
	instruction string,
	store db.Store,
	ttlHours int,
	logger *zap.Logger,
) domain.Embedder {
	var embedder domain.Embedder = base
	if store != nil {
		ttl := time.Duration(ttlHours) * time.Hour
		embedder = embcache.New(base, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
