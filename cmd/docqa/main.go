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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/config"
	logpkg "github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/metrics"
	"github.com/kailas-cloud/docqa/internal/repository/anscache"
	corpusrepo "github.com/kailas-cloud/docqa/internal/repository/corpus"
	chiTransport "github.com/kailas-cloud/docqa/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/docqa/internal/transport/openai"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	indexuc "github.com/kailas-cloud/docqa/internal/usecase/index"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
	"github.com/kailas-cloud/docqa/internal/version"
)

func main() {
	_ = godotenv.Load()

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

	logger.Info("Starting docqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("llm_model", cfg.LLM.Model),
	)

	// Register retrieval metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()

	weights := indexuc.Weights{
		Path:        cfg.Retrieval.Weights.Path,
		Name:        cfg.Retrieval.Weights.Name,
		Description: cfg.Retrieval.Weights.Description,
		Parameters:  cfg.Retrieval.Weights.Parameters,
		Tags:        cfg.Retrieval.Weights.Tags,
	}

	loader := corpusrepo.New(logger).WithStrict(cfg.Corpus.Strict)
	indexSvc := indexuc.NewService(loader, cfg.Corpus.Path, weights, logger)

	// Initial corpus: prefer the scraped documentation file, fall back to the
	// built-in seed so the service always answers something.
	ctx := context.Background()
	if cfg.Corpus.Path != "" {
		if _, err := indexSvc.Reload(ctx); err != nil {
			logger.Warn("Failed to load corpus file, serving seed corpus",
				zap.String("path", cfg.Corpus.Path),
				zap.Error(err),
			)
			indexSvc.SetCorpus(corpusrepo.Seed())
		}
	} else {
		logger.Info("No corpus path configured, serving seed corpus")
		indexSvc.SetCorpus(corpusrepo.Seed())
	}

	// Build the generator chain — composition root.
	// No API key means retrieval-only operation, which is a supported mode.
	var gen retrievaluc.Generator
	var genHealth healthuc.GenerationChecker
	if cfg.LLM.APIKey != "" {
		base := openaiGen.NewGenerator(&openaiGen.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: float32(cfg.LLM.Temperature),
			MaxTokens:   cfg.LLM.MaxTokens,
			Logger:      logger,
		})
		gen = base
		genHealth = base

		if len(cfg.Cache.Addrs) > 0 {
			store, err := anscache.NewRedisStore(cfg.Cache.Addrs, cfg.Cache.Password)
			if err != nil {
				logger.Fatal("Failed to create answer cache store", zap.Error(err))
			}
			defer store.Close()

			if err := store.Ping(ctx); err != nil {
				logger.Fatal("Answer cache not reachable", zap.Error(err))
			}

			ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
			gen = anscache.New(base, store, cfg.LLM.Model, ttl, logger)
			logger.Info("Answer cache enabled",
				zap.Strings("addrs", cfg.Cache.Addrs),
				zap.Duration("ttl", ttl),
			)
		}
	} else {
		logger.Info("No LLM API key configured, answers will be retrieval-only")
	}

	params := retrievaluc.Params{
		TopK:            cfg.Retrieval.TopK,
		MaxContextChars: cfg.Retrieval.MaxContextChars,
		Bonuses: retrievaluc.Bonuses{
			Path:     cfg.Retrieval.Bonuses.Path,
			Coverage: cfg.Retrieval.Bonuses.Coverage,
		},
	}
	retrievalSvc := retrievaluc.New(indexSvc, gen, params, logger)

	healthSvc := healthuc.New(indexSvc, genHealth)

	server := chiTransport.NewServer(retrievalSvc, indexSvc, healthSvc, logger)

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

			// Set X-Request-ID in response header
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
