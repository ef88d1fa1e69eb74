package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizforge/quizforge/internal/ai"
	"github.com/quizforge/quizforge/internal/analytics"
	"github.com/quizforge/quizforge/internal/generation"
	"github.com/quizforge/quizforge/internal/platform/cache"
	"github.com/quizforge/quizforge/internal/platform/config"
	"github.com/quizforge/quizforge/internal/platform/database"
	"github.com/quizforge/quizforge/internal/school"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to wire application", "error", err)
		os.Exit(1)
	}
	defer app.close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.mux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// app holds the wired dependency graph.
type app struct {
	store    school.Store
	service  *school.Service
	reporter *analytics.Reporter
	pool     *pgxpool.Pool
	cache    *cache.Cache
}

// newApp connects the backing services and builds the generation pipeline.
// The database is required; the cache is optional and quietly skipped when no
// URL is configured.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{}

	pool, err := database.Connect(ctx, cfg.Database.URL, database.Options{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}
	a.pool = pool

	if err := school.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	store, err := school.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	a.store = store

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			logger.Warn("cache unavailable, content caching disabled", "error", err)
		} else {
			a.cache = c
		}
	}

	router := ai.NewRouter(ai.NewMemoryUsage())
	if cfg.AI.OpenAI.APIKey != "" {
		router.Register("openai", ai.NewOpenAIProvider(cfg.AI.OpenAI.APIKey))
	}
	if cfg.AI.Google.APIKey != "" {
		router.Register("google", ai.NewGoogleProvider(cfg.AI.Google.APIKey))
	}
	if cfg.AI.Ollama.Enabled {
		router.Register("ollama", ai.NewOllamaProvider(cfg.AI.Ollama.URL))
	}

	prompts := generation.DefaultPrompts()
	if cfg.Generation.PromptsPath != "" {
		prompts, err = generation.LoadPrompts(cfg.Generation.PromptsPath)
		if err != nil {
			return nil, fmt.Errorf("loading prompts: %w", err)
		}
	}

	quizOpts := []generation.QuizOption{
		generation.WithMaxAttempts(cfg.Generation.MaxAttempts),
		generation.WithTransportRetry(generation.BackoffTransport()),
	}
	if cfg.Generation.Strict {
		quizOpts = append(quizOpts, generation.WithStrictOptions())
	}

	content := generation.NewContentGenerator(router, prompts)
	quizzes := generation.NewQuizGenerator(router, prompts, quizOpts...)

	svcOpts := []school.ServiceOption{school.WithLogger(logger)}
	if a.cache != nil {
		svcOpts = append(svcOpts, school.WithContentCache(a.cache))
	}
	a.service = school.NewService(a.store, content, quizzes, svcOpts...)
	a.reporter = analytics.NewReporter(a.store)

	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// mux creates the HTTP router with health check endpoints.
func (a *app) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (a *app) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	if a.pool != nil {
		if err := a.pool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable","reason":"database"}`))
			return
		}
	}
	if a.cache != nil {
		if err := a.cache.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable","reason":"cache"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
