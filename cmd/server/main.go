package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/feed"
	"github.com/p-n-ai/pai-learn/internal/platform/cache"
	"github.com/p-n-ai/pai-learn/internal/platform/config"
	"github.com/p-n-ai/pai-learn/internal/platform/database"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
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

// app holds the wired dependencies behind the HTTP surface.
type app struct {
	catalog *course.Catalog
	hub     *feed.Hub
	db      *database.DB
	cache   *cache.Cache
	// newStore builds a learner-scoped progress store on the configured
	// backend, wrapped so writes reach the live feed.
	newStore func(learnerID string) (progress.Store, error)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	catalog, err := course.NewCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}

	a := &app{
		catalog: catalog,
		hub:     feed.NewHub(),
	}
	cleanup := func() {
		if a.db != nil {
			a.db.Close()
		}
		if a.cache != nil {
			a.cache.Close()
		}
	}

	switch cfg.Progress.Backend {
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, err
		}
		a.cache = c
		a.newStore = func(learnerID string) (progress.Store, error) {
			s, err := progress.NewRedisStore(c.Client, learnerID)
			if err != nil {
				return nil, err
			}
			return feed.NewNotifyingStore(s, a.hub), nil
		}
	case "postgres":
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		a.db = db
		a.newStore = func(learnerID string) (progress.Store, error) {
			s, err := progress.NewPostgresStore(ctx, db.Pool, learnerID)
			if err != nil {
				return nil, err
			}
			return feed.NewNotifyingStore(s, a.hub), nil
		}
	default:
		mem := progress.NewMemoryStore()
		a.newStore = func(string) (progress.Store, error) {
			return feed.NewNotifyingStore(mem, a.hub), nil
		}
	}

	slog.Info("progress backend ready", "backend", cfg.Progress.Backend)
	return a, cleanup, nil
}

func (a *app) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	mux.Handle("GET /ws/progress", feed.Handler(a.hub))
	return mux
}

func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (a *app) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if a.db != nil {
		if err := a.db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"database unavailable"}`))
			return
		}
	}
	if a.cache != nil {
		if err := a.cache.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"cache unavailable"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
