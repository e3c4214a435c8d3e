// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/raidho/internal/api"
	"github.com/starford/raidho/internal/assets"
	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/mcpserver"
	"github.com/starford/raidho/internal/modelcache"
	"github.com/starford/raidho/internal/render"
	"github.com/starford/raidho/internal/sse"
	"github.com/starford/raidho/internal/viewer"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("assets_mode", cfg.Assets.Mode),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("projects", len(cfg.Projects)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the asset provider.
	var provider assets.Provider
	var local *assets.Local
	switch cfg.Assets.Mode {
	case AssetsModeRemote:
		provider = assets.NewRemote(cfg.Assets.BaseURL, nil)
	default:
		if err := os.MkdirAll(cfg.Assets.Dir, 0o755); err != nil {
			return fmt.Errorf("create assets dir: %w", err)
		}
		l, err := assets.NewLocal(cfg.Assets.Dir)
		if err != nil {
			return fmt.Errorf("init assets: %w", err)
		}
		local = l
		provider = l
	}

	// Initialize the SQLite schedule index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(250 * time.Millisecond)
	defer broker.Close()

	// Render engine: commands go to the browser over the SSE stream.
	engine := render.NewRemote(func(cmd render.Command) {
		broker.PublishRender(cmd)
	})

	cache := modelcache.New(provider.Model, logger)
	norm := cfg.Viewer.Normalizer()

	ctrl := viewer.NewController(engine, cache, broker, norm, cfg.Viewer.Options())
	defer ctrl.Close()

	loader := viewer.NewLoader(provider, cache, engine, ctrl, broker, db, norm, logger)
	projects := cfg.ProjectList()

	// Build API router.
	apiRouter := api.NewRouter(loader, ctrl, db, projects,
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// GLB passthrough at the root, matching the URLs inside render
	// commands. Payloads are public within the deployment; auth guards
	// the control surface, not the geometry.
	ah := api.NewAssetHandler(provider)
	r.Get("/assets/{project}/{file}", ah.ServeModel)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the local assets root so clients hear about new or changed
	// model sets without polling.
	if local != nil {
		g.Go(func() error {
			err := assets.Watch(gCtx, local.Root(), logger, func(base string) {
				broker.PublishManifestChanged(base)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("assets watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Kick off the default project so the first client sees a scene.
	g.Go(func() error {
		if err := loader.Start(projects[0], nil); err != nil {
			logger.Warn("initial project load not started",
				slog.String("project", projects[0].Code),
				slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout. It builds a headless
// stack: render commands still flow through a broker, but with no SSE
// clients attached they are simply dropped.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Logs go to stderr: stdout belongs to the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	var provider assets.Provider
	if cfg.Assets.Mode == AssetsModeRemote {
		provider = assets.NewRemote(cfg.Assets.BaseURL, nil)
	} else {
		l, err := assets.NewLocal(cfg.Assets.Dir)
		if err != nil {
			return fmt.Errorf("init assets: %w", err)
		}
		provider = l
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker(250 * time.Millisecond)
	defer broker.Close()

	engine := render.NewRemote(func(cmd render.Command) {
		broker.PublishRender(cmd)
	})
	cache := modelcache.New(provider.Model, logger)
	norm := cfg.Viewer.Normalizer()

	ctrl := viewer.NewController(engine, cache, broker, norm, cfg.Viewer.Options())
	defer ctrl.Close()

	loader := viewer.NewLoader(provider, cache, engine, ctrl, broker, db, norm, logger)

	return mcpserver.New(loader, ctrl, db, cfg.ProjectList()).ServeStdio()
}
