// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/edgelog/internal/api"
	"github.com/starford/edgelog/internal/archive"
	"github.com/starford/edgelog/internal/chart"
	"github.com/starford/edgelog/internal/mcpserver"
	"github.com/starford/edgelog/internal/sse"
	"github.com/starford/edgelog/internal/storage"
	"github.com/starford/edgelog/internal/transcribe"
)

// Run starts the HTTP server with the given options.
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
	logger := newLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path),
		slog.Bool("transcription", cfg.Transcription.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc, err := newArchive(store, cfg, logger, archive.WithPublisher(broker))
	if err != nil {
		return err
	}

	debouncer := chart.NewDebouncer(cfg.Chart.Debounce, cfg.Chart.MinTitle, cfg.Chart.DefaultSymbol, broker.PublishSymbol)
	defer debouncer.Stop()

	transcriber, err := app.newTranscriber(ctx, logger)
	if err != nil {
		return err
	}

	apiRouter := api.NewRouter(svc, api.RouterOptions{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
		Transcriber: transcriber,
		Chart:       debouncer,
	})

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

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload collections edited on disk by another process.
	if fs, ok := store.Backend().(*storage.FS); ok && cfg.Storage.Watch {
		g.Go(func() error {
			err := storage.Watch(gCtx, fs, logger, func(c storage.Collection) {
				if err := svc.Reload(c); err != nil {
					logger.Warn("reload failed", slog.String("collection", string(c)), slog.String("error", err.Error()))
				}
			})
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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
		defer signal.Stop(quit)

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

// RunMCP serves the archive over MCP on stdin/stdout. Logs go to stderr so
// they never interleave with the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger := newLogger(os.Stderr, app.config.App.LogLevel)
	slog.SetDefault(logger)

	store, err := app.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := newArchive(store, app.config, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting", slog.String("storage_driver", app.config.Storage.Driver))
	return mcpserver.New(svc).ServeStdio()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore returns the injected store or opens the configured backend,
// creating the data directory for the fs driver.
func (a *application) openStore() (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	sc := a.config.Storage
	if sc.Driver == StorageFS {
		if err := os.MkdirAll(sc.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := storage.Open(sc.Driver, sc.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return store, nil
}

func (a *application) newTranscriber(ctx context.Context, logger *slog.Logger) (transcribe.Transcriber, error) {
	if a.transcriber != nil {
		return a.transcriber, nil
	}
	tc := a.config.Transcription
	if !tc.Enabled() {
		logger.Warn("transcription disabled: no API key configured")
		return nil, nil
	}
	g, err := transcribe.NewGemini(ctx, tc.APIKey, tc.Model)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}
	return g, nil
}

func newArchive(store *storage.Store, cfg *Config, logger *slog.Logger, extra ...archive.Option) (*archive.Service, error) {
	opts := append([]archive.Option{
		archive.WithLogger(logger),
		archive.WithRetention(cfg.Archive.Retention),
		archive.WithSeedFolders(cfg.Archive.SeedFolders),
	}, extra...)
	svc, err := archive.New(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("init archive: %w", err)
	}
	return svc, nil
}
