// Package app assembles a declared container tree into a running HTTP
// server: resolve, register storage, bind, serve. The stages run strictly
// in that order and any failure aborts startup with no partial route table.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wappdev/wapp/adapters/httpbind"
	"github.com/wappdev/wapp/adapters/metrics"
	"github.com/wappdev/wapp/config"
	"github.com/wappdev/wapp/core/container"
	"github.com/wappdev/wapp/core/crud"
	"github.com/wappdev/wapp/core/openapi"
	"github.com/wappdev/wapp/core/resolve"
	"github.com/wappdev/wapp/core/storage"
)

// App is a fully assembled application: resolved route table, storage,
// and bound router.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  storage.Store
	set    *resolve.Set
	router chi.Router
}

// Options configures application assembly.
type Options struct {
	// Config is required.
	Config *config.Config

	// Root is the root of the container tree.
	Root *container.Container

	// Logger for all components.
	Logger zerolog.Logger

	// Store overrides the default SQLite store (used in tests).
	Store storage.Store
}

// New assembles an application. On return the route table has passed
// collision detection, every model's table exists, and the router is
// ready to serve.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if opts.Root == nil {
		return nil, fmt.Errorf("app: root container is required")
	}

	logger := opts.Logger.With().Str("component", "app").Logger()

	store := opts.Store
	if store == nil {
		var err error
		store, err = storage.OpenSQLite(opts.Config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("app: open store: %w", err)
		}
	}

	set, err := resolve.Resolve(opts.Root, crud.Binder(store, opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	for _, ref := range set.Models {
		if err := store.Register(context.Background(), ref.Model); err != nil {
			return nil, fmt.Errorf("app: register model %q: %w", ref.LocalName, err)
		}
	}

	bindOpts := httpbind.Options{Logger: opts.Logger}

	var metricsHandler http.Handler
	if opts.Config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		bindOpts.Metrics = metrics.NewWith(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	router, err := httpbind.Bind(set, bindOpts)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	if opts.Config.Docs.Enabled {
		gen := openapi.NewGenerator(set)
		gen.SetInfo(openapi.Info{
			Title:   opts.Config.Docs.Title,
			Version: opts.Config.Docs.Version,
		})
		httpbind.MountDocs(router, gen.Generate())
	}
	if metricsHandler != nil {
		httpbind.MountMetrics(router, metricsHandler, opts.Config.Metrics.Path)
	}

	logger.Info().
		Int("endpoints", len(set.Endpoints)).
		Int("models", len(set.Models)).
		Msg("route table resolved and bound")

	return &App{
		cfg:    opts.Config,
		logger: logger,
		store:  store,
		set:    set,
		router: router,
	}, nil
}

// Metadata resolves a tree without binding: the resulting set exposes
// endpoint and model metadata for documentation and migration tooling.
// Collision detection still runs (it is pure validation); no binder-facing
// side effect is triggered.
func Metadata(root *container.Container) (*resolve.Set, error) {
	return resolve.Resolve(root, nil)
}

// Set returns the resolved route table.
func (a *App) Set() *resolve.Set { return a.set }

// Router returns the bound router.
func (a *App) Router() chi.Router { return a.router }

// Store returns the record store.
func (a *App) Store() storage.Store { return a.store }

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and closes the store.
func (a *App) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if closeErr := a.store.Close(); err == nil {
			err = closeErr
		}
		a.logger.Info().Msg("server stopped")
		return err
	case err := <-errCh:
		a.store.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
