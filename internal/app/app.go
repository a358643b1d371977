package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/inmemorycache"
	"github.com/specialistvlad/handlergrid/internal/manager"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	hooks    *hooks.ModuleHandler
	data     *datastore.Store
	cache    *inmemorycache.Backend
	managers *manager.Set
}

// NewApp is the constructor for the main application. It loads the
// manifests, installs the modules and builds one handler manager per
// category. Without modules the core modules are installed.
func NewApp(outW io.Writer, cfg *Config, loader datastore.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	store, err := loader.Load(ctx, cfg.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	logger.Debug("Manifests loaded.", "tables", len(store.TableNames()))

	reg := registry.New()
	h := hooks.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	registry.Install(reg, h, modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "modules", h.ModuleList())

	// Unregistered plugins still resolve, to the broken handler.
	for _, problem := range reg.Validate(ctx, store) {
		logger.Warn("Handler declaration refers to an unknown plugin.", "problem", problem)
	}

	var cacheOpts []inmemorycache.Option
	if cfg.CacheTTL > 0 {
		cacheOpts = append(cacheOpts, inmemorycache.WithTTL(cfg.CacheTTL))
	}
	backend := inmemorycache.New(cacheOpts...)

	set, err := manager.NewSet(manager.Options{
		Registry: reg,
		Data:     store,
		Cache:    backend,
		Hooks:    h,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create handler managers: %w", err)
	}
	logger.Debug("Handler managers created.", "categories", set.Categories())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		hooks:    h,
		data:     store,
		cache:    backend,
		managers: set,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Managers returns the per-category handler managers.
func (a *App) Managers() *manager.Set {
	return a.managers
}

// Data returns the loaded manifests.
func (a *App) Data() *datastore.Store {
	return a.data
}

// Modules returns the installed module names in installation order.
func (a *App) Modules() []string {
	return a.hooks.ModuleList()
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
