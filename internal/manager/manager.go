// Package manager resolves lookup items to handler instances for a single
// handler category.
package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/handlergrid/internal/cache"
	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/discovery"
	"github.com/specialistvlad/handlergrid/internal/enrich"
	"github.com/specialistvlad/handlergrid/internal/factory"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// Options are the collaborators shared by the managers of every category.
type Options struct {
	Registry *registry.Registry
	Data     datastore.Provider
	Cache    cache.Backend
	// Hooks is optional; without it no alter hooks run.
	Hooks *hooks.ModuleHandler
}

func (o Options) validate() error {
	var errs []error
	if o.Registry == nil {
		errs = append(errs, errors.New("registry is required"))
	}
	if o.Data == nil {
		errs = append(errs, errors.New("data store is required"))
	}
	if o.Cache == nil {
		errs = append(errs, errors.New("cache backend is required"))
	}
	return errors.Join(errs...)
}

// Manager resolves handlers of one category.
type Manager struct {
	category    definition.Category
	data        datastore.Provider
	definitions *discovery.Cache
	factory     *factory.Factory
}

// New creates the manager of a category. An unknown category or a missing
// collaborator is an error.
func New(c definition.Category, opts Options) (*Manager, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown handler category %q", string(c))
	}
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid manager options for %s: %w", c, err)
	}
	h := opts.Hooks
	if h == nil {
		h = hooks.New()
	}

	defs := discovery.New(c, opts.Registry, opts.Cache, h)
	return &Manager{
		category:    c,
		data:        opts.Data,
		definitions: defs,
		factory:     factory.New(c, opts.Registry, defs, h, opts.Data),
	}, nil
}

// Category returns the category the manager resolves.
func (m *Manager) Category() definition.Category { return m.category }

// Lookup returns the enriched definition declared for item under the
// manager's category.
func (m *Manager) Lookup(item definition.LookupItem) (definition.Definition, bool) {
	table, field, ok := datastore.Lookup(m.data, item, m.category)
	if !ok {
		return definition.Definition{}, false
	}
	raw, _ := field.Handler(m.category)
	return enrich.Definition(raw, field.Attributes, table.Attributes), true
}

// GetHandler resolves item to a handler instance. It tries, in order, the
// override plugin, the plugin requested by the item, and the plugin named by
// the field's own definition, returning the first instance that is not
// broken. The field's own plugin is returned even when broken. Only when the
// field has no definition for this category at all is the broken plugin
// built, carrying item as its original configuration. It never fails.
func (m *Manager) GetHandler(ctx context.Context, item definition.LookupItem, override string) handler.Handler {
	ctx, logger := ctxlog.With(ctx, "category", m.category, "item", item.String())

	def, ok := m.Lookup(item)
	if !ok {
		logger.Debug("No handler definition found, using the broken handler.")
		return m.CreateInstance(ctx, definition.BrokenPluginID, definition.OriginalConfiguration(item))
	}

	if override != "" {
		h := m.CreateInstance(ctx, override, def)
		if !h.Broken() {
			logger.Debug("Resolved handler from override.", "plugin", override)
			return h
		}
	}

	if item.PluginID != "" {
		h := m.CreateInstance(ctx, item.PluginID, def)
		if !h.Broken() {
			logger.Debug("Resolved handler from requested plugin.", "plugin", item.PluginID)
			return h
		}
	}

	logger.Debug("Resolved handler from field definition.", "plugin", def.ID())
	return m.CreateInstance(ctx, def.ID(), def)
}

// CreateInstance builds pluginID with the configuration. When the plugin is
// missing or fails to build, the fallback plugin is built instead, and if
// even that fails a bare broken handler is returned.
func (m *Manager) CreateInstance(ctx context.Context, pluginID string, configuration definition.Definition) handler.Handler {
	logger := ctxlog.FromContext(ctx)

	h, err := m.factory.CreateInstance(ctx, pluginID, configuration)
	if err == nil {
		return h
	}

	fallback := m.FallbackPluginID(pluginID, configuration)
	logger.Warn("Failed to create handler, using fallback.", "plugin", pluginID, "fallback", fallback, "error", err)

	if fallback != pluginID {
		h, ferr := m.factory.CreateInstance(ctx, fallback, configuration)
		if ferr == nil {
			return h
		}
		err = ferr
	}

	logger.Warn("Fallback handler unavailable, using a bare broken handler.", "fallback", fallback, "error", err)
	return handler.NewBroken(handler.Config{
		Category:      m.category,
		PluginID:      fallback,
		Configuration: configuration,
	})
}

// FallbackPluginID returns the plugin used when pluginID cannot be built.
// It is always the broken plugin.
func (m *Manager) FallbackPluginID(pluginID string, configuration definition.Definition) string {
	return definition.BrokenPluginID
}

// Definitions returns the discovered plugin definitions of the category.
func (m *Manager) Definitions(ctx context.Context) (map[string]definition.Definition, error) {
	return m.definitions.Definitions(ctx)
}

// Definition returns a single discovered plugin definition.
func (m *Manager) Definition(ctx context.Context, id string) (definition.Definition, bool, error) {
	return m.definitions.Definition(ctx, id)
}

// PluginIDs returns the discovered plugin ids, sorted.
func (m *Manager) PluginIDs(ctx context.Context) ([]string, error) {
	return m.definitions.IDs(ctx)
}

// ClearCachedDefinitions drops the cached plugin definitions so the next
// access rediscovers them.
func (m *Manager) ClearCachedDefinitions(ctx context.Context) error {
	return m.definitions.Clear(ctx)
}
