// Package factory builds handler instances from discovered plugin
// definitions.
package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/discovery"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// ErrNilInstance is wrapped by PluginConstructionError when a constructor
// returns neither an instance nor an error.
var ErrNilInstance = errors.New("constructor returned no instance")

// Factory builds instances of one category's plugins.
type Factory struct {
	category    definition.Category
	registry    *registry.Registry
	definitions *discovery.Cache
	hooks       *hooks.ModuleHandler
	data        datastore.Provider
}

// New creates a factory. The module handler and data store are injected into
// every instance implementing handler.Wirable.
func New(c definition.Category, reg *registry.Registry, defs *discovery.Cache, h *hooks.ModuleHandler, data datastore.Provider) *Factory {
	return &Factory{category: c, registry: reg, definitions: defs, hooks: h, data: data}
}

// CreateInstance builds the plugin pluginID with the given configuration.
// The plugin must be both discovered and registered.
func (f *Factory) CreateInstance(ctx context.Context, pluginID string, configuration definition.Definition) (handler.Handler, error) {
	pluginDef, ok, err := f.definitions.Definition(ctx, pluginID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &PluginNotFoundError{Category: f.category, PluginID: pluginID}
	}
	plugin, ok := f.registry.Lookup(f.category, pluginID)
	if !ok {
		return nil, &PluginNotFoundError{Category: f.category, PluginID: pluginID}
	}

	h, err := construct(plugin.New, handler.Config{
		Category:         f.category,
		PluginID:         pluginID,
		PluginDefinition: pluginDef,
		Configuration:    configuration,
	})
	if err != nil {
		return nil, &PluginConstructionError{Category: f.category, PluginID: pluginID, Err: err}
	}

	if w, ok := h.(handler.Wirable); ok {
		w.SetModuleHandler(f.hooks)
		w.SetDataStore(f.data)
	}

	ctxlog.FromContext(ctx).Debug("Created handler instance.", "category", f.category, "plugin", pluginID)
	return h, nil
}

// construct runs ctor, turning a panic or a nil instance into an error.
func construct(ctor registry.Constructor, cfg handler.Config) (h handler.Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	h, err = ctor(cfg)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrNilInstance
	}
	return h, nil
}
