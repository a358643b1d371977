// Package handler defines the contract every resolved handler satisfies and
// the embeddable base the bundled handlers build on.
package handler

import (
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/hooks"
)

// Handler is a resolved handler instance. Instances are built per lookup and
// owned by the caller.
type Handler interface {
	PluginID() string
	Category() definition.Category
	// Broken reports whether the instance is a stand-in for a handler that
	// could not be resolved or built.
	Broken() bool
}

// Config is what a plugin constructor receives.
type Config struct {
	Category definition.Category
	PluginID string
	// PluginDefinition is the discovered definition of the plugin itself.
	PluginDefinition definition.Definition
	// Configuration is the enriched field-level definition.
	Configuration definition.Definition
}

// Wirable is implemented by handlers that want the module handler and the
// data store injected after construction.
type Wirable interface {
	SetModuleHandler(*hooks.ModuleHandler)
	SetDataStore(datastore.Provider)
}

// Optioner is implemented by handlers whose options can be changed by other
// handlers during pre-query.
type Optioner interface {
	Handler
	Definition() definition.Definition
	PluginDefinition() definition.Definition
	Option(key string) (cty.Value, bool)
	SetOption(key string, v cty.Value)
}

// Base is the embeddable handler base. It satisfies Handler, Wirable and
// Optioner.
type Base struct {
	category         definition.Category
	pluginID         string
	pluginDefinition definition.Definition
	configuration    definition.Definition
	options          map[string]cty.Value

	moduleHandler *hooks.ModuleHandler
	data          datastore.Provider
}

var (
	_ Wirable  = (*Base)(nil)
	_ Optioner = (*Base)(nil)
)

// NewBase creates a base from a constructor config.
func NewBase(cfg Config) Base {
	return Base{
		category:         cfg.Category,
		pluginID:         cfg.PluginID,
		pluginDefinition: cfg.PluginDefinition,
		configuration:    cfg.Configuration,
		options:          make(map[string]cty.Value),
	}
}

func (b *Base) PluginID() string { return b.pluginID }

func (b *Base) Category() definition.Category { return b.category }

func (b *Base) Broken() bool { return false }

// Definition returns the enriched configuration the handler was built with.
func (b *Base) Definition() definition.Definition { return b.configuration }

// PluginDefinition returns the discovered definition of the plugin.
func (b *Base) PluginDefinition() definition.Definition { return b.pluginDefinition }

// AdminLabel is the human-readable label of the handler: the configured
// title, the plugin title, or the plugin id, whichever is set first.
func (b *Base) AdminLabel() string {
	if t := b.configuration.String(definition.KeyTitle); t != "" {
		return t
	}
	if t := b.pluginDefinition.String(definition.KeyTitle); t != "" {
		return t
	}
	return b.pluginID
}

// Option returns a handler option.
func (b *Base) Option(key string) (cty.Value, bool) {
	v, ok := b.options[key]
	return v, ok
}

// SetOption sets a handler option.
func (b *Base) SetOption(key string, v cty.Value) {
	if b.options == nil {
		b.options = make(map[string]cty.Value)
	}
	b.options[key] = v
}

// OptionKeys returns the names of the set options, sorted.
func (b *Base) OptionKeys() []string {
	keys := make([]string, 0, len(b.options))
	for k := range b.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Base) SetModuleHandler(m *hooks.ModuleHandler) { b.moduleHandler = m }

func (b *Base) SetDataStore(d datastore.Provider) { b.data = d }

// ModuleHandler returns the injected module handler, or nil.
func (b *Base) ModuleHandler() *hooks.ModuleHandler { return b.moduleHandler }

// DataStore returns the injected data store, or nil.
func (b *Base) DataStore() datastore.Provider { return b.data }
