package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
)

// Constructor builds a handler instance.
type Constructor func(cfg handler.Config) (handler.Handler, error)

// Plugin is a registered handler implementation.
type Plugin struct {
	ID       string
	Category definition.Category
	// Provider is the module that registered the plugin. Install fills it
	// in when left empty.
	Provider   string
	Definition definition.Definition
	New        Constructor
}

// Module is the interface that all handler modules must implement to be
// registered.
type Module interface {
	Name() string
	Register(r *Registry)
}

// HookProvider is implemented by modules that also contribute alter hooks.
type HookProvider interface {
	RegisterHooks(h *hooks.ModuleHandler)
}

// Registry holds all the registered plugins for a single application
// instance.
type Registry struct {
	mu       sync.RWMutex
	plugins  map[definition.Category]map[string]*Plugin
	provider string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		plugins: make(map[definition.Category]map[string]*Plugin),
	}
}

// Register adds a plugin. It panics on an invalid category, a missing id or
// constructor, or a duplicate id within the category.
func (r *Registry) Register(p *Plugin) {
	if !p.Category.Valid() {
		panic(fmt.Sprintf("plugin '%s' registered with unknown category '%s'", p.ID, p.Category))
	}
	if p.ID == "" {
		panic(fmt.Sprintf("plugin without id registered in category '%s'", p.Category))
	}
	if p.New == nil {
		panic(fmt.Sprintf("plugin '%s' in category '%s' has no constructor", p.ID, p.Category))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byID, ok := r.plugins[p.Category]
	if !ok {
		byID = make(map[string]*Plugin)
		r.plugins[p.Category] = byID
	}
	if _, exists := byID[p.ID]; exists {
		panic(fmt.Sprintf("plugin '%s' already registered in category '%s'", p.ID, p.Category))
	}

	cp := *p
	if cp.Provider == "" {
		cp.Provider = r.provider
	}
	slog.Debug("Registering handler plugin.", "category", cp.Category, "id", cp.ID, "provider", cp.Provider)
	byID[cp.ID] = &cp
}

// RegisterAll registers one plugin per category, all sharing id, definition
// and constructor.
func (r *Registry) RegisterAll(id string, def definition.Definition, ctor Constructor, categories ...definition.Category) {
	for _, c := range categories {
		r.Register(&Plugin{ID: id, Category: c, Definition: def, New: ctor})
	}
}

// Lookup returns the plugin registered under the category and id.
func (r *Registry) Lookup(c definition.Category, id string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[c][id]
	return p, ok
}

// Plugins returns the plugins of a category sorted by id.
func (r *Registry) Plugins(c definition.Category) []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Plugin, 0, len(r.plugins[c]))
	for _, p := range r.plugins[c] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Discover returns the static definitions of a category keyed by plugin id.
// Each definition is stamped with its id and provider.
func (r *Registry) Discover(ctx context.Context, c definition.Category) (map[string]definition.Definition, error) {
	plugins := r.Plugins(c)
	out := make(map[string]definition.Definition, len(plugins))
	for _, p := range plugins {
		out[p.ID] = p.Definition.
			WithString(definition.KeyID, p.ID).
			WithString(definition.KeyProvider, p.Provider)
	}
	ctxlog.FromContext(ctx).Debug("Discovered plugin definitions.", "category", c, "count", len(out))
	return out, nil
}

// Install registers the given modules in order, records them on the module
// handler and lets hook providers attach their alter hooks.
func Install(r *Registry, h *hooks.ModuleHandler, modules ...Module) {
	for _, m := range modules {
		name := m.Name()
		h.AddModule(name)

		r.mu.Lock()
		r.provider = name
		r.mu.Unlock()

		m.Register(r)

		if hp, ok := m.(HookProvider); ok {
			hp.RegisterHooks(h)
		}
	}

	r.mu.Lock()
	r.provider = ""
	r.mu.Unlock()
}
