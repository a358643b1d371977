// Package hooks dispatches alter hooks to the installed modules.
package hooks

import (
	"context"
	"sort"
	"sync"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/definition"
)

// AlterFunc may add, replace or remove entries of defs in place.
type AlterFunc func(ctx context.Context, defs map[string]definition.Definition)

type implementation struct {
	module string
	fn     AlterFunc
}

// ModuleHandler keeps the installed modules in installation order together
// with the alter hooks they implement.
type ModuleHandler struct {
	mu      sync.RWMutex
	modules []string
	known   map[string]struct{}
	alters  map[string][]implementation
}

// New creates an empty module handler.
func New() *ModuleHandler {
	return &ModuleHandler{
		known:  make(map[string]struct{}),
		alters: make(map[string][]implementation),
	}
}

// AddModule records a module as installed. Adding a module twice is a no-op.
func (m *ModuleHandler) AddModule(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[name]; ok {
		return
	}
	m.known[name] = struct{}{}
	m.modules = append(m.modules, name)
}

// ModuleExists reports whether the module is installed.
func (m *ModuleHandler) ModuleExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.known[name]
	return ok
}

// ModuleList returns the installed modules in installation order.
func (m *ModuleHandler) ModuleList() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.modules...)
}

// RegisterAlter attaches fn to hook on behalf of module, installing the
// module if needed.
func (m *ModuleHandler) RegisterAlter(module, hook string, fn AlterFunc) {
	if fn == nil {
		panic("hooks: nil alter function for hook " + hook)
	}
	m.AddModule(module)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.alters[hook] = append(m.alters[hook], implementation{module: module, fn: fn})
}

// HasImplementations reports whether any module implements hook.
func (m *ModuleHandler) HasImplementations(hook string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.alters[hook]) > 0
}

// Alter invokes every implementation of hook on defs, in module installation
// order.
func (m *ModuleHandler) Alter(ctx context.Context, hook string, defs map[string]definition.Definition) {
	m.mu.RLock()
	impls := append([]implementation(nil), m.alters[hook]...)
	order := make(map[string]int, len(m.modules))
	for i, name := range m.modules {
		order[name] = i
	}
	m.mu.RUnlock()

	// Registration order can differ from installation order when a module
	// registers hooks after later modules were added.
	sortByModuleOrder(impls, order)

	logger := ctxlog.FromContext(ctx)
	for _, impl := range impls {
		logger.Debug("Invoking alter hook.", "hook", hook, "module", impl.module)
		impl.fn(ctx, defs)
	}
}

func sortByModuleOrder(impls []implementation, order map[string]int) {
	sort.SliceStable(impls, func(i, j int) bool {
		return order[impls[i].module] < order[impls[j].module]
	})
}
