// Package discovery caches the plugin definitions of one handler category.
package discovery

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/specialistvlad/handlergrid/internal/cache"
	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/hooks"
)

// DefinitionsTag is carried by every cached definition set, so that all of
// them can be dropped at once.
const DefinitionsTag = "plugin_definitions"

// Discoverer finds the plugin definitions of a category. Implementations
// must be free of side effects so that redundant runs are harmless.
type Discoverer interface {
	Discover(ctx context.Context, c definition.Category) (map[string]definition.Definition, error)
}

// DiscovererFunc adapts a function to Discoverer.
type DiscovererFunc func(ctx context.Context, c definition.Category) (map[string]definition.Definition, error)

func (f DiscovererFunc) Discover(ctx context.Context, c definition.Category) (map[string]definition.Definition, error) {
	return f(ctx, c)
}

// Namespace returns the cache key of a category's definitions.
func Namespace(c definition.Category) string { return "plugins:" + string(c) }

// AlterHook returns the name of the alter hook run over a category's
// definitions.
func AlterHook(c definition.Category) string { return "handler_plugins_" + string(c) }

// Cache serves the discovered definitions of one category from a cache
// backend, running discovery on a miss.
type Cache struct {
	category   definition.Category
	discoverer Discoverer
	backend    cache.Backend
	hooks      *hooks.ModuleHandler
	defaults   definition.Definition
	group      singleflight.Group
}

// New creates a discovery cache. hooks may be nil, in which case no alter
// hook runs.
func New(c definition.Category, d Discoverer, backend cache.Backend, h *hooks.ModuleHandler) *Cache {
	return &Cache{
		category:   c,
		discoverer: d,
		backend:    backend,
		hooks:      h,
		defaults:   definition.Strings(map[string]string{definition.KeyPluginType: string(c)}),
	}
}

// Key returns the cache key.
func (c *Cache) Key() string { return Namespace(c.category) }

// Tags returns the tags the definitions are cached with.
func (c *Cache) Tags() []string { return []string{Namespace(c.category), DefinitionsTag} }

// Definitions returns every definition of the category keyed by plugin id.
// The returned map belongs to the caller.
func (c *Cache) Definitions(ctx context.Context) (map[string]definition.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	if defs, ok := c.cached(ctx); ok {
		return defs, nil
	}

	v, err, shared := c.group.Do(c.Key(), func() (any, error) {
		// Another caller may have filled the cache while we waited.
		if defs, ok := c.cached(ctx); ok {
			return defs, nil
		}
		defs, err := c.discover(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.backend.Set(ctx, c.Key(), defs, c.Tags()...); err != nil {
			logger.Warn("Failed to cache plugin definitions.", "key", c.Key(), "error", err)
		}
		return defs, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("Shared in-flight plugin discovery.", "category", c.category)
	}
	return clone(v.(map[string]definition.Definition)), nil
}

// Definition returns a single plugin definition.
func (c *Cache) Definition(ctx context.Context, id string) (definition.Definition, bool, error) {
	defs, err := c.Definitions(ctx)
	if err != nil {
		return definition.Definition{}, false, err
	}
	d, ok := defs[id]
	return d, ok, nil
}

// IDs returns the discovered plugin ids, sorted.
func (c *Cache) IDs(ctx context.Context) ([]string, error) {
	defs, err := c.Definitions(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Clear drops the cached definitions of the category.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.backend.InvalidateTags(ctx, Namespace(c.category)); err != nil {
		return fmt.Errorf("failed to clear plugin definitions for %s: %w", c.category, err)
	}
	ctxlog.FromContext(ctx).Debug("Cleared cached plugin definitions.", "category", c.category)
	return nil
}

func (c *Cache) cached(ctx context.Context) (map[string]definition.Definition, bool) {
	e, ok, err := c.backend.Get(ctx, c.Key())
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to read cached plugin definitions.", "key", c.Key(), "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	defs, ok := e.Data.(map[string]definition.Definition)
	if !ok {
		ctxlog.FromContext(ctx).Warn("Ignoring cache entry of unexpected type.", "key", c.Key(), "type", fmt.Sprintf("%T", e.Data))
		return nil, false
	}
	return clone(defs), true
}

func (c *Cache) discover(ctx context.Context) (map[string]definition.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering plugin definitions.", "category", c.category)

	found, err := c.discoverer.Discover(ctx, c.category)
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s plugins: %w", c.category, err)
	}

	defs := make(map[string]definition.Definition, len(found))
	for id, d := range found {
		d = d.Merge(c.defaults)
		if !d.Has(definition.KeyID) {
			d = d.WithString(definition.KeyID, id)
		}
		if d.ID() == "" {
			logger.Warn("Dropping plugin definition without id.", "category", c.category, "key", id)
			continue
		}
		defs[d.ID()] = d
	}

	if c.hooks != nil {
		c.hooks.Alter(ctx, AlterHook(c.category), defs)
	}

	logger.Debug("Plugin discovery complete.", "category", c.category, "count", len(defs))
	return defs, nil
}

func clone(in map[string]definition.Definition) map[string]definition.Definition {
	out := make(map[string]definition.Definition, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
