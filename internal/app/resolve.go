package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/invalidation"
	"github.com/specialistvlad/handlergrid/modules/aggregate"
)

// ResolveRequest asks for the handler of one field.
type ResolveRequest struct {
	Category definition.Category
	Item     definition.LookupItem
	// Override is a plugin id tried before anything else.
	Override string
	// Aggregate names an aggregation function. It selects the aggregate
	// override and cannot be combined with Override.
	Aggregate string
}

// Resolution describes a resolved handler.
type Resolution struct {
	Category              definition.Category    `json:"category" yaml:"category"`
	Item                  definition.LookupItem  `json:"item" yaml:"item"`
	Override              string                 `json:"override,omitempty" yaml:"override,omitempty"`
	PluginID              string                 `json:"plugin_id" yaml:"plugin_id"`
	Broken                bool                   `json:"broken" yaml:"broken"`
	Label                 string                 `json:"label" yaml:"label"`
	Definition            definition.Definition  `json:"definition" yaml:"definition"`
	OriginalConfiguration *definition.LookupItem `json:"original_configuration,omitempty" yaml:"original_configuration,omitempty"`
	// Function is the aggregation function of aggregate handlers.
	Function string `json:"function,omitempty" yaml:"function,omitempty"`
	// Operators is set for filter handlers.
	Operators []string `json:"operators,omitempty" yaml:"operators,omitempty"`

	Handler handler.Handler `json:"-" yaml:"-"`
}

// Resolve resolves the handler of a field. Only malformed requests fail;
// anything that cannot be resolved comes back as a broken handler.
func (a *App) Resolve(ctx context.Context, req ResolveRequest) (*Resolution, error) {
	ctx = a.withLogger(ctx)
	if req.Item.Field == "" {
		return nil, errors.New("field is required")
	}
	m, err := a.managers.Get(req.Category)
	if err != nil {
		return nil, err
	}

	override := req.Override
	if req.Aggregate != "" {
		if override != "" {
			return nil, errors.New("override and aggregate cannot be combined")
		}
		override, err = aggregate.Override(req.Aggregate, req.Category)
		if err != nil {
			return nil, err
		}
	}

	h := m.GetHandler(ctx, req.Item, override)
	if req.Aggregate != "" && !aggregate.SetFunction(h, req.Aggregate) {
		ctxlog.FromContext(ctx).Warn("Aggregation requested but the resolved handler does not aggregate.", "plugin", h.PluginID(), "function", req.Aggregate)
	}
	res := &Resolution{
		Category: req.Category,
		Item:     req.Item,
		Override: override,
		PluginID: h.PluginID(),
		Broken:   h.Broken(),
		Handler:  h,
	}
	if l, ok := h.(interface{ AdminLabel() string }); ok {
		res.Label = l.AdminLabel()
	}
	if d, ok := h.(interface{ Definition() definition.Definition }); ok {
		res.Definition = d.Definition()
	}
	if n, ok := h.(*aggregate.Numeric); ok {
		res.Function = n.Function()
	}
	if f, ok := h.(handler.Filter); ok {
		res.Operators = f.Operators()
	}
	if b, ok := handler.AsBroken(h); ok {
		if orig, ok := b.OriginalConfiguration(); ok {
			res.OriginalConfiguration = &orig
		}
	}

	ctxlog.FromContext(ctx).Debug("Resolved handler.", "category", req.Category, "item", req.Item.String(), "plugin", res.PluginID, "broken", res.Broken)
	return res, nil
}

// Definitions returns the discovered plugin definitions of the given
// categories, or of every category when none are given.
func (a *App) Definitions(ctx context.Context, categories ...definition.Category) (map[definition.Category]map[string]definition.Definition, error) {
	ctx = a.withLogger(ctx)
	if len(categories) == 0 {
		categories = a.managers.Categories()
	}

	out := make(map[definition.Category]map[string]definition.Definition, len(categories))
	for _, c := range categories {
		m, err := a.managers.Get(c)
		if err != nil {
			return nil, err
		}
		defs, err := m.Definitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to discover %s plugins: %w", c, err)
		}
		out[c] = defs
	}
	return out, nil
}

// Tables returns the loaded tables in name order. With names, only those
// tables are returned and an unknown one is an error.
func (a *App) Tables(names ...string) ([]*datastore.Table, error) {
	if len(names) == 0 {
		names = a.data.TableNames()
	} else {
		names = append([]string(nil), names...)
		sort.Strings(names)
	}

	out := make([]*datastore.Table, 0, len(names))
	for _, n := range names {
		t := a.data.Get(n)
		if t == nil {
			return nil, fmt.Errorf("unknown table %q", n)
		}
		out = append(out, t)
	}
	return out, nil
}

// Validate lists the handler declarations whose plugin is not registered.
func (a *App) Validate(ctx context.Context) []string {
	return a.registry.Validate(a.withLogger(ctx), a.data)
}

// InvalidateTags drops the cached entries carrying any of tags. Glob
// patterns such as "plugins:*" are accepted.
func (a *App) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	ctx = a.withLogger(ctx)
	if err := invalidation.Invalidate(ctx, a.cache, tags...); err != nil {
		return err
	}
	a.logger.Info("Cache invalidated.", "tags", tags)
	return nil
}

// ClearCachedDefinitions drops the cached definitions of every category.
func (a *App) ClearCachedDefinitions(ctx context.Context) error {
	return a.managers.ClearCachedDefinitions(a.withLogger(ctx))
}
