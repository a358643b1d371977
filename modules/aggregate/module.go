// Package aggregate provides the handlers substituted for the regular ones
// when a query aggregates a field.
package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/discovery"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/registry"
	"github.com/specialistvlad/handlergrid/modules/standard"
)

// PluginID is the id of the aggregate handler in every category it serves.
const PluginID = "aggregate_numeric"

// Categories lists the categories the aggregate handler is registered in.
var Categories = []definition.Category{
	definition.CategoryField,
	definition.CategoryFilter,
	definition.CategoryArgument,
	definition.CategorySort,
}

// OptionGroupType is the handler option holding the aggregation function.
const OptionGroupType = "group_type"

// Functions are the supported aggregation functions.
var Functions = []string{"avg", "count", "count_distinct", "max", "min", "stddev_pop", "sum"}

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "aggregate" }

// Register registers the aggregate handler.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAll(PluginID, definition.Strings(map[string]string{
		definition.KeyTitle: "Aggregate numeric",
		definition.KeyHelp:  "Numeric handler used when the field is aggregated.",
	}), New, Categories...)
}

// RegisterHooks marks every numeric plugin definition as aggregatable.
func (m *Module) RegisterHooks(h *hooks.ModuleHandler) {
	for _, c := range Categories {
		h.RegisterAlter(m.Name(), discovery.AlterHook(c), markAggregatable)
	}
}

func markAggregatable(_ context.Context, defs map[string]definition.Definition) {
	for id, d := range defs {
		if id == "numeric" || id == PluginID {
			defs[id] = d.With(definition.KeyAggregatable, cty.True)
		}
	}
}

// Override returns the plugin that replaces a field's regular handler when
// the field is aggregated with function.
func Override(function string, c definition.Category) (string, error) {
	i := sort.SearchStrings(Functions, function)
	if i == len(Functions) || Functions[i] != function {
		return "", fmt.Errorf("unknown aggregation function %q", function)
	}
	for _, ac := range Categories {
		if ac == c {
			return PluginID, nil
		}
	}
	return "", fmt.Errorf("aggregation is not supported for %s handlers", c)
}

// Numeric is the aggregate handler. It behaves like the numeric handler of
// the standard module, with the aggregation function as an option.
type Numeric struct {
	standard.Numeric
}

var (
	_ handler.Filter   = (*Numeric)(nil)
	_ handler.Argument = (*Numeric)(nil)
	_ handler.Field    = (*Numeric)(nil)
	_ handler.Sort     = (*Numeric)(nil)
)

// New builds an aggregate handler.
func New(cfg handler.Config) (handler.Handler, error) {
	return &Numeric{Numeric: standard.Numeric{Base: handler.NewBase(cfg)}}, nil
}

// Function returns the aggregation function set as an option, else the one
// from the configuration, "count" by default.
func (n *Numeric) Function() string {
	if f, ok := n.Option(OptionGroupType); ok && !f.IsNull() && f.Type().Equals(cty.String) {
		return f.AsString()
	}
	if f := n.Definition().String(OptionGroupType); f != "" {
		return f
	}
	return "count"
}

// SetFunction applies an aggregation function to a resolved handler. It
// reports false when h is not an aggregate handler.
func SetFunction(h handler.Handler, function string) bool {
	n, ok := h.(*Numeric)
	if !ok {
		return false
	}
	n.SetOption(OptionGroupType, cty.StringVal(function))
	return true
}

// Order returns "DESC" only when the order option says so.
func (n *Numeric) Order() string {
	if o, ok := n.Option("order"); ok && !o.IsNull() && o.Type().Equals(cty.String) && o.AsString() == "DESC" {
		return "DESC"
	}
	return "ASC"
}
