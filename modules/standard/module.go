// Package standard provides the general purpose handlers: standard, numeric,
// string and boolean.
package standard

import (
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "standard" }

// Register registers the standard plugins.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAll("standard", definition.Strings(map[string]string{
		definition.KeyTitle: "Standard",
	}), NewStandard,
		definition.CategoryField,
		definition.CategorySort,
		definition.CategoryArgument,
		definition.CategoryRelationship,
		definition.CategoryJoin,
		definition.CategoryArea,
	)

	r.RegisterAll("numeric", definition.Strings(map[string]string{
		definition.KeyTitle: "Numeric",
	}), NewNumeric,
		definition.CategoryField,
		definition.CategoryFilter,
		definition.CategoryArgument,
	)

	r.RegisterAll("string", definition.Strings(map[string]string{
		definition.KeyTitle: "String",
	}), NewString,
		definition.CategoryFilter,
		definition.CategoryArgument,
	)

	r.Register(&registry.Plugin{
		ID:         "boolean",
		Category:   definition.CategoryFilter,
		Definition: definition.Strings(map[string]string{definition.KeyTitle: "Boolean"}),
		New:        NewBoolean,
	})
}
