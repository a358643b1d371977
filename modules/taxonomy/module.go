// Package taxonomy provides the term depth argument handlers.
package taxonomy

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

const (
	// DepthPluginID filters by term id including the term's children down to
	// the depth option.
	DepthPluginID = "taxonomy_index_tid_depth"
	// DepthModifierPluginID adjusts the depth of preceding depth arguments.
	DepthModifierPluginID = "taxonomy_index_tid_depth_modifier"

	// OptionDepth is the option the modifier sets.
	OptionDepth = "depth"

	maxDepth = 10
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "taxonomy" }

// Register registers the taxonomy argument handlers.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Plugin{
		ID:       DepthPluginID,
		Category: definition.CategoryArgument,
		Definition: definition.Strings(map[string]string{
			definition.KeyTitle: "Has taxonomy term ID (with depth)",
		}).With(definition.KeyAcceptDepthModifier, cty.True),
		New: NewDepth,
	})
	r.Register(&registry.Plugin{
		ID:       DepthModifierPluginID,
		Category: definition.CategoryArgument,
		Definition: definition.Strings(map[string]string{
			definition.KeyTitle: "Has taxonomy term ID depth modifier",
			definition.KeyHelp:  "Allows the depth of a preceding term argument to be set by an argument.",
		}),
		New: NewDepthModifier,
	})
}
