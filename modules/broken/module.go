// Package broken provides the handler that stands in for missing or
// unbuildable handlers in every category.
package broken

import (
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "broken" }

// Register registers the broken plugin in every category.
func (m *Module) Register(r *registry.Registry) {
	def := definition.Strings(map[string]string{
		definition.KeyTitle: handler.BrokenLabel,
		definition.KeyHelp:  "Handler is broken or missing.",
	})
	r.RegisterAll(definition.BrokenPluginID, def, New, definition.Categories()...)
}

// New builds a broken handler.
func New(cfg handler.Config) (handler.Handler, error) {
	return handler.NewBroken(cfg), nil
}
