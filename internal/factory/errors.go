package factory

import (
	"fmt"

	"github.com/specialistvlad/handlergrid/internal/definition"
)

// PluginNotFoundError is returned when no plugin is discovered or registered
// under the requested id.
type PluginNotFoundError struct {
	Category definition.Category
	PluginID string
}

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("the %q plugin does not exist in category %q", e.PluginID, e.Category)
}

// PluginConstructionError is returned when a plugin constructor fails,
// panics, or returns no instance.
type PluginConstructionError struct {
	Category definition.Category
	PluginID string
	Err      error
}

func (e *PluginConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %q plugin in category %q: %v", e.PluginID, e.Category, e.Err)
}

func (e *PluginConstructionError) Unwrap() error { return e.Err }
