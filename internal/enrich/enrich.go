// Package enrich fills the display and mapping attributes of a handler
// definition from the field and table it was declared on.
package enrich

import (
	"github.com/specialistvlad/handlergrid/internal/definition"
)

// Definition returns def with every inherited attribute it lacks copied from
// the field attributes, or failing that from the table attributes. A
// table-level "entity type" is stored as "entity_type" so that it never
// shadows the entity type declared by the field itself. Attributes already on
// def are never overwritten, and empty source values are skipped.
func Definition(def, field, table definition.Definition) definition.Definition {
	out := def
	for _, key := range definition.InheritedKeys {
		if def.Has(key) {
			continue
		}

		if v, ok := field.Get(key); ok && !definition.IsEmpty(v) {
			out = out.With(key, v)
			continue
		}

		if v, ok := table.Get(key); ok && !definition.IsEmpty(v) {
			target := key
			if key == definition.KeyEntityType {
				target = definition.KeyTableEntityType
			}
			if !out.Has(target) {
				out = out.With(target, v)
			}
		}
	}
	return out
}
