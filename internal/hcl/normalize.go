package hcl

import (
	"github.com/specialistvlad/handlergrid/internal/definition"
)

// HCL identifiers cannot contain spaces, so the well-known metadata keys are
// written with underscores in manifests.
var attributeKeys = map[string]string{
	"title_short":           definition.KeyTitleShort,
	"real_field":            definition.KeyRealField,
	"real_table":            definition.KeyRealTable,
	"entity_type":           definition.KeyEntityType,
	"entity_field":          definition.KeyEntityField,
	"accept_depth_modifier": definition.KeyAcceptDepthModifier,
}

// normalizeKey maps a manifest attribute name to its definition key. Unknown
// names are returned unchanged.
func normalizeKey(name string) string {
	if k, ok := attributeKeys[name]; ok {
		return k
	}
	return name
}
