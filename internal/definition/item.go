package definition

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// LookupItem identifies a requested handler. An empty Table means every
// table is searched.
type LookupItem struct {
	Table    string `json:"table" yaml:"table"`
	Field    string `json:"field" yaml:"field"`
	PluginID string `json:"plugin_id,omitempty" yaml:"plugin_id,omitempty"`
}

func (i LookupItem) String() string {
	s := fmt.Sprintf("%s.%s", i.Table, i.Field)
	if i.PluginID != "" {
		s += "[" + i.PluginID + "]"
	}
	return s
}

// Value encodes the item as a cty object so it can travel inside a
// Definition, e.g. as the broken handler's original configuration.
func (i LookupItem) Value() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"table":     cty.StringVal(i.Table),
		"field":     cty.StringVal(i.Field),
		"plugin_id": cty.StringVal(i.PluginID),
	})
}

// LookupItemFromValue decodes a value produced by LookupItem.Value. Map and
// object values with string attributes are both accepted.
func LookupItemFromValue(v cty.Value) (LookupItem, bool) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return LookupItem{}, false
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return LookupItem{}, false
	}

	attrs := v.AsValueMap()
	str := func(name string) string {
		a, ok := attrs[name]
		if !ok || a.IsNull() || !a.Type().Equals(cty.String) {
			return ""
		}
		return a.AsString()
	}

	return LookupItem{
		Table:    str("table"),
		Field:    str("field"),
		PluginID: str("plugin_id"),
	}, true
}

// OriginalConfiguration builds the configuration handed to the broken
// handler when a lookup cannot be resolved at all.
func OriginalConfiguration(item LookupItem) Definition {
	return Definition{attrs: map[string]cty.Value{
		KeyOriginalConfiguration: item.Value(),
	}}
}
