package definition

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Definition is an immutable attribute map describing a handler or a plugin.
// The zero value is an empty definition.
type Definition struct {
	attrs map[string]cty.Value
}

// New copies attrs into a new Definition.
func New(attrs map[string]cty.Value) Definition {
	if len(attrs) == 0 {
		return Definition{}
	}
	return Definition{attrs: maps.Clone(attrs)}
}

// Strings builds a Definition whose attributes are all strings.
func Strings(attrs map[string]string) Definition {
	out := make(map[string]cty.Value, len(attrs))
	for k, v := range attrs {
		out[k] = cty.StringVal(v)
	}
	return Definition{attrs: out}
}

// FromGo converts plain Go values (as produced by encoding/json or yaml) into
// a Definition.
func FromGo(attrs map[string]any) (Definition, error) {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to encode attributes: %w", err)
	}
	var d Definition
	if err := d.UnmarshalJSON(raw); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// ID returns the "id" attribute as a string, or "" when it is missing.
func (d Definition) ID() string {
	return d.String(KeyID)
}

// Get returns the raw attribute value.
func (d Definition) Get(key string) (cty.Value, bool) {
	v, ok := d.attrs[key]
	return v, ok
}

// Has reports whether key is set to a non-null value.
func (d Definition) Has(key string) bool {
	v, ok := d.attrs[key]
	return ok && !v.IsNull()
}

// String returns the attribute converted to a string. Values that cannot be
// represented as a string yield "".
func (d Definition) String(key string) string {
	v, ok := d.attrs[key]
	if !ok || v.IsNull() || !v.IsKnown() {
		return ""
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil || s.IsNull() || !s.IsKnown() {
		return ""
	}
	return s.AsString()
}

// Bool returns the attribute as a bool; anything but a known true is false.
func (d Definition) Bool(key string) bool {
	v, ok := d.attrs[key]
	if !ok || v.IsNull() || !v.IsKnown() {
		return false
	}
	b, err := convert.Convert(v, cty.Bool)
	if err != nil || b.IsNull() {
		return false
	}
	return b.True()
}

// With returns a copy of d with key set to v.
func (d Definition) With(key string, v cty.Value) Definition {
	out := make(map[string]cty.Value, len(d.attrs)+1)
	maps.Copy(out, d.attrs)
	out[key] = v
	return Definition{attrs: out}
}

// WithString is a shorthand for With(key, cty.StringVal(v)).
func (d Definition) WithString(key, v string) Definition {
	return d.With(key, cty.StringVal(v))
}

// Without returns a copy of d with key removed.
func (d Definition) Without(key string) Definition {
	if _, ok := d.attrs[key]; !ok {
		return d
	}
	out := maps.Clone(d.attrs)
	delete(out, key)
	return Definition{attrs: out}
}

// Merge returns a copy of d with every attribute of other that d does not
// already set. Existing attributes always win.
func (d Definition) Merge(other Definition) Definition {
	out := maps.Clone(d.attrs)
	if out == nil {
		out = make(map[string]cty.Value, len(other.attrs))
	}
	for k, v := range other.attrs {
		if cur, ok := out[k]; ok && !cur.IsNull() {
			continue
		}
		out[k] = v
	}
	return Definition{attrs: out}
}

// Keys returns the attribute names in sorted order.
func (d Definition) Keys() []string {
	return slices.Sorted(maps.Keys(d.attrs))
}

// Len returns the number of attributes.
func (d Definition) Len() int {
	return len(d.attrs)
}

// Map returns a copy of the attributes.
func (d Definition) Map() map[string]cty.Value {
	return maps.Clone(d.attrs)
}

// Equal reports whether both definitions carry exactly the same attributes.
func (d Definition) Equal(other Definition) bool {
	if len(d.attrs) != len(other.attrs) {
		return false
	}
	for k, v := range d.attrs {
		ov, ok := other.attrs[k]
		if !ok || !v.RawEquals(ov) {
			return false
		}
	}
	return true
}

// ToGo converts the attributes into plain Go values for encoders that do not
// know about cty.
func (d Definition) ToGo() (map[string]any, error) {
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(d.attrs))
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return out, nil
}

// MarshalJSON encodes the definition as a flat JSON object.
func (d Definition) MarshalJSON() ([]byte, error) {
	out := make(map[string]ctyjson.SimpleJSONValue, len(d.attrs))
	for k, v := range d.attrs {
		if !v.IsWhollyKnown() {
			return nil, fmt.Errorf("attribute %q has an unknown value", k)
		}
		out[k] = ctyjson.SimpleJSONValue{Value: v}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat JSON object, inferring cty types from the JSON.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw map[string]ctyjson.SimpleJSONValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode definition: %w", err)
	}
	attrs := make(map[string]cty.Value, len(raw))
	for k, v := range raw {
		attrs[k] = v.Value
	}
	d.attrs = attrs
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Definition) MarshalYAML() (any, error) {
	return d.ToGo()
}
