package definition

import (
	"github.com/zclconf/go-cty/cty"
)

// IsEmpty reports whether v carries no usable value: null, unknown, the empty
// string, the string "0", false, numeric zero, or an empty collection.
// Manifests write flags as "0" and "1", so "0" counts as unset.
func IsEmpty(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return true
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		s := v.AsString()
		return s == "" || s == "0"
	case ty == cty.Bool:
		return v.False()
	case ty == cty.Number:
		return v.AsBigFloat().Sign() == 0
	case ty.IsObjectType():
		return len(ty.AttributeTypes()) == 0
	case ty.IsCollectionType() || ty.IsTupleType():
		return v.LengthInt() == 0
	}
	return false
}
