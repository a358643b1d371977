package standard

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/handlergrid/internal/handler"
)

// Standard is the catch-all handler. It renders values as strings, sorts in
// the configured order and accepts any argument.
type Standard struct {
	handler.Base
}

var (
	_ handler.Field    = (*Standard)(nil)
	_ handler.Sort     = (*Standard)(nil)
	_ handler.Argument = (*Standard)(nil)
)

// NewStandard builds a Standard handler.
func NewStandard(cfg handler.Config) (handler.Handler, error) {
	return &Standard{Base: handler.NewBase(cfg)}, nil
}

// Render converts primitive values to their string form. Null renders as
// the empty string.
func (s *Standard) Render(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("cannot render an unknown value")
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot render %s value: %w", v.Type().FriendlyName(), err)
	}
	return sv.AsString(), nil
}

// Order returns the configured sort order, "ASC" by default.
func (s *Standard) Order() string {
	if o, ok := s.Option("order"); ok && !o.IsNull() && o.Type().Equals(cty.String) {
		if strings.EqualFold(o.AsString(), "desc") {
			return "DESC"
		}
		return "ASC"
	}
	if strings.EqualFold(s.Definition().String("order"), "desc") {
		return "DESC"
	}
	return "ASC"
}

// Validate accepts any argument.
func (s *Standard) Validate(string) error { return nil }
