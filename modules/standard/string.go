package standard

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/handlergrid/internal/handler"
)

// StringOperators are the operators the string filter supports.
var StringOperators = []string{"=", "!=", "contains", "not contains", "starts", "ends", "empty", "not empty"}

// String handles text values.
type String struct {
	handler.Base
}

var (
	_ handler.Filter   = (*String)(nil)
	_ handler.Argument = (*String)(nil)
)

// NewString builds a String handler.
func NewString(cfg handler.Config) (handler.Handler, error) {
	return &String{Base: handler.NewBase(cfg)}, nil
}

func (s *String) Operators() []string {
	return append([]string(nil), StringOperators...)
}

func (s *String) Accept(op, value string) error {
	if !contains(StringOperators, op) {
		return fmt.Errorf("operator %q is not supported by the %s filter", op, s.PluginID())
	}
	if op != "empty" && op != "not empty" && value == "" {
		return fmt.Errorf("operator %q requires a value", op)
	}
	return nil
}

// Validate rejects blank arguments.
func (s *String) Validate(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("argument must not be blank")
	}
	return nil
}
