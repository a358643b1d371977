package standard

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/handlergrid/internal/handler"
)

// Boolean filters on true/false values.
type Boolean struct {
	handler.Base
}

var _ handler.Filter = (*Boolean)(nil)

// NewBoolean builds a Boolean handler.
func NewBoolean(cfg handler.Config) (handler.Handler, error) {
	return &Boolean{Base: handler.NewBase(cfg)}, nil
}

func (b *Boolean) Operators() []string { return []string{"=", "!="} }

func (b *Boolean) Accept(op, value string) error {
	if op != "=" && op != "!=" {
		return fmt.Errorf("operator %q is not supported by the %s filter", op, b.PluginID())
	}
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("value %q is not a boolean", value)
	}
	return nil
}
