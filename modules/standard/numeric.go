package standard

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/handlergrid/internal/handler"
)

// NumericOperators are the operators every numeric filter supports.
var NumericOperators = []string{"<", "<=", "=", "!=", ">=", ">", "between", "not between", "empty", "not empty"}

// Numeric handles numeric values.
type Numeric struct {
	handler.Base
}

var (
	_ handler.Filter   = (*Numeric)(nil)
	_ handler.Argument = (*Numeric)(nil)
	_ handler.Field    = (*Numeric)(nil)
)

// NewNumeric builds a Numeric handler.
func NewNumeric(cfg handler.Config) (handler.Handler, error) {
	return &Numeric{Base: handler.NewBase(cfg)}, nil
}

func (n *Numeric) Operators() []string {
	return append([]string(nil), NumericOperators...)
}

// Accept checks op and value. "between" operators take two numbers
// separated by a comma; the empty checks take no value.
func (n *Numeric) Accept(op, value string) error {
	switch op {
	case "empty", "not empty":
		return nil
	case "between", "not between":
		parts := strings.Split(value, ",")
		if len(parts) != 2 {
			return fmt.Errorf("operator %q expects two comma-separated numbers, got %q", op, value)
		}
		for _, p := range parts {
			if _, err := parseNumber(p); err != nil {
				return err
			}
		}
		return nil
	}
	if !contains(NumericOperators, op) {
		return fmt.Errorf("operator %q is not supported by the %s filter", op, n.PluginID())
	}
	_, err := parseNumber(value)
	return err
}

// Validate accepts a single integer, or several joined with "+" or ",".
func (n *Numeric) Validate(raw string) error {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '+' || r == ',' })
	if len(parts) == 0 {
		return fmt.Errorf("argument %q is not numeric", raw)
	}
	for _, p := range parts {
		if _, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err != nil {
			return fmt.Errorf("argument %q is not numeric", raw)
		}
	}
	return nil
}

// Render formats numbers with the "precision" option, if set.
func (n *Numeric) Render(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil || !nv.IsKnown() {
		return "", fmt.Errorf("cannot render %s value as a number", v.Type().FriendlyName())
	}

	f := nv.AsBigFloat()
	if p, ok := n.Option("precision"); ok && !p.IsNull() && p.Type().Equals(cty.Number) {
		prec, _ := p.AsBigFloat().Int64()
		return f.Text('f', int(prec)), nil
	}
	if f.IsInt() {
		i, _ := f.Int(nil)
		return i.String(), nil
	}
	return f.Text('g', -1), nil
}

func parseNumber(s string) (*big.Float, error) {
	f, _, err := big.ParseFloat(strings.TrimSpace(s), 10, 512, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("value %q is not a number", s)
	}
	return f, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
