package taxonomy

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
)

// Depth is the term id argument that also matches child terms.
type Depth struct {
	handler.Base
}

var _ handler.Argument = (*Depth)(nil)

// NewDepth builds a Depth handler with a depth of 0.
func NewDepth(cfg handler.Config) (handler.Handler, error) {
	d := &Depth{Base: handler.NewBase(cfg)}
	d.SetOption(OptionDepth, cty.Zero)
	return d, nil
}

// Validate accepts term ids joined with "+" or ",".
func (d *Depth) Validate(raw string) error {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '+' || r == ',' })
	if len(parts) == 0 {
		return fmt.Errorf("argument %q is not a term id", raw)
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err != nil {
			return fmt.Errorf("argument %q is not a term id", raw)
		}
	}
	return nil
}

// Depth returns the current depth option.
func (d *Depth) Depth() int {
	v, ok := d.Option(OptionDepth)
	if !ok || v.IsNull() || !v.Type().Equals(cty.Number) {
		return 0
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

// DepthModifier is an argument whose value sets the depth of the depth
// arguments declared before it.
type DepthModifier struct {
	handler.Base
}

var (
	_ handler.Argument   = (*DepthModifier)(nil)
	_ handler.PreQuerier = (*DepthModifier)(nil)
)

// NewDepthModifier builds a DepthModifier handler.
func NewDepthModifier(cfg handler.Config) (handler.Handler, error) {
	return &DepthModifier{Base: handler.NewBase(cfg)}, nil
}

// Validate accepts any number; out of range values are clamped later.
func (m *DepthModifier) Validate(raw string) error {
	if _, ok := parseDepth(raw); !ok {
		return fmt.Errorf("depth %q is not numeric", raw)
	}
	return nil
}

// PreQuery reads the modifier's own positional argument, clamps it to
// [-10, 10] and sets it as the depth of every preceding argument handler
// whose definition accepts a depth modifier. Non-numeric arguments leave
// everything untouched.
func (m *DepthModifier) PreQuery(ctx context.Context, v *handler.View) {
	pos := v.Position(m)
	if pos < 0 {
		return
	}
	raw, ok := v.Arg(pos)
	if !ok {
		return
	}
	depth, ok := parseDepth(raw)
	if !ok {
		return
	}
	depth = math.Max(-maxDepth, math.Min(maxDepth, depth))

	logger := ctxlog.FromContext(ctx)
	for i := pos - 1; i >= 0; i-- {
		o, ok := v.Arguments[i].(handler.Optioner)
		if !ok || !acceptsDepthModifier(o) {
			continue
		}
		o.SetOption(OptionDepth, depthValue(depth))
		logger.Debug("Set term depth from modifier.", "plugin", o.PluginID(), "depth", depth)
	}
}

func acceptsDepthModifier(o handler.Optioner) bool {
	def := o.Definition().Merge(o.PluginDefinition())
	v, ok := def.Get(definition.KeyAcceptDepthModifier)
	return ok && !definition.IsEmpty(v)
}

func parseDepth(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func depthValue(f float64) cty.Value {
	if f == math.Trunc(f) {
		return cty.NumberIntVal(int64(f))
	}
	return cty.NumberFloatVal(f)
}
