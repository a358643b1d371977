package taxonomy

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

func newArgument(t testing.TB, id string, configuration definition.Definition) handler.Handler {
	t.Helper()
	r := registry.New()
	registry.Install(r, hooks.New(), &Module{})
	p, ok := r.Lookup(definition.CategoryArgument, id)
	require.True(t, ok)
	h, err := p.New(handler.Config{
		Category:         definition.CategoryArgument,
		PluginID:         id,
		PluginDefinition: p.Definition,
		Configuration:    configuration,
	})
	require.NoError(t, err)
	return h
}

func plainArgument(accepts bool) *handler.Base {
	cfg := definition.Strings(map[string]string{"id": "numeric"})
	if accepts {
		cfg = cfg.With(definition.KeyAcceptDepthModifier, cty.True)
	}
	b := handler.NewBase(handler.Config{Category: definition.CategoryArgument, PluginID: "numeric", Configuration: cfg})
	return &b
}

func TestDepthModifier_PreQuery(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "in range", args: []string{"7", "3"}, expected: 3},
		{name: "clamped high", args: []string{"7", "25"}, expected: 10},
		{name: "clamped low", args: []string{"7", "-42"}, expected: -10},
		{name: "non numeric is ignored", args: []string{"7", "all"}, expected: 0},
		{name: "missing argument is ignored", args: []string{"7"}, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			depth := newArgument(t, DepthPluginID, definition.Definition{}).(*Depth)
			modifier := newArgument(t, DepthModifierPluginID, definition.Definition{})
			v := &handler.View{Arguments: []handler.Handler{depth, modifier}, Args: tc.args}

			// Act
			v.PreQuery(context.Background())

			// Assert
			assert.Equal(t, tc.expected, depth.Depth())
		})
	}
}

func TestDepthModifier_OnlyPrecedingAcceptingHandlers(t *testing.T) {
	before := plainArgument(true)
	refusing := plainArgument(false)
	modifier := newArgument(t, DepthModifierPluginID, definition.Definition{})
	after := plainArgument(true)
	v := &handler.View{
		Arguments: []handler.Handler{before, refusing, modifier, after},
		Args:      []string{"1", "2", "4", "5"},
	}

	v.PreQuery(context.Background())

	got, ok := before.Option(OptionDepth)
	require.True(t, ok)
	assert.True(t, got.RawEquals(cty.NumberIntVal(4)))
	_, ok = refusing.Option(OptionDepth)
	assert.False(t, ok)
	_, ok = after.Option(OptionDepth)
	assert.False(t, ok, "handlers after the modifier are untouched")
}

func TestDepthModifier_FractionalDepth(t *testing.T) {
	target := plainArgument(true)
	modifier := newArgument(t, DepthModifierPluginID, definition.Definition{})
	v := &handler.View{Arguments: []handler.Handler{target, modifier}, Args: []string{"1", "2.5"}}

	v.PreQuery(context.Background())

	got, _ := target.Option(OptionDepth)
	assert.True(t, got.RawEquals(cty.NumberFloatVal(2.5)))
}

func TestDepthModifier_ClampProperty(t *testing.T) {
	modifier := newArgument(t, DepthModifierPluginID, definition.Definition{})

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-1000, 1000).Draw(t, "depth")
		target := plainArgument(true)
		v := &handler.View{Arguments: []handler.Handler{target, modifier}, Args: []string{"1", strconv.Itoa(n)}}

		v.PreQuery(context.Background())

		got, ok := target.Option(OptionDepth)
		if !ok {
			t.Fatalf("depth was not set for %d", n)
		}
		want := n
		if want > 10 {
			want = 10
		}
		if want < -10 {
			want = -10
		}
		if !got.RawEquals(cty.NumberIntVal(int64(want))) {
			t.Fatalf("depth for %d = %s, want %d", n, got.GoString(), want)
		}
	})
}

func TestDepth_Validate(t *testing.T) {
	d := newArgument(t, DepthPluginID, definition.Definition{}).(handler.Argument)

	assert.NoError(t, d.Validate("1+2"))
	assert.Error(t, d.Validate("-1"))
	assert.Error(t, d.Validate(""))

	m := newArgument(t, DepthModifierPluginID, definition.Definition{}).(handler.Argument)
	assert.NoError(t, m.Validate("-3"))
	assert.Error(t, m.Validate("deep"))
}
