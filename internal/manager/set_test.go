package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/inmemorycache"
	"github.com/specialistvlad/handlergrid/internal/registry"
	"github.com/specialistvlad/handlergrid/internal/testutil"
)

func TestSet(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	h := hooks.New()
	registry.Install(reg, h, coreModule(true))
	backend := inmemorycache.New()

	s, err := NewSet(Options{Registry: reg, Data: loadStore(t, testutil.UsersManifest), Cache: backend, Hooks: h})
	require.NoError(t, err)

	assert.Equal(t, definition.Categories(), s.Categories())

	filters, err := s.Get(definition.CategoryFilter)
	require.NoError(t, err)
	assert.Equal(t, definition.CategoryFilter, filters.Category())
	_, err = filters.Definitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"plugin_definitions", "plugins:filter"}, backend.Tags())

	require.NoError(t, s.ClearCachedDefinitions(ctx))
	assert.Empty(t, backend.Tags())
}

func TestNewSet_Subset(t *testing.T) {
	reg := registry.New()

	s, err := NewSet(Options{Registry: reg, Data: loadStore(t, ""), Cache: inmemorycache.New()},
		definition.CategorySort, definition.CategorySort, definition.CategoryFilter)
	require.NoError(t, err)

	assert.Equal(t, []definition.Category{definition.CategorySort, definition.CategoryFilter}, s.Categories())
	_, err = s.Get(definition.CategoryArea)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no manager for handler category "area"`)
}

func TestNewSet_PropagatesErrors(t *testing.T) {
	_, err := NewSet(Options{}, definition.CategoryFilter)
	require.Error(t, err)

	_, err = NewSet(Options{Registry: registry.New(), Data: loadStore(t, ""), Cache: inmemorycache.New()}, "widget")
	require.Error(t, err)
}
