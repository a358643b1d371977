package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/handlergrid/internal/cache"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/inmemorycache"
)

type countingDiscoverer struct {
	calls atomic.Int32
	defs  map[string]definition.Definition
}

func (d *countingDiscoverer) Discover(_ context.Context, _ definition.Category) (map[string]definition.Definition, error) {
	d.calls.Add(1)
	out := make(map[string]definition.Definition, len(d.defs))
	for k, v := range d.defs {
		out[k] = v
	}
	return out, nil
}

func filterDefs() map[string]definition.Definition {
	return map[string]definition.Definition{
		"numeric": definition.Strings(map[string]string{"id": "numeric", "title": "Numeric"}),
		"string":  definition.Strings(map[string]string{"title": "String"}),
		"custom":  definition.Strings(map[string]string{"id": "custom", "plugin_type": "special"}),
	}
}

func ids(defs map[string]definition.Definition) []string {
	out := []string{}
	for k := range defs {
		out = append(out, k)
	}
	return out
}

func TestCache_DefinitionsAppliesDefaults(t *testing.T) {
	d := &countingDiscoverer{defs: filterDefs()}
	c := New(definition.CategoryFilter, d, inmemorycache.New(), nil)

	defs, err := c.Definitions(context.Background())

	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "filter", defs["numeric"].String(definition.KeyPluginType))
	assert.Equal(t, "string", defs["string"].ID(), "missing ids are taken from the discovery key")
	assert.Equal(t, "special", defs["custom"].String(definition.KeyPluginType), "defaults never overwrite")
}

func TestCache_DropsDefinitionsWithoutID(t *testing.T) {
	d := &countingDiscoverer{defs: map[string]definition.Definition{
		"":        definition.Strings(map[string]string{"title": "Anonymous"}),
		"numeric": definition.Strings(map[string]string{"id": "numeric"}),
	}}
	c := New(definition.CategoryFilter, d, inmemorycache.New(), nil)

	defs, err := c.Definitions(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"numeric"}, ids(defs))
}

func TestCache_PopulatesOnceAndRunsAlterOnce(t *testing.T) {
	ctx := context.Background()
	d := &countingDiscoverer{defs: filterDefs()}
	h := hooks.New()
	var alters atomic.Int32
	h.RegisterAlter("aggregate", AlterHook(definition.CategoryFilter), func(_ context.Context, defs map[string]definition.Definition) {
		alters.Add(1)
		defs["numeric"] = defs["numeric"].WithString("altered", "yes")
		delete(defs, "custom")
	})
	backend := inmemorycache.New()
	c := New(definition.CategoryFilter, d, backend, h)

	first, err := c.Definitions(ctx)
	require.NoError(t, err)
	second, err := c.Definitions(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), d.calls.Load())
	assert.Equal(t, int32(1), alters.Load())
	assert.Equal(t, "yes", second["numeric"].String("altered"))
	assert.NotContains(t, second, "custom")
	assert.ElementsMatch(t, ids(first), ids(second))

	e, ok, err := backend.Get(ctx, "plugins:filter")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff([]string{"plugins:filter", "plugin_definitions"}, e.Tags); diff != "" {
		t.Errorf("cache tags mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_ReturnedMapIsCallerOwned(t *testing.T) {
	ctx := context.Background()
	c := New(definition.CategoryFilter, &countingDiscoverer{defs: filterDefs()}, inmemorycache.New(), nil)

	defs, err := c.Definitions(ctx)
	require.NoError(t, err)
	delete(defs, "numeric")

	_, ok, err := c.Definition(ctx, "numeric")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	d := &countingDiscoverer{defs: filterDefs()}
	backend := inmemorycache.New()
	filters := New(definition.CategoryFilter, d, backend, nil)
	sorts := New(definition.CategorySort, d, backend, nil)
	_, err := filters.Definitions(ctx)
	require.NoError(t, err)
	_, err = sorts.Definitions(ctx)
	require.NoError(t, err)

	require.NoError(t, filters.Clear(ctx))

	_, ok, _ := backend.Get(ctx, "plugins:filter")
	assert.False(t, ok)
	_, ok, _ = backend.Get(ctx, "plugins:sort")
	assert.True(t, ok, "clearing one category leaves the others cached")

	_, err = filters.Definitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(3), d.calls.Load())
}

func TestCache_IDs(t *testing.T) {
	c := New(definition.CategoryFilter, &countingDiscoverer{defs: filterDefs()}, inmemorycache.New(), nil)

	got, err := c.IDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"custom", "numeric", "string"}, got)
	assert.Equal(t, "plugins:filter", c.Key())
}

func TestCache_DiscoveryError(t *testing.T) {
	boom := errors.New("boom")
	c := New(definition.CategoryFilter, DiscovererFunc(func(context.Context, definition.Category) (map[string]definition.Definition, error) {
		return nil, boom
	}), inmemorycache.New(), nil)

	_, err := c.Definitions(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to discover filter plugins")
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) (*cache.Entry, bool, error) {
	return nil, false, errors.New("get failed")
}
func (failingBackend) Set(context.Context, string, any, ...string) error {
	return errors.New("set failed")
}
func (failingBackend) Delete(context.Context, ...string) error { return nil }
func (failingBackend) InvalidateTags(context.Context, ...string) error {
	return errors.New("invalidate failed")
}

func TestCache_BackendFailuresDegradeToDiscovery(t *testing.T) {
	d := &countingDiscoverer{defs: filterDefs()}
	c := New(definition.CategoryFilter, d, failingBackend{}, nil)

	defs, err := c.Definitions(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 3)

	err = c.Clear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalidate failed")
}

func TestCache_ConcurrentMissesDiscoverOnce(t *testing.T) {
	d := &countingDiscoverer{defs: filterDefs()}
	c := New(definition.CategoryFilter, d, inmemorycache.New(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defs, err := c.Definitions(context.Background())
			assert.NoError(t, err)
			assert.Len(t, defs, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), d.calls.Load())
}
