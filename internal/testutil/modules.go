package testutil

import (
	"errors"
	"sync/atomic"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/handler"
	"github.com/specialistvlad/handlergrid/internal/hooks"
	"github.com/specialistvlad/handlergrid/internal/registry"
)

// ErrConstruct is returned by FailingHandler.
var ErrConstruct = errors.New("test constructor failure")

// SimpleModule is a test helper for easily creating a mock module that
// registers a fixed set of plugins and alter hooks.
type SimpleModule struct {
	ModuleName string
	Plugins    []*registry.Plugin
	Alters     map[string]hooks.AlterFunc
}

// Name implements the registry.Module interface.
func (m *SimpleModule) Name() string { return m.ModuleName }

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for _, p := range m.Plugins {
		r.Register(p)
	}
}

// RegisterHooks implements the registry.HookProvider interface.
func (m *SimpleModule) RegisterHooks(h *hooks.ModuleHandler) {
	for hook, fn := range m.Alters {
		h.RegisterAlter(m.ModuleName, hook, fn)
	}
}

// Plugin is shorthand for a plugin with an empty definition.
func Plugin(c definition.Category, id string, ctor registry.Constructor) *registry.Plugin {
	return &registry.Plugin{ID: id, Category: c, New: ctor}
}

// NewHandler builds a plain, working handler.
func NewHandler(cfg handler.Config) (handler.Handler, error) {
	b := handler.NewBase(cfg)
	return &b, nil
}

// NewBrokenHandler builds a broken handler without failing.
func NewBrokenHandler(cfg handler.Config) (handler.Handler, error) {
	return handler.NewBroken(cfg), nil
}

// FailingHandler always fails with ErrConstruct.
func FailingHandler(handler.Config) (handler.Handler, error) {
	return nil, ErrConstruct
}

// Counter wraps a constructor and counts how often it ran.
type Counter struct {
	n atomic.Int64
}

// Wrap returns ctor instrumented with the counter.
func (c *Counter) Wrap(ctor registry.Constructor) registry.Constructor {
	return func(cfg handler.Config) (handler.Handler, error) {
		c.n.Add(1)
		return ctor(cfg)
	}
}

// Count returns the number of constructions so far.
func (c *Counter) Count() int64 { return c.n.Load() }
