package handler

import (
	"github.com/specialistvlad/handlergrid/internal/definition"
)

// BrokenLabel is the admin label every broken handler reports.
const BrokenLabel = "Broken/missing handler"

// Broken stands in for a handler that is missing or could not be built.
type Broken struct {
	Base
	original    definition.LookupItem
	hasOriginal bool
}

var _ Handler = (*Broken)(nil)

// NewBroken creates a broken handler. When cfg.Configuration carries an
// original configuration, the lookup item it encodes is kept.
func NewBroken(cfg Config) *Broken {
	if cfg.PluginID == "" {
		cfg.PluginID = definition.BrokenPluginID
	}
	b := &Broken{Base: NewBase(cfg)}
	if v, ok := cfg.Configuration.Get(definition.KeyOriginalConfiguration); ok {
		b.original, b.hasOriginal = definition.LookupItemFromValue(v)
	}
	return b
}

func (b *Broken) Broken() bool { return true }

// AdminLabel implements the label lookup of Base.
func (b *Broken) AdminLabel() string { return BrokenLabel }

// OriginalConfiguration returns the lookup item that could not be resolved.
// It is only present on handlers built by the universal fallback.
func (b *Broken) OriginalConfiguration() (definition.LookupItem, bool) {
	return b.original, b.hasOriginal
}

// AsBroken returns h as a *Broken when it is one.
func AsBroken(h Handler) (*Broken, bool) {
	b, ok := h.(*Broken)
	return b, ok
}

// IsBroken reports whether h is missing or broken.
func IsBroken(h Handler) bool {
	return h == nil || h.Broken()
}
