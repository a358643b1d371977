// Package cache defines the tagged key/value contract the discovery cache
// persists plugin definitions through.
package cache

import (
	"context"
	"time"
)

// Entry is a single cached value.
type Entry struct {
	Key     string
	Data    any
	Tags    []string
	Created time.Time
	// Expires is zero for entries that never expire.
	Expires time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.Expires.IsZero() && !now.Before(e.Expires)
}

// TagInvalidator drops every entry carrying any of the given tags.
type TagInvalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Backend is a tagged cache. Implementations must be safe for concurrent
// use. A write to an existing key replaces it, so concurrent writers of the
// same key resolve as last writer wins.
type Backend interface {
	TagInvalidator
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, data any, tags ...string) error
	Delete(ctx context.Context, keys ...string) error
}

// PatternInvalidator is implemented by backends that can invalidate every
// tag matching a glob pattern.
type PatternInvalidator interface {
	InvalidateMatching(ctx context.Context, pattern string) (int, error)
}
