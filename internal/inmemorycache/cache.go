package inmemorycache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/specialistvlad/handlergrid/internal/cache"
)

// Option configures a Backend.
type Option func(*Backend)

// WithTTL makes every entry expire d after it was written. Zero disables
// expiry.
func WithTTL(d time.Duration) Option {
	return func(b *Backend) { b.ttl = d }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// Backend is the in-memory cache.Backend.
type Backend struct {
	mu      sync.RWMutex
	entries map[string]*cache.Entry
	tags    map[string]map[string]struct{} // tag -> keys
	ttl     time.Duration
	now     func() time.Time
}

var (
	_ cache.Backend            = (*Backend)(nil)
	_ cache.PatternInvalidator = (*Backend)(nil)
)

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		entries: make(map[string]*cache.Entry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns a copy of the entry stored under key. Expired entries are
// reported as missing.
func (b *Backend) Get(ctx context.Context, key string) (*cache.Entry, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[key]
	if !ok || e.Expired(b.now()) {
		return nil, false, nil
	}

	cp := *e
	cp.Tags = append([]string(nil), e.Tags...)
	return &cp, true, nil
}

// Set stores data under key, replacing any previous entry and its tags.
func (b *Backend) Set(ctx context.Context, key string, data any, tags ...string) error {
	now := b.now()
	e := &cache.Entry{
		Key:     key,
		Data:    data,
		Tags:    append([]string(nil), tags...),
		Created: now,
	}
	if b.ttl > 0 {
		e.Expires = now.Add(b.ttl)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.removeLocked(key)
	b.entries[key] = e
	for _, tag := range tags {
		keys, ok := b.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			b.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// Delete removes the given keys. Unknown keys are ignored.
func (b *Backend) Delete(ctx context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, key := range keys {
		b.removeLocked(key)
	}
	return nil
}

// InvalidateTags removes every entry carrying any of the tags.
func (b *Backend) InvalidateTags(ctx context.Context, tags ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, tag := range tags {
		b.invalidateTagLocked(tag)
	}
	return nil
}

// InvalidateMatching invalidates every known tag matching the glob pattern
// and returns how many tags matched.
func (b *Backend) InvalidateMatching(ctx context.Context, pattern string) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []string
	for tag := range b.tags {
		if g.Match(tag) {
			matched = append(matched, tag)
		}
	}
	for _, tag := range matched {
		b.invalidateTagLocked(tag)
	}
	return len(matched), nil
}

// Tags returns every tag that currently indexes at least one entry, sorted.
func (b *Backend) Tags() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.tags))
	for tag := range b.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored entries, expired ones included.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *Backend) invalidateTagLocked(tag string) {
	for key := range b.tags[tag] {
		b.removeLocked(key)
	}
	delete(b.tags, tag)
}

// removeLocked drops key and unindexes its tags. b.mu must be held.
func (b *Backend) removeLocked(key string) {
	e, ok := b.entries[key]
	if !ok {
		return
	}
	delete(b.entries, key)
	for _, tag := range e.Tags {
		keys := b.tags[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(b.tags, tag)
		}
	}
}
