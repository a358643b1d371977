package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/handlergrid/internal/definition"
)

// Set holds one manager per category.
type Set struct {
	order    []definition.Category
	managers map[definition.Category]*Manager
}

// NewSet creates managers for the given categories, or for every known
// category when none are given.
func NewSet(opts Options, categories ...definition.Category) (*Set, error) {
	if len(categories) == 0 {
		categories = definition.Categories()
	}

	s := &Set{managers: make(map[definition.Category]*Manager, len(categories))}
	for _, c := range categories {
		if _, dup := s.managers[c]; dup {
			continue
		}
		m, err := New(c, opts)
		if err != nil {
			return nil, err
		}
		s.managers[c] = m
		s.order = append(s.order, c)
	}
	return s, nil
}

// Get returns the manager of a category.
func (s *Set) Get(c definition.Category) (*Manager, error) {
	m, ok := s.managers[c]
	if !ok {
		return nil, fmt.Errorf("no manager for handler category %q", string(c))
	}
	return m, nil
}

// Categories returns the managed categories in creation order.
func (s *Set) Categories() []definition.Category {
	return append([]definition.Category(nil), s.order...)
}

// ClearCachedDefinitions clears the cached definitions of every category.
func (s *Set) ClearCachedDefinitions(ctx context.Context) error {
	var errs []error
	for _, c := range s.order {
		if err := s.managers[c].ClearCachedDefinitions(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
