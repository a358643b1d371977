package definition

import (
	"fmt"
	"strings"
)

// Category is a named partition of handler types, e.g. "filter" or "join".
type Category string

const (
	CategoryField        Category = "field"
	CategoryArgument     Category = "argument"
	CategorySort         Category = "sort"
	CategoryFilter       Category = "filter"
	CategoryRelationship Category = "relationship"
	CategoryHeader       Category = "header"
	CategoryFooter       Category = "footer"
	CategoryEmpty        Category = "empty"
	CategoryArea         Category = "area"
	CategoryJoin         Category = "join"
)

var categories = []Category{
	CategoryField,
	CategoryArgument,
	CategorySort,
	CategoryFilter,
	CategoryRelationship,
	CategoryHeader,
	CategoryFooter,
	CategoryEmpty,
	CategoryArea,
	CategoryJoin,
}

// Categories returns every known category in a stable order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts user input into a known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown handler category %q", s)
	}
	return c, nil
}
