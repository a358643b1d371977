package handler

import (
	"github.com/zclconf/go-cty/cty"
)

// Filter is implemented by filter handlers.
type Filter interface {
	Handler
	Operators() []string
	// Accept checks that value can be compared with op.
	Accept(op, value string) error
}

// Argument is implemented by argument handlers.
type Argument interface {
	Handler
	// Validate checks a raw positional argument.
	Validate(raw string) error
}

// Field is implemented by field handlers.
type Field interface {
	Handler
	Render(v cty.Value) (string, error)
}

// Sort is implemented by sort handlers.
type Sort interface {
	Handler
	// Order returns "ASC" or "DESC".
	Order() string
}
