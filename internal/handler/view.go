package handler

import (
	"context"
)

// View is the execution state pre-query hooks see: the argument handlers in
// declaration order and the positional argument values.
type View struct {
	Arguments []Handler
	Args      []string
}

// PreQuerier is implemented by handlers that adjust other handlers before a
// query is built.
type PreQuerier interface {
	PreQuery(ctx context.Context, v *View)
}

// Position returns the index of h among the view's arguments, or -1.
func (v *View) Position(h Handler) int {
	for i, a := range v.Arguments {
		if a == h {
			return i
		}
	}
	return -1
}

// Arg returns the positional argument at i.
func (v *View) Arg(i int) (string, bool) {
	if i < 0 || i >= len(v.Args) {
		return "", false
	}
	return v.Args[i], true
}

// PreQuery runs PreQuery on every argument handler that implements it, in
// declaration order.
func (v *View) PreQuery(ctx context.Context) {
	for _, a := range v.Arguments {
		if pq, ok := a.(PreQuerier); ok {
			pq.PreQuery(ctx, v)
		}
	}
}
