package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
)

// Validate checks every handler declared in the data store against the
// registered plugins and returns one message per declaration whose plugin is
// not registered. Such declarations still resolve, to the broken handler, so
// the result is advisory.
func (r *Registry) Validate(ctx context.Context, p datastore.Provider) []string {
	var problems []string
	logger := ctxlog.FromContext(ctx)

	tables := p.All()
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, tn := range names {
		t := tables[tn]
		for _, fn := range t.FieldNames() {
			f := t.Fields[fn]
			for c, def := range f.Handlers {
				if _, ok := r.Lookup(c, def.ID()); !ok {
					problems = append(problems, fmt.Sprintf("%s.%s: %s handler '%s' is not registered", tn, fn, c, def.ID()))
				}
			}
		}
	}

	sort.Strings(problems)
	logger.Debug("Registry validation complete.", "problems", len(problems))
	return problems
}
