package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/format"
)

func newDefinitionsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "definitions [CATEGORY...]",
		Short: "List the discovered plugin definitions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := make([]definition.Category, 0, len(args))
			for _, arg := range args {
				c, err := definition.ParseCategory(arg)
				if err != nil {
					return usageError(err)
				}
				categories = append(categories, c)
			}

			out, err := o.outputFormat()
			if err != nil {
				return err
			}
			a, err := o.newApp(nil)
			if err != nil {
				return err
			}
			defs, err := a.Definitions(cmd.Context(), categories...)
			if err != nil {
				return err
			}

			return format.Print(cmd.OutOrStdout(), out, defs, func(tb format.TableBuilder) {
				tb.Header("Category", "Plugin", "Provider", "Title", "Aggregatable")
				for _, c := range sortedCategories(defs) {
					ids := make([]string, 0, len(defs[c]))
					for id := range defs[c] {
						ids = append(ids, id)
					}
					sort.Strings(ids)
					for _, id := range ids {
						d := defs[c][id]
						tb.Row(string(c), id, format.OrDash(d.String(definition.KeyProvider)),
							format.OrDash(d.String(definition.KeyTitle)), format.BoolMark(d.Bool(definition.KeyAggregatable)))
					}
				}
				tb.Footer("", "", "", "TOTAL", tb.Len())
			})
		},
	}
}

// sortedCategories returns the map's categories in their canonical order.
func sortedCategories[V any](m map[definition.Category]V) []definition.Category {
	out := make([]definition.Category, 0, len(m))
	for _, c := range definition.Categories() {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
