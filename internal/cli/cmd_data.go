package cli

import (
	"github.com/spf13/cobra"

	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/format"
)

type fieldView struct {
	Name       string                                       `json:"name" yaml:"name"`
	Attributes definition.Definition                        `json:"attributes" yaml:"attributes"`
	Handlers   map[definition.Category]definition.Definition `json:"handlers" yaml:"handlers"`
}

type tableView struct {
	Name       string                `json:"name" yaml:"name"`
	Attributes definition.Definition `json:"attributes" yaml:"attributes"`
	Fields     []fieldView           `json:"fields" yaml:"fields"`
}

func newDataCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "data [TABLE...]",
		Short: "Show the field metadata loaded from the manifests",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := o.outputFormat()
			if err != nil {
				return err
			}
			a, err := o.newApp(nil)
			if err != nil {
				return err
			}
			tables, err := a.Tables(args...)
			if err != nil {
				return usageError(err)
			}

			views := tableViews(tables)
			return format.Print(cmd.OutOrStdout(), out, views, func(tb format.TableBuilder) {
				tb.Header("Table", "Field", "Category", "Plugin", "Title")
				for _, t := range views {
					for _, f := range t.Fields {
						for _, c := range sortedCategories(f.Handlers) {
							tb.Row(t.Name, f.Name, string(c), f.Handlers[c].ID(), format.OrDash(f.Attributes.String(definition.KeyTitle)))
						}
					}
				}
			})
		},
	}
}

func tableViews(tables []*datastore.Table) []tableView {
	views := make([]tableView, 0, len(tables))
	for _, t := range tables {
		tv := tableView{Name: t.Name, Attributes: t.Attributes}
		for _, name := range t.FieldNames() {
			f := t.Fields[name]
			tv.Fields = append(tv.Fields, fieldView{Name: f.Name, Attributes: f.Attributes, Handlers: f.Handlers})
		}
		views = append(views, tv)
	}
	return views
}
