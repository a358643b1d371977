package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/handlergrid/internal/app"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/format"
)

type resolveFlags struct {
	plugin    string
	override  string
	aggregate string
}

func newResolveCommand(o *options) *cobra.Command {
	var flags resolveFlags
	cmd := &cobra.Command{
		Use:   "resolve CATEGORY [TABLE.]FIELD",
		Short: "Resolve the handler of a field for a handler category",
		Long: `Resolve the handler of a field. Without a table every table is searched
in name order. The override plugin is tried first, then the requested
plugin, then the plugin the field declares.`,
		Example: `  handlergrid resolve filter users.uid -m manifests/
  handlergrid resolve sort users.uid --aggregate sum -m manifests/ -o json`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, o, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.plugin, "plugin", "", "Plugin id requested by the lookup item.")
	f.StringVar(&flags.override, "override", "", "Plugin id tried before anything else.")
	f.StringVar(&flags.aggregate, "aggregate", "", "Aggregation function; selects the aggregate handler.")
	return cmd
}

func runResolve(cmd *cobra.Command, o *options, flags resolveFlags, args []string) error {
	c, err := definition.ParseCategory(args[0])
	if err != nil {
		return usageError(err)
	}
	item, err := parseItem(args[1])
	if err != nil {
		return usageError(err)
	}
	item.PluginID = flags.plugin

	out, err := o.outputFormat()
	if err != nil {
		return err
	}
	a, err := o.newApp(nil)
	if err != nil {
		return err
	}

	res, err := a.Resolve(cmd.Context(), app.ResolveRequest{
		Category:  c,
		Item:      item,
		Override:  flags.override,
		Aggregate: flags.aggregate,
	})
	if err != nil {
		return err
	}

	return format.Print(cmd.OutOrStdout(), out, res, func(tb format.TableBuilder) {
		tb.Header("Property", "Value")
		tb.Row("Category", string(res.Category))
		tb.Row("Item", res.Item.String())
		tb.Row("Plugin", res.PluginID)
		tb.Row("Status", format.Status(res.Broken))
		tb.Row("Label", format.OrDash(res.Label))
		if res.Override != "" {
			tb.Row("Override", res.Override)
		}
		if res.Function != "" {
			tb.Row("Function", res.Function)
		}
		if res.OriginalConfiguration != nil {
			tb.Row("Original", res.OriginalConfiguration.String())
		}
		for _, k := range res.Definition.Keys() {
			if k == definition.KeyOriginalConfiguration {
				continue
			}
			tb.Row(format.Muted(k), attributeString(res.Definition, k))
		}
	})
}

// parseItem parses "table.field" or a bare "field".
func parseItem(s string) (definition.LookupItem, error) {
	table, field, ok := strings.Cut(s, ".")
	if !ok {
		table, field = "", s
	}
	if field == "" || strings.Contains(field, ".") {
		return definition.LookupItem{}, fmt.Errorf("invalid field %q: expected TABLE.FIELD or FIELD", s)
	}
	return definition.LookupItem{Table: table, Field: field}, nil
}

// attributeString renders one definition attribute for a table cell.
func attributeString(d definition.Definition, key string) string {
	v, ok := d.Get(key)
	if !ok || v.IsNull() {
		return format.Muted("null")
	}
	if s := d.String(key); s != "" {
		return s
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return format.Muted("?")
	}
	return string(raw)
}
