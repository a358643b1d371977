package hcl

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/handlergrid/internal/ctxlog"
	"github.com/specialistvlad/handlergrid/internal/datastore"
	"github.com/specialistvlad/handlergrid/internal/definition"
	"github.com/specialistvlad/handlergrid/internal/fsutil"
	"github.com/specialistvlad/handlergrid/internal/schema"
)

// Loader is the HCL implementation of datastore.Loader.
type Loader struct{}

var _ datastore.Loader = (*Loader)(nil)

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges the declared
// tables into a single store. Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*datastore.Store, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, missing, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	for _, m := range missing {
		logger.Warn("Manifest path does not exist, skipping.", "path", m)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	store := datastore.NewStore()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.loadBody(ctx, store, file, hclFile.Body); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "tables", len(store.TableNames()))
	return store, nil
}

// LoadSource parses a single manifest held in memory.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*datastore.Store, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	store := datastore.NewStore()
	if err := l.loadBody(ctx, store, filename, hclFile.Body); err != nil {
		return nil, err
	}
	return store, nil
}

func (l *Loader) loadBody(ctx context.Context, store *datastore.Store, file string, body hcl.Body) error {
	var root schema.Manifest
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	for _, t := range root.Tables {
		table, err := l.translateTable(t)
		if err != nil {
			return fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
		if err := store.AddTable(table); err != nil {
			return fmt.Errorf("failed to merge HCL file %s: %w", file, err)
		}
		ctxlog.FromContext(ctx).Debug("Loaded table.", "table", table.Name, "fields", len(table.Fields), "file", file)
	}
	return nil
}

func (l *Loader) translateTable(s *schema.Table) (*datastore.Table, error) {
	attrs, err := decodeAttributes(s.Remain, "field")
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", s.Name, err)
	}

	table := &datastore.Table{
		Name:       s.Name,
		Attributes: attrs,
		Fields:     make(map[string]*datastore.Field, len(s.Fields)),
	}
	for _, f := range s.Fields {
		if _, dup := table.Fields[f.Name]; dup {
			return nil, fmt.Errorf("field %q declared more than once in table %q", f.Name, s.Name)
		}
		field, err := l.translateField(s.Name, f)
		if err != nil {
			return nil, err
		}
		table.Fields[f.Name] = field
	}
	return table, nil
}

func (l *Loader) translateField(table string, s *schema.Field) (*datastore.Field, error) {
	attrs, err := decodeAttributes(s.Remain, "handler")
	if err != nil {
		return nil, fmt.Errorf("field %s.%s: %w", table, s.Name, err)
	}

	field := &datastore.Field{
		Name:       s.Name,
		Attributes: attrs,
		Handlers:   make(map[definition.Category]definition.Definition, len(s.Handlers)),
	}
	for _, h := range s.Handlers {
		category, err := definition.ParseCategory(h.Category)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", table, s.Name, err)
		}
		if _, dup := field.Handlers[category]; dup {
			return nil, fmt.Errorf("field %s.%s: handler %q declared more than once", table, s.Name, category)
		}

		def, err := decodeAttributes(h.Remain)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s handler %q: %w", table, s.Name, category, err)
		}
		if def.ID() == "" {
			return nil, fmt.Errorf("field %s.%s handler %q: missing required attribute %q", table, s.Name, category, definition.KeyID)
		}
		field.Handlers[category] = def
	}
	return field, nil
}

// decodeAttributes evaluates every attribute in body as a literal and returns
// them as a definition with normalized keys. Nested blocks of the given types
// were already decoded through the schema and are skipped; any other block is
// an error.
func decodeAttributes(body hcl.Body, blockTypes ...string) (definition.Definition, error) {
	if body == nil {
		return definition.Definition{}, nil
	}

	var exprs map[string]hcl.Expression
	if sb, ok := body.(*hclsyntax.Body); ok {
		// JustAttributes rejects the nested blocks, so read the
		// attributes off the syntax tree.
		for _, b := range sb.Blocks {
			if !slices.Contains(blockTypes, b.Type) {
				return definition.Definition{}, fmt.Errorf("%s: unexpected %q block", b.TypeRange, b.Type)
			}
		}
		exprs = make(map[string]hcl.Expression, len(sb.Attributes))
		for name, attr := range sb.Attributes {
			exprs[name] = attr.Expr
		}
	} else {
		attrs, diags := body.JustAttributes()
		if diags.HasErrors() {
			return definition.Definition{}, diags
		}
		exprs = make(map[string]hcl.Expression, len(attrs))
		for name, attr := range attrs {
			exprs[name] = attr.Expr
		}
	}

	values := make(map[string]cty.Value, len(exprs))
	for name, expr := range exprs {
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return definition.Definition{}, diags
		}
		values[normalizeKey(name)] = v
	}
	return definition.New(values), nil
}
