package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output is the output format selected on the command line.
type Output string

const (
	OutputTable    Output = "table"
	OutputMarkdown Output = "markdown"
	OutputJSON     Output = "json"
	OutputYAML     Output = "yaml"
)

// Outputs lists every supported output format.
func Outputs() []Output {
	return []Output{OutputTable, OutputMarkdown, OutputJSON, OutputYAML}
}

// ParseOutput parses an output format name, case-insensitively.
func ParseOutput(s string) (Output, error) {
	o := Output(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Outputs() {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid output %q: must be one of table, markdown, json, yaml", s)
}

// Structured reports whether the output is meant for machines.
func (o Output) Structured() bool {
	return o == OutputJSON || o == OutputYAML
}

// Mode returns the table mode of a human-readable output.
func (o Output) Mode() Mode {
	if o == OutputMarkdown {
		return Markdown
	}
	return ASCII
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, o Output, v any) error {
	switch o {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("output %q is not a structured format", string(o))
	}
}

// Print writes a structured output with Encode and a human-readable one by
// rendering the table built by fill.
func Print(w io.Writer, o Output, v any, fill func(TableBuilder)) error {
	if o.Structured() {
		return Encode(w, o, v)
	}
	tb := NewTable(o.Mode())
	fill(tb)
	_, err := fmt.Fprintln(w, tb.String())
	return err
}
