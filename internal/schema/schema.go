// Package schema declares the HCL block structure of handler manifests.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Manifest is the top-level structure of a manifest file.
type Manifest struct {
	Tables []*Table `hcl:"table,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Table represents a `table` block. Its attributes are the table-level
// metadata; everything else lives in its `field` blocks.
type Table struct {
	Name   string   `hcl:"name,label"`
	Fields []*Field `hcl:"field,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Field represents a `field` block inside a table.
type Field struct {
	Name     string     `hcl:"name,label"`
	Handlers []*Handler `hcl:"handler,block"`
	Remain   hcl.Body   `hcl:",remain"`
}

// Handler represents a `handler "<category>"` block. Its attributes form the
// raw handler definition.
type Handler struct {
	Category string   `hcl:"category,label"`
	Remain   hcl.Body `hcl:",remain"`
}
