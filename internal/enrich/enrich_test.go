package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"

	"github.com/specialistvlad/handlergrid/internal/definition"
)

func TestDefinition(t *testing.T) {
	testCases := []struct {
		name     string
		def      map[string]string
		field    map[string]string
		table    map[string]string
		expected map[string]string
	}{
		{
			name:     "field level wins over table level",
			def:      map[string]string{"id": "numeric"},
			field:    map[string]string{"title": "User ID"},
			table:    map[string]string{"title": "Users", "group": "User"},
			expected: map[string]string{"id": "numeric", "title": "User ID", "group": "User"},
		},
		{
			name:     "existing attributes are never overwritten",
			def:      map[string]string{"id": "numeric", "help": "Own help"},
			field:    map[string]string{"help": "Field help"},
			table:    map[string]string{"help": "Table help"},
			expected: map[string]string{"id": "numeric", "help": "Own help"},
		},
		{
			name:     "table entity type is renamed",
			def:      map[string]string{"id": "standard"},
			table:    map[string]string{"entity type": "user"},
			expected: map[string]string{"id": "standard", "entity_type": "user"},
		},
		{
			name:     "existing entity_type is not overwritten by the table",
			def:      map[string]string{"id": "numeric", "entity_type": "node"},
			table:    map[string]string{"entity type": "term"},
			expected: map[string]string{"id": "numeric", "entity_type": "node"},
		},
		{
			name:     "field entity type keeps its key",
			def:      map[string]string{"id": "standard"},
			field:    map[string]string{"entity type": "node"},
			table:    map[string]string{"entity type": "term"},
			expected: map[string]string{"id": "standard", "entity type": "node"},
		},
		{
			name:     "empty field values fall through to the table",
			def:      map[string]string{"id": "standard"},
			field:    map[string]string{"label": ""},
			table:    map[string]string{"label": "Table label"},
			expected: map[string]string{"id": "standard", "label": "Table label"},
		},
		{
			name:     "zero string field value falls through to the table",
			def:      map[string]string{"id": "standard"},
			field:    map[string]string{"group": "0"},
			table:    map[string]string{"group": "Users"},
			expected: map[string]string{"id": "standard", "group": "Users"},
		},
		{
			name:     "attributes outside the inherited set are ignored",
			def:      map[string]string{"id": "standard"},
			field:    map[string]string{"click sortable": "true"},
			table:    map[string]string{"base": "users"},
			expected: map[string]string{"id": "standard"},
		},
		{
			name:     "all mapping keys",
			def:      map[string]string{"id": "standard"},
			field:    map[string]string{"real field": "uid", "real table": "users_field_data", "entity field": "uid", "title short": "UID"},
			expected: map[string]string{"id": "standard", "real field": "uid", "real table": "users_field_data", "entity field": "uid", "title short": "UID"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Definition(
				definition.Strings(tc.def),
				definition.Strings(tc.field),
				definition.Strings(tc.table),
			)
			assert.True(t, definition.Strings(tc.expected).Equal(got), "got keys %v", got.Keys())
		})
	}
}

func TestDefinition_NullOnDefinitionIsFilled(t *testing.T) {
	def := definition.New(map[string]cty.Value{
		"id":    cty.StringVal("numeric"),
		"title": cty.NullVal(cty.String),
	})

	got := Definition(def, definition.Strings(map[string]string{"title": "User ID"}), definition.Definition{})

	assert.Equal(t, "User ID", got.String("title"))
}

func TestDefinition_DoesNotMutateInputs(t *testing.T) {
	def := definition.Strings(map[string]string{"id": "numeric"})
	field := definition.Strings(map[string]string{"title": "User ID"})

	_ = Definition(def, field, definition.Definition{})

	assert.False(t, def.Has("title"))
}

// attrs draws a random attribute map over the inherited keys, with a few
// empty values mixed in.
func attrs(t *rapid.T, label string) definition.Definition {
	keys := append([]string{"id", "extra", definition.KeyTableEntityType}, definition.InheritedKeys...)
	m := rapid.MapOf(
		rapid.SampledFrom(keys),
		rapid.SampledFrom([]string{"", "0", "node", "term", "User", "uid"}),
	).Draw(t, label)
	return definition.Strings(m)
}

func TestDefinition_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		def := attrs(t, "def")
		field := attrs(t, "field")
		table := attrs(t, "table")

		once := Definition(def, field, table)
		twice := Definition(once, field, table)

		if !once.Equal(twice) {
			t.Fatalf("enrichment is not idempotent: %v vs %v", once.Keys(), twice.Keys())
		}
	})
}

func TestDefinition_OnlyAdds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		def := attrs(t, "def")
		got := Definition(def, attrs(t, "field"), attrs(t, "table"))

		for _, k := range def.Keys() {
			want, _ := def.Get(k)
			have, ok := got.Get(k)
			if !ok || !want.RawEquals(have) {
				t.Fatalf("attribute %q was changed or removed", k)
			}
		}
	})
}

func TestDefinition_FieldEntityTypeShadowsTable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fieldType := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "fieldType")
		tableType := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "tableType")

		got := Definition(
			definition.Strings(map[string]string{"id": "standard"}),
			definition.Strings(map[string]string{"entity type": fieldType}),
			definition.Strings(map[string]string{"entity type": tableType}),
		)

		if got.String("entity type") != fieldType {
			t.Fatalf("expected field entity type %q, got %q", fieldType, got.String("entity type"))
		}
		if got.Has("entity_type") {
			t.Fatalf("table entity type must not be copied when the field declares one")
		}
	})
}
