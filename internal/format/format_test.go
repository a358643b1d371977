package format_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/handlergrid/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("ID", "Provider")
	tb.Row("numeric", "standard")
	tb.Row("broken", "broken")
	out := tb.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "numeric")
	assert.Contains(t, out, "───", "expected box-drawing characters")
	assert.Equal(t, 2, tb.Len())
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Table", "Fields")
	tb.Row("users", 2)
	tb.Footer("TOTAL", 2)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	assert.Contains(t, out, "| Table")
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "TOTAL")
}

func TestParseOutput(t *testing.T) {
	o, err := format.ParseOutput(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, format.OutputJSON, o)
	assert.True(t, o.Structured())
	assert.False(t, format.OutputMarkdown.Structured())
	assert.Equal(t, format.Markdown, format.OutputMarkdown.Mode())

	_, err = format.ParseOutput("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output "xml"`)
}

func TestEncode(t *testing.T) {
	v := map[string]any{"id": "numeric", "tags": []string{"plugins:filter"}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, format.Encode(&buf, format.OutputJSON, v))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "numeric", got["id"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, format.Encode(&buf, format.OutputYAML, v))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "numeric", got["id"])
	})

	t.Run("table is not structured", func(t *testing.T) {
		err := format.Encode(&bytes.Buffer{}, format.OutputTable, v)
		require.Error(t, err)
	})
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	err := format.Print(&buf, format.OutputTable, nil, func(tb format.TableBuilder) {
		tb.Header("Category", "Plugin")
		tb.Row("filter", "numeric")
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "numeric")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestStyles(t *testing.T) {
	assert.Contains(t, format.Status(false), "OK")
	assert.Contains(t, format.Status(true), "BROKEN")
	assert.Equal(t, "x", format.OrDash("x"))
	assert.Contains(t, format.OrDash(""), "-")
	assert.Equal(t, "✓", format.BoolMark(true))
	assert.Equal(t, "✗", format.BoolMark(false))
	assert.Contains(t, format.Title("Users"), "Users")
}
