package schema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderedYAML = `
"7":
  question: "Ordering?"
  suggestions:
    - "Yes"
    - "Ye"
  next_questions:
    "Ye": "A"
    "Yes": "B"
  context: "fuzzy tie-break"
"A":
  question: "a"
"B":
  question: "b"
`

const orderedJSON = `{
  "7": {
    "question": "Ordering?",
    "suggestions": ["Yes", "Ye"],
    "next_questions": {"Ye": "A", "Yes": "B"},
    "context": "fuzzy tie-break"
  },
  "A": {"question": "a"},
  "B": {"question": "b"}
}`

func orderedTable() schema.Table {
	return schema.Table{Entries: []schema.Entry{
		{
			ID:          "7",
			Question:    "Ordering?",
			Suggestions: []string{"Yes", "Ye"},
			Routes:      []schema.Route{{Answer: "Ye", To: "A"}, {Answer: "Yes", To: "B"}},
			Context:     "fuzzy tie-break",
		},
		{ID: "A", Question: "a"},
		{ID: "B", Question: "b"},
	}}
}

func TestDecode_PreservesOrder(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format schema.Format
	}{
		{"yaml", orderedYAML, schema.FormatYAML},
		{"json", orderedJSON, schema.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := schema.Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, orderedTable(), table)
		})
	}
}

func TestRoundTrip_DefaultTable(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "flows", "default.yaml"))
	require.NoError(t, err)

	original, err := schema.DecodeYAML(data)
	require.NoError(t, err)
	require.NoError(t, schema.Validate(original))
	require.Greater(t, original.Len(), 80)

	t.Run("yaml", func(t *testing.T) {
		out, err := schema.EncodeYAML(original)
		require.NoError(t, err)
		again, err := schema.DecodeYAML(out)
		require.NoError(t, err)
		assert.Equal(t, original, again)
	})

	t.Run("json", func(t *testing.T) {
		out, err := schema.EncodeJSON(original)
		require.NoError(t, err)
		again, err := schema.DecodeJSON(out)
		require.NoError(t, err)
		assert.Equal(t, original, again)
	})

	t.Run("definition", func(t *testing.T) {
		def := original.Definition()
		assert.Equal(t, original, schema.FromDefinition(def))

		g, err := graph.Build(def)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultStartNodeID, g.StartID())
		assert.True(t, g.Has(domain.DefaultTerminalNodeID))
	})
}

func TestJSON_Escapes(t *testing.T) {
	table := schema.Table{Entries: []schema.Entry{{
		ID:          "1",
		Question:    "Heaven <and> hell & more\u2028next line\ttab \"quoted\"",
		Suggestions: []string{"Yes", "No"},
		Routes:      []schema.Route{{Answer: "No", To: "2b"}, {Answer: "Yes", To: "2"}},
	}}}

	out, err := schema.EncodeJSON(table)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(out), `"No": "2b"`), strings.Index(string(out), `"Yes": "2"`))

	again, err := schema.DecodeJSON(out)
	require.NoError(t, err)
	assert.Equal(t, table, again)
}

func TestDecodeJSON_HandWritten(t *testing.T) {
	// Tab indentation and a raw line separator inside a string.
	data := "{\n\t\"start\": {\n\t\t\"question\": \"Hi\u2028there\",\n\t\t\"next_questions\": {\"Go\": \"complete\"}\n\t},\n\t\"complete\": {\"question\": \"Bye\"}\n}\n"

	table, err := schema.DecodeJSON([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Hi\u2028there", table.Entries[0].Question)
	assert.Equal(t, []schema.Route{{Answer: "Go", To: "complete"}}, table.Entries[0].Routes)
	assert.Equal(t, "complete", table.Entries[1].ID)
}

func TestEncodeYAML_QuotesScalars(t *testing.T) {
	table := schema.Table{Entries: []schema.Entry{{
		ID:          "10",
		Question:    "Really?",
		Suggestions: []string{"No"},
		Routes:      []schema.Route{{Answer: "No", To: "11"}},
	}}}

	out, err := schema.EncodeYAML(table)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"10":`)
	assert.Contains(t, string(out), `"No": "11"`)

	again, err := schema.DecodeYAML(out)
	require.NoError(t, err)
	assert.Equal(t, table, again)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  schema.Format
		wantKey string
	}{
		{"yaml unknown field", "\"1\":\n  question: \"q\"\n  bogus: 1\n", schema.FormatYAML, "bogus"},
		{"yaml suggestions not a list", "\"1\":\n  question: \"q\"\n  suggestions: \"Yes\"\n", schema.FormatYAML, schema.KeySuggestions},
		{"yaml routes not a mapping", "\"1\":\n  question: \"q\"\n  next_questions:\n    - \"2\"\n", schema.FormatYAML, schema.KeyNextQuestions},
		{"json unknown field", `{"1": {"question": "q", "bogus": true}}`, schema.FormatJSON, "bogus"},
		{"yaml null question", "\"1\":\n  question: ~\n", schema.FormatYAML, schema.KeyQuestion},
		{"yaml empty context", "\"1\":\n  question: \"q\"\n  context:\n", schema.FormatYAML, schema.KeyContext},
		{"json null question", `{"1": {"question": null}}`, schema.FormatJSON, schema.KeyQuestion},
		{"json numeric route target", `{"1": {"question": "q", "next_questions": {"Yes": 3}}}`, schema.FormatJSON, schema.KeyNextQuestions},
		{"json suggestion not a string", `{"1": {"question": "q", "suggestions": ["Yes", false]}}`, schema.FormatJSON, schema.KeySuggestions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Decode([]byte(tt.data), tt.format)
			require.Error(t, err)

			errs := schema.ValidationErrors(err)
			require.Len(t, errs, 1)
			var fe *schema.FieldError
			require.ErrorAs(t, errs[0], &fe)
			assert.Equal(t, "1", fe.NodeID)
			assert.Equal(t, tt.wantKey, fe.Key)
		})
	}

	t.Run("yaml root not a mapping", func(t *testing.T) {
		_, err := schema.DecodeYAML([]byte("- a\n- b\n"))
		assert.Len(t, schema.ValidationErrors(err), 1)
	})

	t.Run("syntax errors", func(t *testing.T) {
		_, err := schema.DecodeYAML([]byte("\"1\": [unclosed"))
		assert.Error(t, err)
		_, err = schema.DecodeJSON([]byte(`{"1": {"question": `))
		assert.Error(t, err)
		_, err = schema.DecodeJSON([]byte(`{"1": {"question": "q"}} trailing`))
		assert.Error(t, err)
	})

	t.Run("empty documents", func(t *testing.T) {
		table, err := schema.DecodeYAML(nil)
		require.NoError(t, err)
		assert.Zero(t, table.Len())
		table, err = schema.DecodeJSON(nil)
		require.NoError(t, err)
		assert.Zero(t, table.Len())
	})
}

func TestValidate(t *testing.T) {
	table := schema.Table{Entries: []schema.Entry{
		{ID: "", Question: "q"},
		{ID: "1", Question: ""},
		{ID: "1", Question: "again", Routes: []schema.Route{{Answer: "", To: "2"}, {Answer: "Yes", To: ""}}},
	}}

	err := schema.Validate(table)
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 5)

	assert.NoError(t, schema.Validate(orderedTable()))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("flow.JSON"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("flow.yml"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("flow"))

	f, err := schema.ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, schema.FormatYAML, f)

	_, err = schema.ParseFormat("toml")
	assert.Error(t, err)
}
