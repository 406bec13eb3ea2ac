package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a JSON table, keeping document order. The document is
// checked as JSON first and then read through the same node tree as YAML,
// with every scalar required to be a JSON string.
func DecodeJSON(data []byte) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	// Re-indenting with spaces keeps tabs away from the YAML scanner.
	var norm bytes.Buffer
	if err := json.Indent(&norm, data, "", "  "); err != nil {
		return Table{}, fmt.Errorf("invalid json: %w", err)
	}
	// Valid JSON only carries raw U+2028 and U+2029 inside strings, where
	// YAML would read them as line breaks.
	src := bytes.ReplaceAll(norm.Bytes(), []byte("\u2028"), []byte(`\u2028`))
	src = bytes.ReplaceAll(src, []byte("\u2029"), []byte(`\u2029`))

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return Table{}, fmt.Errorf("invalid json: %w", err)
	}

	t, err := decodeDocument(&doc, decodeOptions{stringsOnly: true})
	if err != nil {
		// Line numbers of the re-indented document mean nothing to the author.
		for _, e := range ValidationErrors(err) {
			if fe, ok := e.(*FieldError); ok {
				fe.Line = 0
			}
		}
		return Table{}, err
	}
	return t, nil
}

// EncodeJSON writes a table as indented JSON, keeping entry and route order.
// Tables with repeated node ids or route answers keep the last value.
func EncodeJSON(t Table) ([]byte, error) {
	root := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(t.Entries)))
	for _, e := range t.Entries {
		entry := orderedmap.New[string, any]()
		entry.Set(KeyQuestion, e.Question)
		if len(e.Suggestions) > 0 {
			entry.Set(KeySuggestions, e.Suggestions)
		}
		if len(e.Routes) > 0 {
			routes := orderedmap.New[string, string]()
			for _, r := range e.Routes {
				routes.Set(r.Answer, r.To)
			}
			entry.Set(KeyNextQuestions, routes)
		}
		if e.Context != "" {
			entry.Set(KeyContext, e.Context)
		}
		root.Set(e.ID, entry)
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(out, '\n'), nil
}
