package schema

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML table, keeping document order.
func DecodeYAML(data []byte) (Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Table{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return decodeDocument(&doc, decodeOptions{})
}

type decodeOptions struct {
	// stringsOnly rejects scalars that are not strings, as JSON tables require.
	stringsOnly bool
}

// decodeDocument reads a table from a parsed YAML or JSON document node.
func decodeDocument(doc *yaml.Node, opts decodeOptions) (Table, error) {
	if len(doc.Content) == 0 {
		return Table{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Table{}, &AggregateError{Errors: []error{
			&FieldError{Reason: "table must be a mapping of node id to entry", Line: root.Line},
		}}
	}

	d := entryDecoder{opts: opts}
	t := Table{Entries: make([]Entry, 0, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			d.c.add("", "", "node id must be a scalar", key.Line)
			continue
		}
		t.Entries = append(t.Entries, d.entry(key.Value, val))
	}
	if err := d.c.err(); err != nil {
		return Table{}, err
	}
	return t, nil
}

type entryDecoder struct {
	c    collector
	opts decodeOptions
}

func (d *entryDecoder) entry(id string, n *yaml.Node) Entry {
	e := Entry{ID: id}
	if n.Kind != yaml.MappingNode {
		d.c.add(id, "", "entry must be a mapping", n.Line)
		return e
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case KeyQuestion:
			e.Question = d.scalar(id, key.Value, val)
		case KeyContext:
			e.Context = d.scalar(id, key.Value, val)
		case KeySuggestions:
			if val.Kind != yaml.SequenceNode {
				d.c.add(id, key.Value, "must be a list", val.Line)
				continue
			}
			for _, item := range val.Content {
				e.Suggestions = append(e.Suggestions, d.scalar(id, key.Value, item))
			}
		case KeyNextQuestions:
			if val.Kind != yaml.MappingNode {
				d.c.add(id, key.Value, "must be a mapping of answer to node id", val.Line)
				continue
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				e.Routes = append(e.Routes, Route{
					Answer: d.scalar(id, key.Value, val.Content[j]),
					To:     d.scalar(id, key.Value, val.Content[j+1]),
				})
			}
		default:
			d.c.add(id, key.Value, "unknown field", key.Line)
		}
	}
	return e
}

func (d *entryDecoder) scalar(id, key string, n *yaml.Node) string {
	switch {
	case n.Kind != yaml.ScalarNode:
		d.c.add(id, key, "expected a string", n.Line)
		return ""
	case n.ShortTag() == "!!null":
		d.c.add(id, key, "must not be null", n.Line)
		return ""
	case d.opts.stringsOnly && n.ShortTag() != "!!str":
		d.c.add(id, key, "expected a string", n.Line)
		return ""
	}
	return n.Value
}

// EncodeYAML writes a table as YAML with every string double-quoted,
// so numeric ids and answers like "No" survive untouched.
func EncodeYAML(t Table) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.Entries {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content, plainKey(KeyQuestion), quoted(e.Question))

		if len(e.Suggestions) > 0 {
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, s := range e.Suggestions {
				seq.Content = append(seq.Content, quoted(s))
			}
			entry.Content = append(entry.Content, plainKey(KeySuggestions), seq)
		}

		if len(e.Routes) > 0 {
			routes := &yaml.Node{Kind: yaml.MappingNode}
			for _, r := range e.Routes {
				routes.Content = append(routes.Content, quoted(r.Answer), quoted(r.To))
			}
			entry.Content = append(entry.Content, plainKey(KeyNextQuestions), routes)
		}

		if e.Context != "" {
			entry.Content = append(entry.Content, plainKey(KeyContext), quoted(e.Context))
		}

		root.Content = append(root.Content, quoted(e.ID), entry)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plainKey(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}
