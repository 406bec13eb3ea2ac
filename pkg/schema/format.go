package schema

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects a table codec.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath guesses the format from a file extension (default YAML).
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown table format %q", s)
}

// Decode parses a table in the given format.
func Decode(data []byte, format Format) (Table, error) {
	if format == FormatJSON {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// Encode writes a table in the given format.
func Encode(t Table, format Format) ([]byte, error) {
	if format == FormatJSON {
		return EncodeJSON(t)
	}
	return EncodeYAML(t)
}
