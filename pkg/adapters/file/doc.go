// Package file provides filesystem adapters: an authored-table GraphLoader
// (YAML or JSON, chosen by extension) and a plain-text SourceLoader feeding
// the importer. Store keeps session snapshots as JSON files.
package file
