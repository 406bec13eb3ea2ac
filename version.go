package scriptflow

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of scriptflow.
var Version = strings.TrimSpace(rawVersion)
