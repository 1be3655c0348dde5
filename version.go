package devcraft

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release of this build.
var Version = strings.TrimSpace(version)
