package model

import "time"

// Shared defaults used by both the service and TUI binaries.
const (
	DefaultCurveTension  = 0.0
	DefaultFlattenSteps  = 8
	DefaultLoadTimeout   = 30 * time.Second
	DefaultDateColumn    = "Date"
	DefaultPaletteSource = "builtin"
)
