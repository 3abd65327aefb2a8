package hatchery

import "github.com/rs/zerolog"

// logger is silent by default; a library should not write to the host
// process's streams unless asked to.
var logger = zerolog.Nop()

// SetLogger installs a logger for spawn and dispatch diagnostics. Call during
// startup, alongside Register.
func SetLogger(l zerolog.Logger) {
	logger = l
}
