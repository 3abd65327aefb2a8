package main

import (
	"github.com/strutlabs/hatchery"
	"github.com/strutlabs/hatchery/internal/cli"
)

func main() {
	// Mandatory first action: if this process was re-executed as a worker,
	// dispatch to its entry and terminate before any CLI logic runs.
	hatchery.CheckEntryPoint()

	cli.Execute()
}
