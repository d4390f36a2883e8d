package main

import (
	// Embedded zone database so club timezones resolve on minimal images.
	_ "time/tzdata"

	"github.com/teemow/padel-mcp/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
