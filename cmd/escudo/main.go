// Command escudo is the tenant-scoped port scanning service.
package main

import "github.com/anstrom/escudo/cmd/cli"

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
