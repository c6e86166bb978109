// Command lanwatch discovers and tracks devices on the local network.
package main

import (
	"github.com/anstrom/lanwatch/cmd/cli"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
