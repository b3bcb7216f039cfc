package main

import (
	"os"

	"github.com/roy-tools/roy/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.ExecuteWorkspaceManager(version, commit, date); err != nil {
		os.Exit(1)
	}
}
