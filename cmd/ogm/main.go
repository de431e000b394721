// Command ogm inspects and validates object-graph mapping metadata.
package main

import (
	"os"

	"github.com/conduit-lang/ogm/internal/cli/commands"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	commands.Version = Version
	commands.GitCommit = GitCommit
	commands.BuildDate = BuildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
