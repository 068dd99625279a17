// Command ganprep is the entrypoint for the dataset preparation CLI.
// All behavior lives in internal/cli; main only injects build metadata and
// exits with the code the command tree returns.
package main

import (
	"os"

	"github.com/spookworks/ganprep/internal/cli"
)

// version is set at build time via -ldflags (e.g. Makefile).
var version = "1.0.0-dev"

func main() {
	os.Exit(cli.Execute(version))
}
