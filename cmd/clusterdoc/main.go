package main

import (
	"fmt"
	"os"

	"github.com/fieldeng/clusterdoc/cmd/clusterdoc/cmd"
)

// Version information - set by goreleaser at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)

	// The root command silences cobra's own error printing, so the
	// error must be reported here or a bad config aborts with no output.
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
