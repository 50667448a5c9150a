package main

import (
	"os"

	"github.com/hobbyreads/hobbyreads/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
