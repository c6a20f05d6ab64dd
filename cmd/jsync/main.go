// Package main is the entry point for the jsync CLI tool.
package main

import (
	"os"

	"github.com/RichWolff/joplin-sync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
