// Package main is the entry point for the Aurum CLI.
package main

import (
	"os"

	"github.com/aurumwallet/aurum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
