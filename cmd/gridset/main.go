// Command gridset loads, validates and augments grid CSV datasets.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/gridset/internal/cli"
	"github.com/roach88/gridset/internal/config"
)

func main() {
	// Variables already in the environment take precedence over .env
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Argument and flag errors from cobra
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitCommandError)
		}
		// Commands report their own failures
		if !exitErr.Reported {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitErr.Code)
	}
}
