// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/archiver/cmd/archiver/cli"
	"github.com/bureau-foundation/archiver/lib/clock"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, clock.Real()))
}

// run executes the archiver and returns the process exit status.
func run(args []string, stderr io.Writer, clk clock.Clock) int {
	command := Root(stderr, clk)
	err := command.Execute(args)
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "ERROR: %v\n\n", err)
	if cli.CategoryOf(err) == cli.CategoryValidation {
		command.PrintHelp(stderr)
	}
	return cli.ExitFailure
}
