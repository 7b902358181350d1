// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ExitFailure is the exit status for every failed invocation.
const ExitFailure = 111

// Command is a CLI command: flags, help text and an action.
type Command struct {
	// Name is the program name shown in help and error output.
	Name string

	// Summary is a one-line description.
	Summary string

	// Description is shown at the top of the help output. Falls back
	// to Summary when empty.
	Description string

	// Usage is the usage line. Synthesized from Name when empty.
	Usage string

	// Examples are shown after the flags in help output.
	Examples []Example

	// Flags returns the command's flag set. Called on every parse and
	// help print, so it must bind to the same variables each time.
	Flags func() *pflag.FlagSet

	// Run executes the command with the positional arguments left
	// after flag parsing.
	Run func(args []string) error
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Execute parses args and calls Run. Parse failures are returned as
// validation errors.
func (c *Command) Execute(args []string) error {
	if c.Flags != nil {
		flagSet := c.Flags()
		flagSet.SetOutput(io.Discard)
		// Parsing stops at the first positional argument; anything
		// that looks like an option after it is rejected below.
		flagSet.SetInterspersed(false)

		if err := flagSet.Parse(args); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return Validation("%v", err)
			}
			message := err.Error()
			if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
				if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
					return Validation("%s (did you mean %s?)", message, suggestion)
				}
			}
			return Validation("%s", message)
		}
		args = flagSet.Args()

		// After "--" every argument is positional.
		if flagSet.ArgsLenAtDash() < 0 {
			for _, arg := range args {
				if len(arg) > 1 && strings.HasPrefix(arg, "-") {
					return Validation("found option %q after positional argument", arg)
				}
			}
		}

		var repeated []string
		flagSet.Visit(func(flag *pflag.Flag) {
			if counter, ok := flag.Value.(interface{ Count() int }); ok && counter.Count() > 1 {
				repeated = append(repeated, flagName(flag))
			}
		})
		if len(repeated) > 0 {
			return Validation("option %s is specified multiple times", strings.Join(repeated, ", "))
		}
	}

	if c.Run == nil {
		return Internal("no action defined for %q", c.Name)
	}
	return c.Run(args)
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	if c.Usage != "" {
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	} else {
		fmt.Fprintf(w, "Usage:\n  %s [flags] [arguments]\n", c.Name)
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		var flagHelp strings.Builder
		flagSet.SetOutput(&flagHelp)
		flagSet.PrintDefaults()
		if flagHelp.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}
}

// flagName formats a flag the way a user would most likely type it.
func flagName(flag *pflag.Flag) string {
	if flag.Shorthand != "" {
		return "-" + flag.Shorthand
	}
	return "--" + flag.Name
}
