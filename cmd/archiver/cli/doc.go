// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the archiver binary.
//
// A [Command] owns a pflag.FlagSet, parses arguments with the rules
// the archiver has always used (options before positional arguments,
// no repeated options, unknown options rejected with a suggestion) and
// dispatches to its Run function. Errors are classified with
// [ToolError]; validation errors are printed together with the
// command's help, and every failure exits with [ExitFailure].
//
// [NewCommandLogger] builds the slog logger commands use for
// diagnostics on stderr.
package cli
