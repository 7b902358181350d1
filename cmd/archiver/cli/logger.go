// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"

	"golang.org/x/term"
)

// Log output formats accepted by NewCommandLogger.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// NewCommandLogger creates the structured logger for a command run.
// With FormatAuto it uses slog.TextHandler when output is a terminal
// and slog.JSONHandler when it is piped or redirected.
//
// Callers scope the logger with With:
//
//	logger := cli.NewCommandLogger(os.Stderr, slog.LevelInfo, cli.FormatAuto).With(
//	    "command", "compress",
//	    "archive", archivePath,
//	)
func NewCommandLogger(output io.Writer, level slog.Level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if format == FormatText || (format == FormatAuto && isTerminal(output)) {
		return slog.New(slog.NewTextHandler(output, options))
	}
	return slog.New(slog.NewJSONHandler(output, options))
}

func isTerminal(output io.Writer) bool {
	file, ok := output.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(file.Fd()))
}
