// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/archiver/cmd/archiver/cli"
	"github.com/bureau-foundation/archiver/lib/archive"
	"github.com/bureau-foundation/archiver/lib/clock"
	"github.com/bureau-foundation/archiver/lib/config"
	"github.com/bureau-foundation/archiver/lib/manifest"
	"github.com/bureau-foundation/archiver/lib/pathcheck"
)

// rootParams holds the parsed command line.
type rootParams struct {
	compress   cli.Switch
	decompress cli.Switch
	help       cli.Switch

	outputDirectory cli.Option
	manifestPath    cli.Option
	configPath      cli.Option
	logLevel        cli.Option
	verifyPath      cli.Option
}

// Root returns the archiver command. Help, errors and logs go to
// stderr.
func Root(stderr io.Writer, clk clock.Clock) *cli.Command {
	var params rootParams

	command := &cli.Command{
		Name:    "archiver",
		Summary: "Compress files into a Huffman archive and extract them",
		Description: `Compress files into a Huffman archive and extract them.

Each file is stored as a record with its own canonical Huffman code
table, so files with very different contents compress independently.
Only file basenames are stored. Extraction recreates the files in the
output directory, replacing existing files of the same name.`,
		Usage: "archiver -c archive_name file1 [file2 ...] | -d archive_name | -h",
		Examples: []cli.Example{
			{Description: "Compress two files", Command: "archiver -c archive.bin notes.txt data.csv"},
			{Description: "Extract into ./restored", Command: "archiver --output-dir restored -d archive.bin"},
			{Description: "Record a manifest of the extracted entries", Command: "archiver --manifest run.cbor -d archive.bin"},
			{Description: "Check extracted files against a manifest written by -c", Command: "archiver --verify run.cbor -d archive.bin"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("archiver", pflag.ContinueOnError)
			cli.SwitchVar(flagSet, &params.compress, "compress", "c", "compress files into archive")
			cli.SwitchVar(flagSet, &params.decompress, "decompress", "d", "decompress archive")
			cli.SwitchVar(flagSet, &params.help, "help", "h", "show this message")
			cli.OptionVar(flagSet, &params.outputDirectory, "output-dir", "extract into `directory` (default from config, else .)")
			cli.OptionVar(flagSet, &params.manifestPath, "manifest", "write a CBOR manifest of the entries to `path`")
			cli.OptionVar(flagSet, &params.configPath, "config", "configuration `file` (default $"+config.EnvironmentVariable+")")
			cli.OptionVar(flagSet, &params.logLevel, "log-level", "log `level`: debug, info, warn, error")
			cli.OptionVar(flagSet, &params.verifyPath, "verify", "after -d, check extracted files against the `manifest`")
			return flagSet
		},
	}
	command.Run = func(args []string) error {
		return runRoot(command, &params, args, stderr, clk)
	}
	return command
}

func runRoot(command *cli.Command, params *rootParams, args []string, stderr io.Writer, clk clock.Clock) error {
	modes := 0
	for _, mode := range []*cli.Switch{&params.compress, &params.decompress, &params.help} {
		if mode.On() {
			modes++
		}
	}
	switch {
	case modes > 1:
		return cli.Validation("too many options")
	case modes == 0:
		return cli.Validation("you need to specify at least one option")
	case params.help.On():
		command.PrintHelp(stderr)
		return nil
	}

	cfg, err := loadConfig(params)
	if err != nil {
		return cli.Categorize(err, cli.CategoryInternal)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := cli.NewCommandLogger(stderr, level, cfg.Log.Format)

	verifyPath, verify := params.verifyPath.Value()
	if verify && verifyPath == "" {
		return cli.Validation("--verify needs a manifest path")
	}
	if params.compress.On() {
		if verify {
			return cli.Validation("--verify can only be used with -d")
		}
		return runCompress(cfg, args, logger, clk)
	}
	return runDecompress(cfg, args, verifyPath, logger, clk)
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig(params *rootParams) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path, ok := params.configPath.Value(); ok {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if level, ok := params.logLevel.Value(); ok {
		cfg.Log.Level = level
	}
	if directory, ok := params.outputDirectory.Value(); ok {
		cfg.Extract.Directory = directory
	}
	if path, ok := params.manifestPath.Value(); ok {
		cfg.Manifest.Path = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("%v", err)
	}
	return cfg, nil
}

func runCompress(cfg *config.Config, args []string, logger *slog.Logger, clk clock.Clock) error {
	if len(args) < 2 {
		return cli.Validation("you need to specify archive name and at least one input file")
	}
	archivePath, inputs := args[0], args[1:]
	if err := pathcheck.ValidateOutput(archivePath); err != nil {
		return cli.Validation("archive destination is not valid: %v", err)
	}
	for _, input := range inputs {
		if err := pathcheck.ValidateInput(input); err != nil {
			return cli.Validation("input file is not valid: %v", err)
		}
	}

	logger = logger.With("command", "compress", "archive", archivePath)
	start := clk.Now()
	entries, err := archive.CompressToFile(archivePath, inputs, logger)
	if err != nil {
		return cli.Categorize(err, cli.CategoryInternal)
	}

	var bytesIn int64
	for _, entry := range entries {
		bytesIn += entry.Size
	}
	var bytesOut int64
	if info, err := os.Stat(archivePath); err == nil {
		bytesOut = info.Size()
	}
	logger.Info("archive written",
		"entries", len(entries),
		"bytes_in", bytesIn,
		"bytes_out", bytesOut,
		"elapsed", clk.Now().Sub(start),
	)

	return writeManifest(cfg, manifest.OperationCompress, archivePath, entries, logger, clk)
}

func runDecompress(cfg *config.Config, args []string, verifyPath string, logger *slog.Logger, clk clock.Clock) error {
	switch {
	case len(args) == 0:
		return cli.Validation("you need to specify archive name")
	case len(args) > 1:
		return cli.Validation("too many positional arguments")
	}
	archivePath := args[0]
	if err := pathcheck.ValidateInput(archivePath); err != nil {
		return cli.Validation("invalid archive path: %v", err)
	}
	var expected *manifest.Manifest
	if verifyPath != "" {
		if err := pathcheck.ValidateInput(verifyPath); err != nil {
			return cli.Validation("invalid manifest path: %v", err)
		}
		m, err := manifest.Read(verifyPath)
		if err != nil {
			return cli.Validation("reading manifest to verify: %v", err)
		}
		expected = m
	}

	directory := cfg.Extract.Directory
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return cli.Categorize(fmt.Errorf("creating output directory: %w", err), cli.CategoryOutput)
	}

	logger = logger.With("command", "decompress", "archive", archivePath)
	start := clk.Now()
	entries, err := archive.DecompressFile(archivePath, archive.DirectoryOutput{Directory: directory}, logger)
	if err != nil {
		return classifyArchiveError(err)
	}

	var bytesOut int64
	for _, entry := range entries {
		bytesOut += entry.Size
	}
	logger.Info("archive extracted",
		"entries", len(entries),
		"bytes_out", bytesOut,
		"directory", directory,
		"elapsed", clk.Now().Sub(start),
	)

	if err := writeManifest(cfg, manifest.OperationExtract, archivePath, entries, logger, clk); err != nil {
		return err
	}
	if expected != nil {
		return verifyExtracted(expected, directory, verifyPath, logger)
	}
	return nil
}

// verifyExtracted checks the files in directory against expected. A
// mismatch is a format error: the archive did not reproduce what the
// manifest recorded.
func verifyExtracted(expected *manifest.Manifest, directory, manifestPath string, logger *slog.Logger) error {
	if err := manifest.Verify(expected, directory); err != nil {
		return cli.Categorize(fmt.Errorf("verifying against %s: %w", manifestPath, err), cli.CategoryFormat)
	}
	logger.Info("manifest verified", "manifest", manifestPath, "entries", len(expected.Entries))
	return nil
}

func classifyArchiveError(err error) error {
	switch {
	case errors.Is(err, archive.ErrInvalidFormat):
		return cli.Categorize(err, cli.CategoryFormat)
	case errors.Is(err, archive.ErrOutput):
		return cli.Categorize(err, cli.CategoryOutput)
	default:
		return cli.Categorize(err, cli.CategoryInternal)
	}
}

func writeManifest(cfg *config.Config, operation manifest.Operation, archivePath string, entries []archive.Entry, logger *slog.Logger, clk clock.Clock) error {
	if cfg.Manifest.Path == "" {
		return nil
	}
	if err := manifest.Write(cfg.Manifest.Path, manifest.New(operation, archivePath, clk.Now(), entries)); err != nil {
		return cli.Categorize(err, cli.CategoryInternal)
	}
	logger.Debug("manifest written", "path", cfg.Manifest.Path)
	return nil
}
