// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the archiver's optional configuration file.
//
// The file is named by the --config flag or, failing that, the
// ARCHIVER_CONFIG environment variable. Without either, [Default]
// applies. Files ending in .json or .jsonc are parsed as JSON with
// comments and trailing commas allowed; everything else is YAML.
//
// Path fields may reference environment variables as ${VAR} or
// ${VAR:-default}. Command-line flags override file values; the
// command applies them after loading.
package config
