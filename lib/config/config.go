// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when --config is
// not given.
const EnvironmentVariable = "ARCHIVER_CONFIG"

// Config is the archiver configuration.
type Config struct {
	// Log configures diagnostic output on stderr.
	Log LogConfig `yaml:"log" json:"log"`

	// Extract configures decompression.
	Extract ExtractConfig `yaml:"extract" json:"extract"`

	// Manifest configures the optional run manifest.
	Manifest ManifestConfig `yaml:"manifest" json:"manifest"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: warn
	Level string `yaml:"level" json:"level"`

	// Format is one of auto, text, json. Auto picks text when stderr
	// is a terminal and JSON otherwise.
	// Default: auto
	Format string `yaml:"format" json:"format"`
}

// ExtractConfig configures where archives are extracted.
type ExtractConfig struct {
	// Directory receives extracted files.
	// Default: the working directory
	Directory string `yaml:"directory" json:"directory"`
}

// ManifestConfig configures the run manifest.
type ManifestConfig struct {
	// Path is where the CBOR manifest is written. Empty disables it.
	Path string `yaml:"path" json:"path"`
}

// Log formats accepted in LogConfig.Format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: FormatAuto,
		},
		Extract: ExtractConfig{
			Directory: ".",
		},
	}
}

// Load loads the file named by ARCHIVER_CONFIG, or returns Default
// when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads the file at path over the defaults, expands
// variables, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err := decoder.Decode(c)
		// An empty YAML document leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Extract.Directory = expandVars(c.Extract.Directory, vars)
	c.Manifest.Path = expandVars(c.Manifest.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces each ${NAME} or ${NAME:-default} in s with the
// value from vars, then the environment, then the default.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case FormatAuto, FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format: %q is not one of auto, text, json", c.Log.Format))
	}
	if c.Extract.Directory == "" {
		errs = append(errs, errors.New("extract.directory is required"))
	}

	return errors.Join(errs...)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}
