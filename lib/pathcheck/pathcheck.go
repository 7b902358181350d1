// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pathcheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrIsDirectory is returned when a path that must name a file
	// names a directory.
	ErrIsDirectory = errors.New("pathcheck: path is a directory")

	// ErrNotBasename is returned by ValidateEntryName for names that
	// are empty, dot entries, or contain a separator or NUL byte.
	ErrNotBasename = errors.New("pathcheck: not a plain file name")
)

// ValidateInput returns nil if path exists and is not a directory.
func ValidateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking input %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s: %w", path, ErrIsDirectory)
	}
	return nil
}

// ValidateOutput returns nil if path is not an existing directory. A
// path that does not exist yet is valid.
func ValidateOutput(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("output %s: %w", path, ErrIsDirectory)
	}
	return nil
}

// ValidateEntryName returns nil if name can be used as a single path
// component.
func ValidateEntryName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrNotBasename, name)
	case strings.ContainsAny(name, "/\x00"), strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: %q", ErrNotBasename, name)
	}
	return nil
}

// OpenSequential opens path for reading and tells the kernel the file
// will be read front to back, where the platform supports the hint.
func OpenSequential(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	adviseSequential(file)
	return file, nil
}
