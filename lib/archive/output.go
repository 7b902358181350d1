// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/archiver/lib/pathcheck"
)

// Output creates destinations for extracted entries. Names passed to
// Create have already been checked to be plain basenames.
type Output interface {
	Create(name string) (io.WriteCloser, error)
}

// DirectoryOutput extracts entries as files in Directory, replacing
// files that already exist. An empty Directory means the working
// directory.
type DirectoryOutput struct {
	Directory string
}

// Create opens Directory/name for writing.
func (d DirectoryOutput) Create(name string) (io.WriteCloser, error) {
	path := filepath.Join(d.Directory, name)
	if err := pathcheck.ValidateOutput(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}
