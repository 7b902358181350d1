// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/archiver/lib/binhash"
)

var (
	// ErrInvalidFormat is returned for any archive whose structure
	// cannot be decoded.
	ErrInvalidFormat = errors.New("invalid archive format")

	// ErrOutput is returned when an extracted file cannot be created
	// or written.
	ErrOutput = errors.New("cannot write archived file")

	// ErrFinished is returned when an entry is compressed or
	// decompressed after the record marked as last.
	ErrFinished = errors.New("archive: last entry already processed")
)

// MaxNameLength is the longest basename, in bytes, that can be stored.
// It matches NAME_MAX on common filesystems.
const MaxNameLength = 255

// Entry describes one file record.
type Entry struct {
	// Name is the stored basename.
	Name string

	// Size is the content length in bytes.
	Size int64

	// Bits is the length of the whole record in the archive, header
	// included.
	Bits uint64

	// Alphabet is the number of distinct symbols coded in the record,
	// control symbols included.
	Alphabet int

	// Digest is the keyed BLAKE3 digest of the content.
	Digest binhash.Digest
}

func invalidFormat(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFormat, fmt.Sprintf(format, args...))
}
