// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package alphabet defines the symbol space shared by the Huffman coder
// and the archive format: the 256 literal byte values plus three control
// symbols that delimit structure inside a coded record.
package alphabet

import "fmt"

// Symbol is one element of a record's alphabet. Values 0 through 255 are
// literal bytes; 256 through 258 are control symbols.
type Symbol uint16

const (
	// FilenameEnd terminates the coded entry name.
	FilenameEnd Symbol = 256

	// OneMoreFile terminates an entry's content when another record
	// follows in the archive.
	OneMoreFile Symbol = 257

	// EndOfArchive terminates the content of the last record.
	EndOfArchive Symbol = 258
)

// Size is the number of distinct symbols: 256 literals plus 3 controls.
// It is also the largest alphabet size a record header may declare.
const Size = 259

// MaxSymbol is the largest valid symbol value.
const MaxSymbol = Symbol(Size - 1)

// Controls lists the control symbols in ascending order. Every record's
// alphabet contains all three.
var Controls = [3]Symbol{FilenameEnd, OneMoreFile, EndOfArchive}

// Header fields (alphabet size, alphabet symbols, per-length counts) are
// fixed-width unsigned integers of FieldBits bits, MSB first. The width
// bounds every header value at MaxFieldValue. Widening the symbol space
// past MaxFieldValue+1 symbols requires a wider field and a new format.
const (
	FieldBits     = 9
	MaxFieldValue = 1<<FieldBits - 1
)

// The field width must be able to carry the alphabet size itself.
var _ [MaxFieldValue - Size]struct{}

// MaxCodeLength is the longest code a record may use. Codes are carried
// in a uint64 while being emitted and rebuilt.
const MaxCodeLength = 64

// IsLiteral reports whether s is a literal byte value.
func (s Symbol) IsLiteral() bool { return s < FilenameEnd }

// IsControl reports whether s is one of the three control symbols.
func (s Symbol) IsControl() bool { return s >= FilenameEnd && s <= EndOfArchive }

// Valid reports whether s lies inside the alphabet.
func (s Symbol) Valid() bool { return s <= MaxSymbol }

// String returns a readable form used in logs and test failures.
func (s Symbol) String() string {
	switch s {
	case FilenameEnd:
		return "FILENAME_END"
	case OneMoreFile:
		return "ONE_MORE_FILE"
	case EndOfArchive:
		return "END_OF_ARCHIVE"
	}
	if s.IsLiteral() {
		return fmt.Sprintf("0x%02x", uint16(s))
	}
	return fmt.Sprintf("invalid(%d)", uint16(s))
}
