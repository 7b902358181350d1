// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/archiver/lib/alphabet"
	"github.com/bureau-foundation/archiver/lib/bitstream"
	"github.com/bureau-foundation/archiver/lib/huffman"
)

// writeHeader writes the alphabet size, the symbols in the order
// given, and the per-length counts. lengths must be canonically
// sorted.
func writeHeader(bits *bitstream.Writer, lengths []huffman.CodeLength) error {
	if len(lengths) == 0 || len(lengths) > alphabet.Size {
		return fmt.Errorf("archive: cannot write header for %d symbols", len(lengths))
	}
	if err := bits.WriteBits(uint64(len(lengths)), alphabet.FieldBits); err != nil {
		return err
	}
	for _, entry := range lengths {
		if err := bits.WriteBits(uint64(entry.Symbol), alphabet.FieldBits); err != nil {
			return err
		}
	}

	// A zero length only occurs for a one-symbol alphabet, whose code
	// is one bit wide.
	longest := max(lengths[len(lengths)-1].Length, 1)
	counts := make([]int, longest+1)
	for _, entry := range lengths {
		counts[max(entry.Length, 1)]++
	}
	for length := 1; length <= longest; length++ {
		if err := bits.WriteBits(uint64(counts[length]), alphabet.FieldBits); err != nil {
			return err
		}
	}
	return nil
}

// readHeader reads a record header and returns the code lengths in the
// order they were stored. Every failure is ErrInvalidFormat.
func readHeader(bits *bitstream.Reader) ([]huffman.CodeLength, error) {
	size, err := readField(bits, "alphabet size")
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, invalidFormat("empty alphabet")
	}
	if size > alphabet.Size {
		return nil, invalidFormat("alphabet size %d exceeds %d", size, alphabet.Size)
	}

	symbols := make([]alphabet.Symbol, size)
	var seen [alphabet.Size]bool
	for i := range symbols {
		value, err := readField(bits, "alphabet symbol")
		if err != nil {
			return nil, err
		}
		symbol := alphabet.Symbol(value)
		if !symbol.Valid() {
			return nil, invalidFormat("symbol %d out of range", value)
		}
		if seen[symbol] {
			return nil, invalidFormat("symbol %s listed twice", symbol)
		}
		seen[symbol] = true
		symbols[i] = symbol
	}

	lengths := make([]huffman.CodeLength, 0, size)
	for length := 1; len(lengths) < size; length++ {
		if length > alphabet.MaxCodeLength {
			return nil, invalidFormat("code lengths exceed %d bits", alphabet.MaxCodeLength)
		}
		count, err := readField(bits, "length count")
		if err != nil {
			return nil, err
		}
		if len(lengths)+count > size {
			return nil, invalidFormat("%d codes of length %d overrun alphabet of %d", count, length, size)
		}
		for range count {
			lengths = append(lengths, huffman.CodeLength{Symbol: symbols[len(lengths)], Length: length})
		}
	}
	return lengths, nil
}

func readField(bits *bitstream.Reader, what string) (int, error) {
	value, err := bits.ReadBits(alphabet.FieldBits)
	if errors.Is(err, bitstream.ErrEndOfStream) {
		return 0, invalidFormat("truncated %s", what)
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	return int(value), nil
}
