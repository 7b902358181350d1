// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import "github.com/bureau-foundation/archiver/lib/alphabet"

// Frequencies counts symbol occurrences for one record. The zero value
// is an unseeded, empty table; NewFrequencies returns a seeded one.
type Frequencies struct {
	counts [alphabet.Size]uint64
}

// NewFrequencies returns a table seeded with the control symbols.
func NewFrequencies() *Frequencies {
	frequencies := &Frequencies{}
	frequencies.Seed()
	return frequencies
}

// Seed raises every control symbol to a count of at least one.
func (f *Frequencies) Seed() {
	for _, control := range alphabet.Controls {
		if f.counts[control] == 0 {
			f.counts[control] = 1
		}
	}
}

// Reset clears all counts and seeds the control symbols again.
func (f *Frequencies) Reset() {
	f.counts = [alphabet.Size]uint64{}
	f.Seed()
}

// Add counts one occurrence of symbol. Symbols outside the alphabet
// are ignored.
func (f *Frequencies) Add(symbol alphabet.Symbol) {
	if symbol.Valid() {
		f.counts[symbol]++
	}
}

// AddBytes counts every byte of data as a literal symbol.
func (f *Frequencies) AddBytes(data []byte) {
	for _, b := range data {
		f.counts[b]++
	}
}

// Count returns the occurrences recorded for symbol.
func (f *Frequencies) Count(symbol alphabet.Symbol) uint64 {
	if !symbol.Valid() {
		return 0
	}
	return f.counts[symbol]
}

// Len returns the number of symbols with a nonzero count.
func (f *Frequencies) Len() int {
	count := 0
	for _, c := range f.counts {
		if c > 0 {
			count++
		}
	}
	return count
}
