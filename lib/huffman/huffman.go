// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/bureau-foundation/archiver/lib/alphabet"
	"github.com/bureau-foundation/archiver/lib/pqueue"
	"github.com/bureau-foundation/archiver/lib/trie"
)

// ErrCodeTooLong is returned when a frequency table would need a code
// longer than alphabet.MaxCodeLength bits.
var ErrCodeTooLong = errors.New("huffman: code length exceeds limit")

// CodeLength pairs a symbol with the length of its code in bits.
type CodeLength struct {
	Symbol alphabet.Symbol
	Length int
}

// Compare orders code lengths canonically: ascending length, then
// ascending symbol.
func (c CodeLength) Compare(other CodeLength) int {
	if c.Length != other.Length {
		return cmp.Compare(c.Length, other.Length)
	}
	return cmp.Compare(c.Symbol, other.Symbol)
}

// Code is a prefix code: the low Length bits of Bits, most significant
// first.
type Code struct {
	Bits   uint64
	Length int
}

// String renders the code as a binary string.
func (c Code) String() string {
	if c.Length == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", c.Length, c.Bits)
}

// CodeTable maps each symbol to its code. A zero Length marks a symbol
// absent from the table.
type CodeTable [alphabet.Size]Code

// Lookup returns the code for symbol and whether the table holds one.
func (t *CodeTable) Lookup(symbol alphabet.Symbol) (Code, bool) {
	if !symbol.Valid() || t[symbol].Length == 0 {
		return Code{}, false
	}
	return t[symbol], true
}

// DeriveCodeLengths builds a Huffman tree over every symbol with a
// nonzero count and returns each symbol's depth in canonical order.
func DeriveCodeLengths(frequencies *Frequencies) ([]CodeLength, error) {
	leaves := make([]*trie.Node, 0, frequencies.Len())
	for symbol := alphabet.Symbol(0); symbol <= alphabet.MaxSymbol; symbol++ {
		if count := frequencies.Count(symbol); count > 0 {
			leaves = append(leaves, trie.NewLeaf(symbol, count))
		}
	}
	queue := pqueue.NewFrom(trie.Less, leaves)

	for queue.Len() > 1 {
		left, _ := queue.Top()
		queue.Pop()
		right, _ := queue.Top()
		queue.Pop()
		queue.Push(trie.NewInternal(left, right))
	}

	root, err := queue.Top()
	if err != nil {
		return nil, fmt.Errorf("huffman: no symbols to code: %w", err)
	}

	lengths := make([]CodeLength, 0, frequencies.Len())
	var tooLong error
	root.Traverse(func(_ uint64, depth int, symbol alphabet.Symbol) {
		if depth > alphabet.MaxCodeLength && tooLong == nil {
			tooLong = fmt.Errorf("%w: symbol %s needs %d bits", ErrCodeTooLong, symbol, depth)
		}
		lengths = append(lengths, CodeLength{Symbol: symbol, Length: depth})
	})
	if tooLong != nil {
		return nil, tooLong
	}

	SortCanonical(lengths)
	return lengths, nil
}

// SortCanonical sorts lengths into canonical order in place.
func SortCanonical(lengths []CodeLength) {
	slices.SortFunc(lengths, CodeLength.Compare)
}

// AssignCanonicalCodes assigns codes to a canonically sorted length
// list. Each code is the previous code plus one, left-shifted whenever
// the length grows. A length of zero (a one-symbol tree) is assigned a
// one-bit code.
//
// The result is prefix-free only if the lengths satisfy Kraft's
// inequality. Lengths read from an untrusted source must be checked by
// inserting the codes into a trie, which rejects any overlap.
func AssignCanonicalCodes(sorted []CodeLength) *CodeTable {
	table := &CodeTable{}
	var code uint64
	size := 1
	for _, entry := range sorted {
		for size < entry.Length {
			code <<= 1
			size++
		}
		if entry.Symbol.Valid() {
			table[entry.Symbol] = Code{Bits: code, Length: size}
		}
		code++
	}
	return table
}

// Kraft returns the sum of 2^-length over lengths. A prefix code exists
// for the lengths exactly when the sum is at most one, and the code is
// complete when it equals one. A zero length counts as one bit, the
// width AssignCanonicalCodes gives it.
func Kraft(lengths []CodeLength) *big.Rat {
	sum := new(big.Rat)
	term := new(big.Rat)
	for _, entry := range lengths {
		bits := uint(max(entry.Length, 1))
		sum.Add(sum, term.SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), bits)))
	}
	return sum
}
