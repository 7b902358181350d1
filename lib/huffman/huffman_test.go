// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"errors"
	"math/big"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/archiver/lib/alphabet"
	"github.com/bureau-foundation/archiver/lib/pqueue"
)

func TestNewFrequenciesSeedsControls(t *testing.T) {
	frequencies := NewFrequencies()

	if frequencies.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", frequencies.Len())
	}
	for _, control := range alphabet.Controls {
		if got := frequencies.Count(control); got != 1 {
			t.Errorf("Count(%s) = %d, want 1", control, got)
		}
	}

	frequencies.AddBytes([]byte("abc"))
	frequencies.Add(alphabet.FilenameEnd)
	frequencies.Reset()
	if frequencies.Len() != 3 {
		t.Errorf("after Reset: Len() = %d, want 3", frequencies.Len())
	}
	for _, literal := range []byte("abc") {
		if got := frequencies.Count(alphabet.Symbol(literal)); got != 0 {
			t.Errorf("after Reset: Count(%q) = %d, want 0", literal, got)
		}
	}
}

func TestSeedKeepsExistingCounts(t *testing.T) {
	var frequencies Frequencies
	frequencies.Add(alphabet.OneMoreFile)
	frequencies.Add(alphabet.OneMoreFile)
	frequencies.Seed()

	if got := frequencies.Count(alphabet.OneMoreFile); got != 2 {
		t.Errorf("Count(ONE_MORE_FILE) = %d, want 2", got)
	}
	if got := frequencies.Count(alphabet.EndOfArchive); got != 1 {
		t.Errorf("Count(END_OF_ARCHIVE) = %d, want 1", got)
	}
}

func TestDeriveCodeLengthsControlsOnly(t *testing.T) {
	lengths, err := DeriveCodeLengths(NewFrequencies())
	if err != nil {
		t.Fatalf("DeriveCodeLengths: %v", err)
	}

	want := []CodeLength{
		{alphabet.EndOfArchive, 1},
		{alphabet.FilenameEnd, 2},
		{alphabet.OneMoreFile, 2},
	}
	if !slices.Equal(lengths, want) {
		t.Fatalf("lengths = %v, want %v", lengths, want)
	}

	table := AssignCanonicalCodes(lengths)
	wantCodes := map[alphabet.Symbol]string{
		alphabet.EndOfArchive: "0",
		alphabet.FilenameEnd:  "10",
		alphabet.OneMoreFile:  "11",
	}
	for symbol, code := range wantCodes {
		got, ok := table.Lookup(symbol)
		if !ok {
			t.Fatalf("Lookup(%s) missing", symbol)
		}
		if got.String() != code {
			t.Errorf("code(%s) = %s, want %s", symbol, got, code)
		}
	}
}

func TestDeriveCodeLengthsTieBreak(t *testing.T) {
	frequencies := NewFrequencies()
	frequencies.AddBytes([]byte("aaab"))

	lengths, err := DeriveCodeLengths(frequencies)
	if err != nil {
		t.Fatalf("DeriveCodeLengths: %v", err)
	}

	// b, FILENAME_END, ONE_MORE_FILE and END_OF_ARCHIVE all weigh one;
	// b merges first because its symbol is smallest.
	want := []CodeLength{
		{'a', 1},
		{'b', 3},
		{alphabet.FilenameEnd, 3},
		{alphabet.OneMoreFile, 3},
		{alphabet.EndOfArchive, 3},
	}
	if !slices.Equal(lengths, want) {
		t.Fatalf("lengths = %v, want %v", lengths, want)
	}

	table := AssignCanonicalCodes(lengths)
	wantCodes := []struct {
		symbol alphabet.Symbol
		code   string
	}{
		{'a', "0"},
		{'b', "100"},
		{alphabet.FilenameEnd, "101"},
		{alphabet.OneMoreFile, "110"},
		{alphabet.EndOfArchive, "111"},
	}
	for _, tt := range wantCodes {
		got, _ := table.Lookup(tt.symbol)
		if got.String() != tt.code {
			t.Errorf("code(%s) = %q, want %q", tt.symbol, got, tt.code)
		}
	}
}

func TestDeriveCodeLengthsSingleSymbol(t *testing.T) {
	var frequencies Frequencies
	frequencies.Add('x')

	lengths, err := DeriveCodeLengths(&frequencies)
	if err != nil {
		t.Fatalf("DeriveCodeLengths: %v", err)
	}
	if !slices.Equal(lengths, []CodeLength{{'x', 0}}) {
		t.Fatalf("lengths = %v, want [{x 0}]", lengths)
	}

	code, ok := AssignCanonicalCodes(lengths).Lookup('x')
	if !ok || code != (Code{Bits: 0, Length: 1}) {
		t.Errorf("code(x) = %+v, %v; want one-bit code 0", code, ok)
	}
}

func TestDeriveCodeLengthsEmpty(t *testing.T) {
	_, err := DeriveCodeLengths(&Frequencies{})
	if !errors.Is(err, pqueue.ErrEmpty) {
		t.Fatalf("DeriveCodeLengths(empty): got %v, want pqueue.ErrEmpty", err)
	}
}

func TestDeriveCodeLengthsTooLong(t *testing.T) {
	// Fibonacci weights produce a maximally unbalanced tree.
	var frequencies Frequencies
	previous, current := uint64(1), uint64(1)
	for symbol := 0; symbol < 80; symbol++ {
		frequencies.counts[symbol] = previous
		previous, current = current, previous+current
	}

	_, err := DeriveCodeLengths(&frequencies)
	if !errors.Is(err, ErrCodeTooLong) {
		t.Fatalf("DeriveCodeLengths(fibonacci): got %v, want ErrCodeTooLong", err)
	}
}

// checkPrefixFree verifies Kraft's inequality and that no code is a
// prefix of another.
func checkPrefixFree(t *testing.T, lengths []CodeLength, table *CodeTable) {
	t.Helper()

	codes := make([]string, 0, len(lengths))
	for _, entry := range lengths {
		code, ok := table.Lookup(entry.Symbol)
		if !ok {
			t.Fatalf("symbol %s has no code", entry.Symbol)
		}
		codes = append(codes, code.String())
	}
	if kraft := Kraft(lengths); kraft.Cmp(big.NewRat(1, 1)) > 0 {
		t.Fatalf("Kraft sum %s exceeds 1", kraft.RatString())
	}

	for i, a := range codes {
		for j, b := range codes {
			if i != j && strings.HasPrefix(b, a) {
				t.Fatalf("code %s (%s) is a prefix of %s (%s)",
					a, lengths[i].Symbol, b, lengths[j].Symbol)
			}
		}
	}
}

func TestCanonicalCodesPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iteration := 0; iteration < 50; iteration++ {
		frequencies := NewFrequencies()
		symbolCount := 1 + rng.Intn(256)
		for i := 0; i < symbolCount; i++ {
			symbol := alphabet.Symbol(rng.Intn(256))
			for n := rng.Intn(1000); n >= 0; n-- {
				frequencies.Add(symbol)
			}
		}

		lengths, err := DeriveCodeLengths(frequencies)
		if err != nil {
			t.Fatalf("iteration %d: DeriveCodeLengths: %v", iteration, err)
		}
		if len(lengths) != frequencies.Len() {
			t.Fatalf("iteration %d: %d lengths for %d symbols", iteration, len(lengths), frequencies.Len())
		}
		if !slices.IsSortedFunc(lengths, CodeLength.Compare) {
			t.Fatalf("iteration %d: lengths not in canonical order", iteration)
		}

		checkPrefixFree(t, lengths, AssignCanonicalCodes(lengths))
	}
}

func TestDeriveCodeLengthsDeterministic(t *testing.T) {
	build := func() []CodeLength {
		frequencies := NewFrequencies()
		frequencies.AddBytes([]byte("the quick brown fox jumps over the lazy dog"))
		lengths, err := DeriveCodeLengths(frequencies)
		if err != nil {
			t.Fatalf("DeriveCodeLengths: %v", err)
		}
		return lengths
	}

	first := build()
	for i := 0; i < 10; i++ {
		if again := build(); !slices.Equal(first, again) {
			t.Fatalf("run %d produced %v, first run %v", i, again, first)
		}
	}
}

func TestAssignCanonicalCodesLengthGaps(t *testing.T) {
	lengths := []CodeLength{{'a', 1}, {'b', 3}, {'c', 3}, {'d', 3}, {'e', 4}, {'f', 4}}
	table := AssignCanonicalCodes(lengths)

	want := map[alphabet.Symbol]string{
		'a': "0", 'b': "100", 'c': "101", 'd': "110", 'e': "1110", 'f': "1111",
	}
	for symbol, code := range want {
		got, _ := table.Lookup(symbol)
		if got.String() != code {
			t.Errorf("code(%s) = %s, want %s", symbol, got, code)
		}
	}
	checkPrefixFree(t, lengths, table)

	if _, ok := table.Lookup('z'); ok {
		t.Error("Lookup of absent symbol reported present")
	}
}

func TestKraft(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    *big.Rat
	}{
		{"complete", []int{1, 2, 2}, big.NewRat(1, 1)},
		{"incomplete", []int{2, 2, 3}, big.NewRat(5, 8)},
		{"oversubscribed", []int{1, 1, 1}, big.NewRat(3, 2)},
		{"zero length counts as one bit", []int{0}, big.NewRat(1, 2)},
		{"empty", nil, new(big.Rat)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lengths := make([]CodeLength, len(tt.lengths))
			for i, length := range tt.lengths {
				lengths[i] = CodeLength{Symbol: alphabet.Symbol(i), Length: length}
			}
			if got := Kraft(lengths); got.Cmp(tt.want) != 0 {
				t.Errorf("Kraft(%v) = %s, want %s", tt.lengths, got.RatString(), tt.want.RatString())
			}
		})
	}
}
