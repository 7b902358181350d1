// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads and writes Huffman archives: a sequence of
// file records, each coded with its own canonical Huffman table.
//
// # Format
//
// An archive is one continuous bit stream, most significant bit first,
// with no alignment between records. Each record is:
//
//   - N, the alphabet size, as a 9-bit field
//   - N symbols in canonical order (ascending code length, then
//     ascending symbol), each a 9-bit field
//   - for code lengths 1, 2, 3 and so on, a 9-bit count of symbols with
//     that length, until the counts add up to N
//   - the coded bytes of the file's basename, then FILENAME_END
//   - the coded bytes of the file's content, then ONE_MORE_FILE when
//     another record follows or END_OF_ARCHIVE when this is the last
//
// The final byte is zero-padded. The header carries code lengths only;
// both sides rebuild the same codes with
// [huffman.AssignCanonicalCodes].
//
// # Errors
//
// Every structural problem found while decoding is reported as
// [ErrInvalidFormat]: a header field out of range, counts that overrun
// the alphabet, an overlapping code table, a bit stream that ends
// mid-symbol, a control symbol out of place, or a stored name that is
// not a plain basename. A destination that cannot be created or
// written is [ErrOutput]. Errors from the bit stream, trie, and
// priority queue never escape this package unwrapped.
//
// Decoding is fail-fast. Files extracted from records before the
// failure are left in place.
package archive
