// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package huffman derives canonical Huffman codes.
//
// The pipeline has two pure steps:
//
//   - [DeriveCodeLengths] turns a [Frequencies] table into a list of
//     (symbol, code length) pairs sorted in canonical order: ascending
//     length, then ascending symbol. Tree construction merges the two
//     lightest nodes under the (weight, tie key) ordering of
//     [trie.Less], so one frequency table always yields one set of
//     lengths.
//   - [AssignCanonicalCodes] turns a canonically sorted length list into
//     a [CodeTable]. Only the lengths are needed; the tree shape is never
//     transmitted.
//
// A [Frequencies] table is always seeded with the three control symbols
// at count one, so every record's code table can represent them whether
// or not they are used.
package huffman
