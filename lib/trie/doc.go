// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trie implements the weighted binary trie used on both sides of
// the Huffman coder.
//
// On the encode side the trie is built bottom-up: [NewLeaf] creates one
// node per symbol and [NewInternal] merges two subtrees, taking sole
// ownership of both. [Node.Traverse] then reports every leaf with its
// path from the root, which is its code.
//
// On the decode side the trie is built top-down: [New] returns an empty
// root and [Node.AddCode] inserts one code at a time, creating internal
// nodes along the path. AddCode rejects any insertion that would break
// the prefix-free property with [ErrCodeConflict], so a corrupt code
// table is caught before any content is decoded. The decoder then walks
// the finished trie with [Node.Child], one bit per step.
//
// Every node carries a weight (a leaf's frequency, or the sum of its
// children) and a tie key (a leaf's symbol, or the smallest tie key
// beneath it). [Less] orders nodes by weight, then tie key, which makes
// Huffman merge order deterministic.
package trie
