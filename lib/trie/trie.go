// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trie

import (
	"errors"
	"fmt"
	"math"

	"github.com/bureau-foundation/archiver/lib/alphabet"
)

var (
	// ErrCodeConflict is returned by AddCode when the new code
	// duplicates an existing one, is a prefix of an existing one, or
	// has an existing code as its prefix.
	ErrCodeConflict = errors.New("trie: code conflicts with an existing code")

	// ErrInvalidLength is returned by AddCode for a code length that
	// cannot be carried in a uint64.
	ErrInvalidLength = errors.New("trie: invalid code length")
)

// CodeWeight is the weight of a leaf inserted by AddCode when no
// frequency is known, as when rebuilding a trie from a code table.
const CodeWeight uint64 = 1

// noTieKey is the tie key of a node with no terminal beneath it. It
// orders after every real symbol.
const noTieKey = alphabet.Symbol(math.MaxUint16)

// Node is one vertex of the trie. A node reached through AddCode's
// target position, or built by NewLeaf, is terminal and carries a
// symbol. Every other node is an internal branching point.
type Node struct {
	left, right *Node

	symbol   alphabet.Symbol
	weight   uint64
	tieKey   alphabet.Symbol
	terminal bool
}

// New returns an empty root for top-down construction with AddCode.
func New() *Node {
	return &Node{tieKey: noTieKey}
}

// NewLeaf returns a terminal node for symbol with the given weight.
func NewLeaf(symbol alphabet.Symbol, weight uint64) *Node {
	return &Node{
		symbol:   symbol,
		weight:   weight,
		tieKey:   symbol,
		terminal: true,
	}
}

// NewInternal returns a node owning left and right. Its weight and tie
// key are computed once here; children never change after merging.
func NewInternal(left, right *Node) *Node {
	node := &Node{left: left, right: right}
	node.relax()
	return node
}

// Less orders nodes by weight, then by tie key. Used as the priority
// queue ordering during Huffman construction.
func Less(a, b *Node) bool {
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.tieKey < b.tieKey
}

// IsTerminal reports whether the node carries a symbol.
func (n *Node) IsTerminal() bool { return n.terminal }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.left == nil && n.right == nil }

// Symbol returns the symbol of a terminal node.
func (n *Node) Symbol() alphabet.Symbol { return n.symbol }

// Weight returns the node's weight.
func (n *Node) Weight() uint64 { return n.weight }

// TieKey returns the smallest symbol at or beneath the node.
func (n *Node) TieKey() alphabet.Symbol { return n.tieKey }

// Child returns the left child for bit 0 and the right child for any
// other bit. The result is nil when that child does not exist.
func (n *Node) Child(bit uint8) *Node {
	if bit == 0 {
		return n.left
	}
	return n.right
}

// Traverse visits every terminal node depth-first, left before right.
// code holds the path from the root with 0 for each left step and 1 for
// each right step; depth is the path length. A root that is itself
// terminal is visited with code 0 and depth 0.
func (n *Node) Traverse(visit func(code uint64, depth int, symbol alphabet.Symbol)) {
	n.traverse(visit, 0, 0)
}

func (n *Node) traverse(visit func(uint64, int, alphabet.Symbol), code uint64, depth int) {
	if n.terminal {
		visit(code, depth, n.symbol)
		return
	}
	if n.left != nil {
		n.left.traverse(visit, code<<1, depth+1)
	}
	if n.right != nil {
		n.right.traverse(visit, code<<1|1, depth+1)
	}
}

// AddCode inserts symbol at the path given by the low length bits of
// code, most significant first. Internal nodes are created as needed
// and the weights and tie keys along the path are updated.
//
// A failed insertion leaves any internal nodes it created in place but
// never marks a node terminal, so the trie's existing codes are intact.
func (n *Node) AddCode(code uint64, length int, symbol alphabet.Symbol, weight uint64) error {
	if length < 0 || length > alphabet.MaxCodeLength {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	path := make([]*Node, 0, length+1)
	node := n
	for depth := 0; depth < length; depth++ {
		if node.terminal {
			return fmt.Errorf("%w: %s passes through the code of %s",
				ErrCodeConflict, formatCode(code, length), node.symbol)
		}
		path = append(path, node)

		bit := (code >> uint(length-depth-1)) & 1
		next := &node.left
		if bit == 1 {
			next = &node.right
		}
		if *next == nil {
			*next = &Node{tieKey: noTieKey}
		}
		node = *next
	}

	if node.terminal {
		return fmt.Errorf("%w: %s is already assigned to %s",
			ErrCodeConflict, formatCode(code, length), node.symbol)
	}
	if !node.IsLeaf() {
		return fmt.Errorf("%w: %s is a prefix of an existing code",
			ErrCodeConflict, formatCode(code, length))
	}

	node.symbol = symbol
	node.weight = weight
	node.tieKey = symbol
	node.terminal = true

	for i := len(path) - 1; i >= 0; i-- {
		path[i].relax()
	}
	return nil
}

// relax recomputes an internal node's weight and tie key from its
// children.
func (n *Node) relax() {
	n.weight = 0
	n.tieKey = noTieKey
	for _, child := range [2]*Node{n.left, n.right} {
		if child == nil {
			continue
		}
		n.weight += child.weight
		n.tieKey = min(n.tieKey, child.tieKey)
	}
}

// formatCode renders the low length bits of code as a binary string.
func formatCode(code uint64, length int) string {
	if length == 0 {
		return "<empty code>"
	}
	return fmt.Sprintf("%0*b", length, code&(math.MaxUint64>>uint(64-length)))
}
