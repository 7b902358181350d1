// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pqueue provides a generic binary-heap priority queue ordered
// by a caller-supplied strict ordering.
//
// The element reported by [Queue.Top] is the one that orders first under
// the less function, so a less of "a.weight < b.weight" yields a
// min-heap. [Queue.Pop] on an empty queue does nothing; [Queue.Top] on
// an empty queue returns [ErrEmpty].
//
// This package has no dependencies on other archiver packages.
package pqueue
