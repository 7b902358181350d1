// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pqueue

import (
	"container/heap"
	"errors"
)

// ErrEmpty is returned by Top when the queue holds no items.
var ErrEmpty = errors.New("pqueue: queue is empty")

// Queue is a binary heap over items of type T. The zero value is not
// usable; construct with New.
type Queue[T any] struct {
	items heapSlice[T]
}

// New returns an empty queue ordered by less. less must be a strict
// ordering: less(a, a) is false.
func New[T any](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{items: heapSlice[T]{less: less}}
}

// NewFrom returns a queue holding items, heapified in O(n).
func NewFrom[T any](less func(a, b T) bool, items []T) *Queue[T] {
	queue := New(less)
	queue.items.values = append(make([]T, 0, len(items)), items...)
	heap.Init(&queue.items)
	return queue
}

// Push adds item in O(log n).
func (q *Queue[T]) Push(item T) {
	heap.Push(&q.items, item)
}

// Pop removes the top item. It is a no-op on an empty queue.
func (q *Queue[T]) Pop() {
	if q.IsEmpty() {
		return
	}
	heap.Pop(&q.items)
}

// Top returns the item that orders first without removing it.
func (q *Queue[T]) Top() (T, error) {
	if q.IsEmpty() {
		var zero T
		return zero, ErrEmpty
	}
	return q.items.values[0], nil
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.items.values) }

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool { return len(q.items.values) == 0 }

// heapSlice adapts a slice and an ordering to container/heap.Interface.
type heapSlice[T any] struct {
	values []T
	less   func(a, b T) bool
}

func (h heapSlice[T]) Len() int           { return len(h.values) }
func (h heapSlice[T]) Less(i, j int) bool { return h.less(h.values[i], h.values[j]) }
func (h heapSlice[T]) Swap(i, j int)      { h.values[i], h.values[j] = h.values[j], h.values[i] }
func (h *heapSlice[T]) Push(x any)        { h.values = append(h.values, x.(T)) }
func (h *heapSlice[T]) Pop() any {
	old := h.values
	item := old[len(old)-1]
	var zero T
	old[len(old)-1] = zero
	h.values = old[:len(old)-1]
	return item
}
