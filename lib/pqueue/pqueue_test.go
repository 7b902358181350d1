// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pqueue

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func TestTopOnEmptyQueue(t *testing.T) {
	queue := New(intLess)

	if _, err := queue.Top(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Top() on empty queue: got error %v, want ErrEmpty", err)
	}
	if !queue.IsEmpty() {
		t.Error("new queue should be empty")
	}
}

func TestPopOnEmptyQueueIsNoop(t *testing.T) {
	queue := New(intLess)
	queue.Pop()
	queue.Pop()

	if queue.Len() != 0 {
		t.Errorf("Len() = %d after popping empty queue, want 0", queue.Len())
	}

	queue.Push(7)
	top, err := queue.Top()
	if err != nil {
		t.Fatalf("Top(): %v", err)
	}
	if top != 7 {
		t.Errorf("Top() = %d, want 7", top)
	}
}

func TestMaxHeapOrdering(t *testing.T) {
	queue := NewFrom(func(a, b int) bool { return a > b }, []int{5, 2, 3, 1, 4})

	for want := 5; want >= 1; want-- {
		got, err := queue.Top()
		if err != nil {
			t.Fatalf("Top(): %v", err)
		}
		if got != want {
			t.Fatalf("Top() = %d, want %d", got, want)
		}
		queue.Pop()
	}
	if !queue.IsEmpty() {
		t.Errorf("queue not empty after draining, Len() = %d", queue.Len())
	}
}

func TestNewFromDoesNotAliasInput(t *testing.T) {
	input := []int{3, 1, 2}
	queue := NewFrom(intLess, input)
	queue.Pop()

	if !slices.Equal(input, []int{3, 1, 2}) {
		t.Errorf("input slice modified: %v", input)
	}
}

// TestRandomInterleaving checks that Top always reports the minimum of
// the items currently queued, against a sorted reference model.
func TestRandomInterleaving(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	queue := New(intLess)
	var model []int

	for step := 0; step < 5000; step++ {
		if rng.Intn(3) == 0 {
			queue.Pop()
			if len(model) > 0 {
				model = model[1:]
			}
		} else {
			value := rng.Intn(100)
			queue.Push(value)
			model = append(model, value)
			slices.Sort(model)
		}

		if queue.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, want %d", step, queue.Len(), len(model))
		}
		top, err := queue.Top()
		if len(model) == 0 {
			if !errors.Is(err, ErrEmpty) {
				t.Fatalf("step %d: Top() error = %v, want ErrEmpty", step, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("step %d: Top(): %v", step, err)
		}
		if top != model[0] {
			t.Fatalf("step %d: Top() = %d, want %d", step, top, model[0])
		}
	}
}

type weighted struct {
	weight int
	key    int
}

func TestCompositeOrderingTieBreak(t *testing.T) {
	less := func(a, b weighted) bool {
		if a.weight != b.weight {
			return a.weight < b.weight
		}
		return a.key < b.key
	}
	queue := New(less)
	for _, item := range []weighted{{2, 9}, {1, 5}, {1, 3}, {2, 1}} {
		queue.Push(item)
	}

	want := []weighted{{1, 3}, {1, 5}, {2, 1}, {2, 9}}
	for i, expected := range want {
		got, err := queue.Top()
		if err != nil {
			t.Fatalf("Top() #%d: %v", i, err)
		}
		if got != expected {
			t.Errorf("Top() #%d = %+v, want %+v", i, got, expected)
		}
		queue.Pop()
	}
}
