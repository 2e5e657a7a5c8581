package core

import (
	"context"
	"testing"
)

// TestTaskQueue_FIFOOrder verifies insertion-order dequeue
// Given: A queue with several tasks
// When: Tasks are popped
// Then: They come back in the order they were pushed
func TestTaskQueue_FIFOOrder(t *testing.T) {
	q := newTaskQueue()

	results := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		n := i
		q.push(TaskFunc(func(ctx context.Context) {
			results = append(results, n)
		}))
	}

	if got := q.len(); got != 3 {
		t.Fatalf("len = %d, want 3", got)
	}

	for i := 0; i < 3; i++ {
		task, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d: queue unexpectedly empty", i)
		}
		task.Run(context.Background())
	}

	for i, got := range results {
		if got != i {
			t.Errorf("position %d: task %d, want %d", i, got, i)
		}
	}

	if !q.empty() {
		t.Error("queue not empty after draining")
	}
	if _, ok := q.pop(); ok {
		t.Error("pop on empty queue returned a task")
	}
}

// TestTaskQueue_ReuseAfterDrain verifies the queue stays usable across cycles
// Given: A queue drained to empty multiple times
// When: New tasks are pushed after each drain
// Then: Ordering and counts remain correct
func TestTaskQueue_ReuseAfterDrain(t *testing.T) {
	q := newTaskQueue()
	noop := TaskFunc(func(ctx context.Context) {})

	for cycle := 0; cycle < 3; cycle++ {
		const n = 200
		for i := 0; i < n; i++ {
			q.push(noop)
		}
		if got := q.len(); got != n {
			t.Fatalf("cycle %d: len = %d, want %d", cycle, got, n)
		}
		for i := 0; i < n; i++ {
			if _, ok := q.pop(); !ok {
				t.Fatalf("cycle %d: pop %d failed", cycle, i)
			}
		}
		if !q.empty() {
			t.Fatalf("cycle %d: queue not empty", cycle)
		}
	}
}
