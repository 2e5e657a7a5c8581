package core

import "context"

// Task is the unit of work executed by a pool.
//
// The pool never inspects a task's contents. A task is owned by the pool's
// queue while enqueued, by the executing worker while running, and its
// Finalize is invoked exactly once by the last holder after Run has returned.
// Tasks must not reference the pool that executes them.
type Task interface {
	// Run executes the task's work. ctx identifies the executor; use
	// ExecutorName to recover it.
	Run(ctx context.Context)

	// Finalize releases task-owned resources. Called exactly once, after
	// Run has returned.
	Finalize()
}

// StealableTask is a Task whose unfinished internal work may be executed by
// helper workers. Only a StealingPool makes use of the extra contract.
//
// StealFrom and Run on the same task may execute concurrently, as may
// StealFrom calls from different workers; implementations must partition
// their remaining work safely (e.g. by claiming subranges atomically).
//
// Implementations embed StealableBase, which carries the reference count the
// stealing pool maintains. The count is owned by pool internals; tasks must
// not touch it.
type StealableTask interface {
	Task

	// StealFrom executes a portion of source's remaining work on the
	// calling worker. The receiver is the helper's own (already completed)
	// task; source is the peer task being helped.
	StealFrom(ctx context.Context, source StealableTask)

	stealRefs() *uint64
}

// StealableBase provides the reference-count cell every stealable task
// carries. Embed it by value in StealableTask implementations.
type StealableBase struct {
	// Guarded by the stealing pool's steal lock. Finalize fires when the
	// count returns to zero.
	refCount uint64
}

func (b *StealableBase) stealRefs() *uint64 {
	return &b.refCount
}

// TaskFunc adapts a plain closure to the Task interface. Finalize is a no-op.
type TaskFunc func(ctx context.Context)

func (f TaskFunc) Run(ctx context.Context) {
	f(ctx)
}

func (f TaskFunc) Finalize() {}

// StealableTaskFunc adapts closures to the StealableTask interface for tasks
// whose work-partitioning state lives in the enclosing scope. Use a pointer:
// the embedded StealableBase must be shared by everyone holding the task.
//
// RunFunc and StealFromFunc must be safe to call concurrently with each
// other. A nil FinalizeFunc is a no-op.
type StealableTaskFunc struct {
	StealableBase

	RunFunc       func(ctx context.Context)
	StealFromFunc func(ctx context.Context, source StealableTask)
	FinalizeFunc  func()
}

func (f *StealableTaskFunc) Run(ctx context.Context) {
	f.RunFunc(ctx)
}

func (f *StealableTaskFunc) StealFrom(ctx context.Context, source StealableTask) {
	f.StealFromFunc(ctx, source)
}

func (f *StealableTaskFunc) Finalize() {
	if f.FinalizeFunc != nil {
		f.FinalizeFunc()
	}
}

// =============================================================================
// Executor identity
// =============================================================================

type executorKeyType struct{}

var executorKey executorKeyType

// ExecutorName returns the name of the worker running the current task, the
// caller name for tasks drained by Pool.Wait(true), or "" when ctx does not
// belong to a task execution.
func ExecutorName(ctx context.Context) string {
	if v := ctx.Value(executorKey); v != nil {
		return v.(string)
	}
	return ""
}

func withExecutorName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, executorKey, name)
}
