package core

import (
	"context"
	"fmt"
	"sync"
)

// StealingPool is a Pool whose tasks are internally divisible: after a
// worker finishes its own task it helps peers that are still running, by
// executing subranges of the peer's task via StealFrom.
//
// Every task submitted to a StealingPool must implement StealableTask.
type StealingPool struct {
	Pool

	// stealMu guards the stealing protocol: every task's reference count
	// and every worker's currentTask slot, plus the cursor below. Strictly
	// ordered below the queue lock: the queue lock is never acquired while
	// stealMu is held.
	stealMu sync.Mutex

	// stealCursor rotates through workers for approximate round-robin
	// victim selection.
	stealCursor int

	stealWorkers []*stealingWorker
}

// stealingWorker is a worker that also participates in the peer-stealing
// protocol.
type stealingWorker struct {
	worker
	spool *StealingPool

	// currentTask is the task this worker is executing, or nil. Written
	// only by the owning worker; read by peers. Both under stealMu.
	currentTask StealableTask
}

// NewStealingPool creates a work-stealing pool with numWorkers workers and
// default configuration.
func NewStealingPool(numWorkers int) (*StealingPool, error) {
	return NewStealingPoolWithConfig(numWorkers, DefaultConfig())
}

// NewStealingPoolWithConfig creates a work-stealing pool with numWorkers
// workers using config.
func NewStealingPoolWithConfig(numWorkers int, config *Config) (*StealingPool, error) {
	sp := &StealingPool{}
	if err := initPool(&sp.Pool, numWorkers, config); err != nil {
		return nil, err
	}

	for i := 0; i < numWorkers; i++ {
		sw := &stealingWorker{spool: sp}
		sw.worker = worker{
			pool: &sp.Pool,
			id:   i,
			name: fmt.Sprintf("Work stealing worker %d", i),
		}
		sw.loop = sw.runTasks
		sp.stealWorkers = append(sp.stealWorkers, sw)
		sp.workers = append(sp.workers, &sw.worker)
	}
	sp.spawnWorkers()

	return sp, nil
}

// findStealTargetLocked scans every worker slot once, starting just past the
// cursor, and returns the first published task found, or nil. Fairness is
// approximate. Caller holds stealMu.
func (sp *StealingPool) findStealTargetLocked() StealableTask {
	n := len(sp.stealWorkers)
	for i := 0; i < n; i++ {
		sp.stealCursor++
		if sp.stealCursor >= n {
			sp.stealCursor -= n
		}
		if t := sp.stealWorkers[sp.stealCursor].currentTask; t != nil {
			return t
		}
	}
	// Couldn't find something to steal.
	return nil
}

// runTasks consumes tasks until the pool shuts down. For each task the
// worker registers itself as the executor, runs the task, then helps peers
// until the queue has work again, and finalizes whatever it was the last
// holder of.
func (sw *stealingWorker) runTasks(ctx context.Context) {
	sp := sw.spool
	for {
		t := sp.getTask()
		if t == nil {
			return
		}
		task, ok := t.(StealableTask)
		if !ok {
			panic(fmt.Sprintf("BUG: stealing pool requires StealableTask, got %T", t))
		}

		sp.stealMu.Lock()
		if sw.currentTask != nil {
			panic("BUG: worker already has a published task")
		}
		// Register that we are running the task.
		*task.stealRefs()++
		sw.currentTask = task
		sp.stealMu.Unlock()

		sp.executeTask(ctx, sw.id, task)

		// Unpublish so nobody new tries to steal from us. A peer that
		// observed the slot just before the clear still holds a
		// reference, which keeps the task alive.
		sp.stealMu.Lock()
		sw.currentTask = nil
		sp.stealMu.Unlock()

		// Steal work from peers until there is none left to steal or the
		// queue has tasks again. The queue check happens outside stealMu
		// (lock order: queue lock is never taken under stealMu).
		for sp.TaskCount() == 0 {
			sp.stealMu.Lock()
			target := sp.findStealTargetLocked()
			if target == nil {
				sp.stealMu.Unlock()
				break
			}
			if target == task {
				panic("BUG: attempting to steal from completed self task")
			}
			*target.stealRefs()++
			sp.stealMu.Unlock()

			// The task which completed earlier steals some work.
			sw.executeSteal(ctx, task, target)

			if sp.dropRef(target) {
				target.Finalize()
			}
		}

		// If nobody is still referencing our task we can finalize it.
		if sp.dropRef(task) {
			task.Finalize()
		}
	}
}

// dropRef decrements task's reference count and reports whether the caller
// became the last holder and must finalize.
func (sp *StealingPool) dropRef(task StealableTask) bool {
	sp.stealMu.Lock()
	defer sp.stealMu.Unlock()

	refs := task.stealRefs()
	if *refs == 0 {
		panic("BUG: stealable task reference count underflow")
	}
	*refs--
	return *refs == 0
}

// executeSteal runs task.StealFrom(source) with panic containment, mirroring
// executeTask.
func (sw *stealingWorker) executeSteal(ctx context.Context, task, source StealableTask) {
	sp := sw.spool
	defer func() {
		if r := recover(); r != nil {
			sp.metrics.RecordTaskPanic(sp.id, r)
			sp.panicHandler.HandlePanic(ctx, sp.id, sw.id, r, stackTrace())
		}
		sp.metrics.RecordTaskStolen(sp.id)
		sp.tasksStolen.Add(1)
	}()

	task.StealFrom(ctx, source)
}
