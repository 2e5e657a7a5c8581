package core

import (
	"context"
	"runtime"
	"runtime/debug"
)

// worker is one long-lived goroutine owned by a pool. It holds a non-owning
// back-reference to the pool; the pool outlives all workers because Shutdown
// joins them.
type worker struct {
	pool *Pool
	id   int
	name string

	// loop is the task-consuming body: runTasks for a plain worker,
	// stealingWorker.runTasks for a stealing one.
	loop func(ctx context.Context)
}

// main is the goroutine entry point: attach to the ambient runtime, consume
// tasks until shutdown, detach.
func (w *worker) main() {
	defer w.pool.join.Done()

	if w.pool.pinWorkers {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	if err := w.pool.runtime.Attach(w.name); err != nil {
		// Fatal for this worker; the pool does not operate with fewer
		// workers than requested, so surface it loudly.
		w.pool.logger.Error("worker failed to attach to runtime",
			F("pool", w.pool.id), F("worker", w.name), F("error", err))
		return
	}
	w.pool.logger.Info("worker attached", F("pool", w.pool.id), F("worker", w.name))
	defer func() {
		w.pool.runtime.Detach()
		w.pool.logger.Info("worker detached", F("pool", w.pool.id), F("worker", w.name))
	}()

	ctx := withExecutorName(context.Background(), w.name)
	w.loop(ctx)
}

// runTasks consumes tasks until the pool shuts down.
func (w *worker) runTasks(ctx context.Context) {
	for {
		t := w.pool.getTask()
		if t == nil {
			return
		}
		w.pool.executeTask(ctx, w.id, t)
		t.Finalize()
	}
}

func stackTrace() []byte {
	return debug.Stack()
}
