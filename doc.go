// Package threadpool provides fixed-size worker pools with an optional
// work-stealing execution mode.
//
// The core design keeps a single FIFO queue drained by a fixed set of worker
// goroutines. Workers exist from construction but only dequeue tasks between
// StartWorkers and StopWorkers, so a pool can be loaded with work before any
// of it runs.
//
// # Quick Start
//
// Create a pool, submit tasks, wait for them to finish:
//
//	pool, err := threadpool.NewPool(4) // 4 workers
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	pool.Submit(threadpool.TaskFunc(func(ctx context.Context) {
//		// Your code here
//	}))
//
//	pool.StartWorkers()
//	pool.Wait(true) // the caller helps drain the queue
//
// # Key Concepts
//
// Task: The unit of work. Run executes on a worker goroutine; Finalize is
// called exactly once after the task is fully complete, letting the task own
// its cleanup and result publication.
//
// Pool: The execution engine. A single mutex-protected FIFO queue feeds all
// workers; Submit never blocks on capacity. Wait(doWork) blocks until the
// queue is empty and every worker is idle, optionally draining tasks on the
// calling goroutine first.
//
// StealingPool: A pool for internally divisible tasks. When a worker finishes
// its own task and the queue is empty, it picks a peer still running and calls
// task.StealFrom(ctx, peerTask) to take over part of the peer's remaining
// work. Reference counting guarantees Finalize runs exactly once, possibly on
// a helper rather than the original executor.
//
// # Observability
//
// Pools accept a Logger, a Metrics sink and a PanicHandler via Config. The
// observability/prometheus subpackage exports pool metrics and periodic
// Stats() snapshots to a Prometheus registry; the logging/zaplogger
// subpackage adapts go.uber.org/zap to the Logger interface.
//
// # Example
//
//	import (
//		"context"
//
//		threadpool "github.com/Swind/go-thread-pool"
//	)
//
//	func main() {
//		pool, _ := threadpool.NewPool(4)
//		defer pool.Shutdown()
//
//		for i := 0; i < 100; i++ {
//			pool.Submit(threadpool.TaskFunc(func(ctx context.Context) {
//				println("running on", threadpool.ExecutorName(ctx))
//			}))
//		}
//
//		pool.StartWorkers()
//		pool.Wait(false)
//	}
//
// For more details, see https://github.com/Swind/go-thread-pool
package threadpool
