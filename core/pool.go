package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jacobsa/timeutil"
)

// Pool runs submitted tasks on a fixed set of workers that drain a shared
// FIFO queue.
//
// Workers are created and started by the constructor but dequeue nothing
// until StartWorkers is called; tasks submitted before that wait in the
// queue. Shutdown is the only way to terminate the workers.
type Pool struct {
	/////////////////////////
	// Dependencies
	/////////////////////////

	id           string
	logger       Logger
	panicHandler PanicHandler
	metrics      Metrics
	runtime      Runtime
	clock        timeutil.Clock
	pinWorkers   bool

	/////////////////////////
	// Mutable state
	/////////////////////////

	// mu is the queue lock. It guards queue, waitingCount, started,
	// shuttingDown, startTime and totalWaitTime.
	mu       sync.Mutex
	notEmpty *sync.Cond // signalled when the pool gains work or changes lifecycle state
	allIdle  *sync.Cond // signalled when all workers are waiting and the queue is empty

	queue        taskQueue
	workers      []*worker
	started      bool
	shuttingDown bool
	waitingCount int

	// Wait-time accounting for the current epoch (since the last
	// StartWorkers call).
	startTime     time.Time
	totalWaitTime time.Duration

	tasksExecuted atomic.Uint64
	tasksStolen   atomic.Uint64

	join sync.WaitGroup
}

// NewPool creates a pool with numWorkers workers and default configuration.
// The workers start immediately but stay blocked until StartWorkers.
func NewPool(numWorkers int) (*Pool, error) {
	return NewPoolWithConfig(numWorkers, DefaultConfig())
}

// NewPoolWithConfig creates a pool with numWorkers workers using config.
func NewPoolWithConfig(numWorkers int, config *Config) (*Pool, error) {
	p := &Pool{}
	if err := initPool(p, numWorkers, config); err != nil {
		return nil, err
	}

	for i := 0; i < numWorkers; i++ {
		w := &worker{
			pool: p,
			id:   i,
			name: fmt.Sprintf("Thread pool worker %d", i),
		}
		w.loop = w.runTasks
		p.workers = append(p.workers, w)
	}
	p.spawnWorkers()

	return p, nil
}

// initPool fills in the shared pool state without creating any workers.
// Pool and StealingPool constructors both build on it.
func initPool(p *Pool, numWorkers int, config *Config) error {
	if numWorkers <= 0 {
		return ErrInvalidWorkerCount
	}

	if config == nil {
		config = DefaultConfig()
	}
	p.id = config.ID
	p.logger = config.Logger
	p.panicHandler = config.PanicHandler
	p.metrics = config.Metrics
	p.runtime = config.Runtime
	p.clock = config.Clock
	p.pinWorkers = config.PinWorkerThreads
	p.queue = newTaskQueue()

	// Use defaults if not provided
	if p.id == "" {
		p.id = uuid.NewString()
	}
	if p.logger == nil {
		p.logger = NewDefaultLogger()
	}
	if h, ok := p.panicHandler.(*DefaultPanicHandler); p.panicHandler == nil || (ok && (h == nil || h.Logger == nil)) {
		// Default handler reports through the pool's own logger.
		p.panicHandler = &DefaultPanicHandler{Logger: p.logger}
	}
	if p.metrics == nil {
		p.metrics = &NilMetrics{}
	}
	if p.runtime == nil {
		p.runtime = NopRuntime{}
	}
	if p.clock == nil {
		p.clock = timeutil.RealClock()
	}

	p.notEmpty = sync.NewCond(&p.mu)
	p.allIdle = sync.NewCond(&p.mu)

	return nil
}

// spawnWorkers launches the goroutine for every worker in p.workers.
func (p *Pool) spawnWorkers() {
	for _, w := range p.workers {
		p.join.Add(1)
		go w.main()
	}
}

// ID returns the pool's identifier.
func (p *Pool) ID() string {
	return p.id
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return len(p.workers)
}

// Submit appends task to the queue and, if any worker is blocked waiting,
// wakes one. It never blocks on queue capacity; the queue is unbounded.
//
// Returns ErrNilTask for a nil task and ErrPoolShutdown after Shutdown.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.shuttingDown {
		p.mu.Unlock()
		p.metrics.RecordTaskRejected(p.id, "shutdown")
		return ErrPoolShutdown
	}

	p.queue.push(task)
	depth := p.queue.len()
	// If we have any waiters, signal one.
	if p.waitingCount != 0 {
		p.notEmpty.Signal()
	}
	p.mu.Unlock()

	p.metrics.RecordQueueDepth(p.id, depth)
	return nil
}

// StartWorkers lets workers dequeue tasks and begins a new wait-time
// accounting epoch. Safe to call repeatedly; each call redefines the epoch.
func (p *Pool) StartWorkers() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = true
	p.notEmpty.Broadcast()
	p.startTime = p.clock.Now()
	p.totalWaitTime = 0
}

// StopWorkers stops workers from dequeuing further tasks. Queued tasks
// remain queued and in-flight tasks run to completion.
//
// Workers already blocked waiting are not woken: they stay blocked until a
// submission signals them or Shutdown broadcasts.
func (p *Pool) StopWorkers() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = false
}

// TaskCount returns a snapshot of the number of queued tasks.
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.queue.len()
}

// TotalWaitTime returns the cumulative time workers have spent blocked
// waiting for work during the current accounting epoch.
func (p *Pool) TotalWaitTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.totalWaitTime
}

// TryGetTask removes and returns the task at the head of the queue, or nil
// when the pool is not started or the queue is empty. The caller becomes the
// task's owner and must call Run and Finalize itself.
func (p *Pool) TryGetTask() Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tryGetTaskLocked()
}

func (p *Pool) tryGetTaskLocked() Task {
	if p.started {
		if t, ok := p.queue.pop(); ok {
			return t
		}
	}
	return nil
}

// getTask blocks until a task is available and returns it, or returns nil
// when the pool is shutting down and the worker should exit.
func (p *Pool) getTask() Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.shuttingDown {
		if t := p.tryGetTaskLocked(); t != nil {
			return t
		}

		p.waitingCount++
		if p.waitingCount == len(p.workers) && p.queue.empty() {
			// We may be done, let the completion waiters re-check.
			p.allIdle.Broadcast()
		}
		waitStart := p.clock.Now()
		p.notEmpty.Wait()
		waitEnd := p.clock.Now()
		// Idle time accumulated before the current epoch is excluded.
		if waitStart.Before(p.startTime) {
			waitStart = p.startTime
		}
		p.totalWaitTime += waitEnd.Sub(waitStart)
		p.waitingCount--
	}

	// Shutting down; nil tells the worker to stop looping.
	return nil
}

// Wait blocks until every worker is blocked waiting and the queue is empty,
// or until Shutdown is in progress. When doWork is true the caller first
// drains the queue itself, running tasks to completion on its own goroutine.
func (p *Pool) Wait(doWork bool) {
	if doWork {
		ctx := withExecutorName(context.Background(), "caller")
		for {
			t := p.TryGetTask()
			if t == nil {
				break
			}
			p.executeTask(ctx, -1, t)
			t.Finalize()
		}
	}

	// Wait until each worker is waiting and the task list is empty. The
	// caller above is not a worker and does not count toward the predicate;
	// its own draining is already finished here.
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.shuttingDown && (p.waitingCount != len(p.workers) || !p.queue.empty()) {
		p.allIdle.Wait()
	}
}

// Shutdown stops the pool and joins all workers. Queued tasks are dropped
// without running; in-flight tasks complete first. Safe to call repeatedly;
// calls after the first are no-ops.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shuttingDown {
		p.mu.Unlock()
		p.join.Wait()
		return
	}
	// Tell any remaining workers to shut down and wake everyone waiting.
	p.shuttingDown = true
	p.notEmpty.Broadcast()
	p.allIdle.Broadcast()
	p.mu.Unlock()

	p.join.Wait()
	p.logger.Debug("pool shut down", F("pool", p.id))
}

// executeTask runs t.Run with panic containment. Task failures are the
// task's responsibility; the pool only keeps its workers alive and reports.
func (p *Pool) executeTask(ctx context.Context, workerID int, t Task) {
	start := p.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordTaskPanic(p.id, r)
			p.panicHandler.HandlePanic(ctx, p.id, workerID, r, stackTrace())
		}
		p.metrics.RecordTaskDuration(p.id, p.clock.Now().Sub(start))
		p.tasksExecuted.Add(1)
	}()

	t.Run(ctx)
}
