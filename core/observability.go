package core

import "time"

// =============================================================================
// PoolStats: Point-in-time snapshot of pool state
// =============================================================================

// PoolStats is a consistent snapshot of a pool's observable state, suitable
// for dashboards and periodic export. Queued, Waiting and TotalWaitTime are
// read together under the queue lock; the counters are monotonically
// increasing totals since the pool was created.
type PoolStats struct {
	// ID is the pool's identifier.
	ID string

	// Workers is the number of workers the pool was created with.
	Workers int

	// Queued is the number of tasks waiting in the queue.
	Queued int

	// Waiting is the number of workers currently blocked waiting for work.
	Waiting int

	// Started reports whether workers may currently dequeue tasks.
	Started bool

	// ShuttingDown reports whether Shutdown has been called.
	ShuttingDown bool

	// TotalWaitTime is the cumulative time workers have spent blocked
	// waiting during the current accounting epoch.
	TotalWaitTime time.Duration

	// TasksExecuted is the total number of task Run calls completed,
	// including tasks drained by callers via Wait.
	TasksExecuted uint64

	// TasksStolen is the total number of completed StealFrom calls. Always
	// zero for a plain Pool.
	TasksStolen uint64
}

// Stats returns a snapshot of the pool's current state.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	s := PoolStats{
		ID:            p.id,
		Workers:       len(p.workers),
		Queued:        p.queue.len(),
		Waiting:       p.waitingCount,
		Started:       p.started,
		ShuttingDown:  p.shuttingDown,
		TotalWaitTime: p.totalWaitTime,
	}
	p.mu.Unlock()

	s.TasksExecuted = p.tasksExecuted.Load()
	s.TasksStolen = p.tasksStolen.Load()
	return s
}
