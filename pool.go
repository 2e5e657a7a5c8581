package threadpool

import (
	"sync"

	"github.com/Swind/go-thread-pool/core"
)

// =============================================================================
// Global Pool Helper (Singleton)
// =============================================================================

var (
	globalPool *core.Pool
	globalMu   sync.Mutex
)

// InitGlobalPool initializes the global pool with the specified number of
// workers and starts them immediately. Calling it again while a global pool
// exists is a no-op.
func InitGlobalPool(workers int) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool != nil {
		return nil // Already initialized
	}

	config := core.DefaultConfig()
	config.ID = "global-pool"
	pool, err := core.NewPoolWithConfig(workers, config)
	if err != nil {
		return err
	}
	pool.StartWorkers()
	globalPool = pool
	return nil
}

// GetGlobalPool returns the global pool instance.
// It panics if InitGlobalPool has not been called.
func GetGlobalPool() *core.Pool {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool == nil {
		panic("global pool not initialized. Call InitGlobalPool() first.")
	}
	return globalPool
}

// ShutdownGlobalPool shuts down the global pool. Queued tasks that have not
// started are dropped.
func ShutdownGlobalPool() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalPool != nil {
		globalPool.Shutdown()
		globalPool = nil
	}
}

// Submit submits a task to the global pool.
func Submit(task core.Task) error {
	return GetGlobalPool().Submit(task)
}
