package core

import "errors"

var (
	// ErrNilTask is returned when a nil task is submitted.
	ErrNilTask = errors.New("threadpool: task must not be nil")

	// ErrPoolShutdown is returned when a task is submitted after Shutdown.
	ErrPoolShutdown = errors.New("threadpool: pool is shut down")

	// ErrInvalidWorkerCount is returned when a pool is constructed with a
	// non-positive worker count.
	ErrInvalidWorkerCount = errors.New("threadpool: number of workers must be positive")
)
