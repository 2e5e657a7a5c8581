package threadpool

import "github.com/Swind/go-thread-pool/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the threadpool package for most use cases.

// Task is the unit of work executed by a pool
type Task = core.Task

// StealableTask is a divisible task for use with StealingPool
type StealableTask = core.StealableTask

// StealableBase must be embedded by StealableTask implementations
type StealableBase = core.StealableBase

// TaskFunc adapts a plain function into a Task with a no-op Finalize
type TaskFunc = core.TaskFunc

// StealableTaskFunc adapts closures into a StealableTask
type StealableTaskFunc = core.StealableTaskFunc

// Pool executes tasks on a fixed set of workers
type Pool = core.Pool

// StealingPool is a Pool whose idle workers help peers via StealFrom
type StealingPool = core.StealingPool

// Config holds optional pool configuration
type Config = core.Config

// PoolStats is a snapshot of a pool's observable state
type PoolStats = core.PoolStats

// Logger is the structured logging interface used by pools
type Logger = core.Logger

// Field is a key-value pair for structured logging
type Field = core.Field

// PanicHandler handles panics escaping task execution
type PanicHandler = core.PanicHandler

// Metrics receives pool execution metrics
type Metrics = core.Metrics

// Runtime attaches worker goroutines to an ambient runtime environment
type Runtime = core.Runtime

// Sentinel errors
var (
	ErrNilTask            = core.ErrNilTask
	ErrPoolShutdown       = core.ErrPoolShutdown
	ErrInvalidWorkerCount = core.ErrInvalidWorkerCount
)

// Constructors and helpers re-exported from core
var (
	NewPool                   = core.NewPool
	NewPoolWithConfig         = core.NewPoolWithConfig
	NewStealingPool           = core.NewStealingPool
	NewStealingPoolWithConfig = core.NewStealingPoolWithConfig
	DefaultConfig             = core.DefaultConfig
	NewDefaultLogger          = core.NewDefaultLogger
	NewNoOpLogger             = core.NewNoOpLogger
	F                         = core.F
)

// ExecutorName reports the name of the worker running the current task, or
// "caller" when the task is being drained by a Wait(true) caller.
var ExecutorName = core.ExecutorName
