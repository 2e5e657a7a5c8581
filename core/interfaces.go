package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jacobsa/timeutil"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution.
// This allows custom panic handling, logging, and recovery strategies.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - ctx: The context from the panicked task
	// - poolID: The ID of the pool where the panic occurred
	// - workerID: The ID of the worker (-1 when the caller was draining via Wait)
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, poolID string, workerID int, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler reports panics through a Logger at Error level, with
// the pool ID, the executor that ran the task, and the stack trace as fields.
// The zero value logs through a DefaultLogger.
type DefaultPanicHandler struct {
	// Logger receives the panic report. Nil selects NewDefaultLogger().
	Logger Logger
}

// HandlePanic logs the recovered panic and its stack trace.
func (h *DefaultPanicHandler) HandlePanic(ctx context.Context, poolID string, workerID int, panicInfo any, stackTrace []byte) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	executor := ExecutorName(ctx)
	if executor == "" {
		if workerID >= 0 {
			executor = fmt.Sprintf("worker %d", workerID)
		} else {
			executor = "caller"
		}
	}
	logger.Error("task panicked",
		F("pool", poolID),
		F("executor", executor),
		F("panic", fmt.Sprint(panicInfo)),
		F("stack", string(stackTrace)))
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting pool execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution
// performance; they are called from worker goroutines and from Submit.
type Metrics interface {
	// RecordTaskDuration records how long a task's Run took, whether on a
	// worker or on a caller draining the queue via Wait(true).
	RecordTaskDuration(poolID string, duration time.Duration)

	// RecordTaskStolen records one completed StealFrom call.
	RecordTaskStolen(poolID string)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(poolID string, panicInfo any)

	// RecordTaskRejected records that a submission was rejected (e.g. after
	// shutdown).
	RecordTaskRejected(poolID string, reason string)

	// RecordQueueDepth records the queue depth observed after a submission.
	RecordQueueDepth(poolID string, depth int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(poolID string, duration time.Duration) {}

// RecordTaskStolen is a no-op.
func (m *NilMetrics) RecordTaskStolen(poolID string) {}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(poolID string, panicInfo any) {}

// RecordTaskRejected is a no-op.
func (m *NilMetrics) RecordTaskRejected(poolID string, reason string) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(poolID string, depth int) {}

// =============================================================================
// Runtime: Hook into the ambient runtime environment
// =============================================================================

// Runtime attaches worker goroutines to an ambient runtime environment.
// Attach is called once per worker before it starts consuming tasks; Detach
// once when the worker exits. An Attach error is fatal for that worker: it
// never enters the task loop.
type Runtime interface {
	Attach(name string) error
	Detach()
}

// NopRuntime is the default Runtime; it accepts every worker and does nothing.
type NopRuntime struct{}

func (NopRuntime) Attach(name string) error { return nil }
func (NopRuntime) Detach()                  {}

// =============================================================================
// Config: Configuration for pools
// =============================================================================

// Config holds configuration options for Pool and StealingPool.
// All fields are optional; zero values select the defaults below.
type Config struct {
	// ID identifies the pool in log fields and metrics labels.
	// Defaults to a random UUID.
	ID string

	// Logger receives lifecycle diagnostics. Defaults to DefaultLogger.
	Logger Logger

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// Metrics is called to record execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// Runtime is the ambient runtime hook. Defaults to NopRuntime.
	Runtime Runtime

	// Clock supplies the time used for wait-time accounting.
	// Defaults to timeutil.RealClock().
	Clock timeutil.Clock

	// PinWorkerThreads locks each worker goroutine to its own OS thread for
	// the lifetime of the worker loop.
	PinWorkerThreads bool
}

// DefaultConfig returns a config with default handlers.
func DefaultConfig() *Config {
	return &Config{
		Logger:       NewDefaultLogger(),
		PanicHandler: &DefaultPanicHandler{},
		Metrics:      &NilMetrics{},
		Runtime:      NopRuntime{},
		Clock:        timeutil.RealClock(),
	}
}
