package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/Swind/go-thread-pool/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type poolStub struct {
	stats core.PoolStats
}

func (s poolStub) Stats() core.PoolStats { return s.stats }

func TestSnapshotPoller_CollectsPoolStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	poller.AddPool("pool-a", poolStub{stats: core.PoolStats{
		Queued:        4,
		Waiting:       2,
		Workers:       8,
		Started:       true,
		TotalWaitTime: 1500 * time.Millisecond,
		TasksExecuted: 42,
		TasksStolen:   3,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		queued := testutil.ToFloat64(poller.poolQueued.WithLabelValues("pool-a"))
		waiting := testutil.ToFloat64(poller.poolWaiting.WithLabelValues("pool-a"))
		return queued == 4 && waiting == 2
	})

	if got := testutil.ToFloat64(poller.poolStarted.WithLabelValues("pool-a")); got != 1 {
		t.Fatalf("pool started gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(poller.poolWorkers.WithLabelValues("pool-a")); got != 8 {
		t.Fatalf("pool workers gauge = %v, want 8", got)
	}
	if got := testutil.ToFloat64(poller.poolWaitSeconds.WithLabelValues("pool-a")); got != 1.5 {
		t.Fatalf("pool wait seconds gauge = %v, want 1.5", got)
	}
	if got := testutil.ToFloat64(poller.poolTasksExecuted.WithLabelValues("pool-a")); got != 42 {
		t.Fatalf("tasks executed gauge = %v, want 42", got)
	}
	if got := testutil.ToFloat64(poller.poolTasksStolen.WithLabelValues("pool-a")); got != 3 {
		t.Fatalf("tasks stolen gauge = %v, want 3", got)
	}
}

func TestSnapshotPoller_StartStop_Idempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()
}

func TestSnapshotPoller_LivePool(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewSnapshotPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSnapshotPoller failed: %v", err)
	}

	pool, err := core.NewPool(2)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Shutdown()

	pool.Submit(core.TaskFunc(func(ctx context.Context) {}))
	pool.StartWorkers()
	pool.Wait(false)

	poller.AddPool("live", pool)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		executed := testutil.ToFloat64(poller.poolTasksExecuted.WithLabelValues("live"))
		workers := testutil.ToFloat64(poller.poolWorkers.WithLabelValues("live"))
		return executed == 1 && workers == 2
	})
}

func assertEventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
