package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Swind/go-thread-pool/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshotProvider provides current pool stats snapshots. Both Pool and
// StealingPool satisfy it.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots into Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueued        *prom.GaugeVec
	poolWaiting       *prom.GaugeVec
	poolWorkers       *prom.GaugeVec
	poolStarted       *prom.GaugeVec
	poolWaitSeconds   *prom.GaugeVec
	poolTasksExecuted *prom.GaugeVec
	poolTasksStolen   *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_queued",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	poolWaiting := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_waiting_workers",
		Help:      "Workers blocked waiting for work per pool.",
	}, []string{"pool"})
	poolWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_workers",
		Help:      "Worker count per pool.",
	}, []string{"pool"})
	poolStarted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_started",
		Help:      "Pool started state (1=started, 0=stopped).",
	}, []string{"pool"})
	poolWaitSeconds := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_wait_time_seconds",
		Help:      "Cumulative worker wait time in the current accounting epoch.",
	}, []string{"pool"})
	poolTasksExecuted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_tasks_executed",
		Help:      "Tasks executed since pool creation, snapshot.",
	}, []string{"pool"})
	poolTasksStolen := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "threadpool",
		Name:      "pool_tasks_stolen",
		Help:      "Steal operations since pool creation, snapshot.",
	}, []string{"pool"})

	var err error
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolWaiting, err = registerCollector(reg, poolWaiting); err != nil {
		return nil, err
	}
	if poolWorkers, err = registerCollector(reg, poolWorkers); err != nil {
		return nil, err
	}
	if poolStarted, err = registerCollector(reg, poolStarted); err != nil {
		return nil, err
	}
	if poolWaitSeconds, err = registerCollector(reg, poolWaitSeconds); err != nil {
		return nil, err
	}
	if poolTasksExecuted, err = registerCollector(reg, poolTasksExecuted); err != nil {
		return nil, err
	}
	if poolTasksStolen, err = registerCollector(reg, poolTasksStolen); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:          interval,
		pools:             make(map[string]PoolSnapshotProvider),
		poolQueued:        poolQueued,
		poolWaiting:       poolWaiting,
		poolWorkers:       poolWorkers,
		poolStarted:       poolStarted,
		poolWaitSeconds:   poolWaitSeconds,
		poolTasksExecuted: poolTasksExecuted,
		poolTasksStolen:   poolTasksStolen,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolWaiting.WithLabelValues(name).Set(float64(stats.Waiting))
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		if stats.Started {
			p.poolStarted.WithLabelValues(name).Set(1)
		} else {
			p.poolStarted.WithLabelValues(name).Set(0)
		}
		p.poolWaitSeconds.WithLabelValues(name).Set(stats.TotalWaitTime.Seconds())
		p.poolTasksExecuted.WithLabelValues(name).Set(float64(stats.TasksExecuted))
		p.poolTasksStolen.WithLabelValues(name).Set(float64(stats.TasksStolen))
	}
	p.poolsMu.RUnlock()
}
