// Package worker analyzes queued batch fixtures.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/kitcheck/internal/adapters/mq/queue"
	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/pkg/logger"
	"github.com/okian/kitcheck/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) service.Report
}

// Result is the report for one fixture.
type Result struct {
	Index  int            `json:"-" yaml:"-"`
	Name   string         `json:"name" yaml:"name"`
	Report service.Report `json:"report" yaml:"report"`
}

// Collector receives finished results. Implementations must be safe for
// concurrent use.
type Collector interface {
	Collect(ctx context.Context, r Result)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs and hands the reports to a Collector.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	analyzer  Analyzer
	collector Collector
	name      string

	processed atomic.Int64

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger  logger.Logger
	metrics *metrics.Manager
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, analyzer Analyzer, collector Collector, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		analyzer:  analyzer,
		collector: collector,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	if w.metrics == nil {
		w.metrics = metrics.Default()
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns how many jobs this worker finished.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	report := w.analyzer.Analyze(ctx, job.Request)
	latency := float64(time.Since(start).Microseconds()) / 1000

	w.metrics.RecordBatchJob(report.Status, latency)
	w.processed.Add(1)
	if report.Status == service.StatusError {
		w.logger.Warn(ctx, "fixture rejected",
			logger.String("fixture", job.Name),
			logger.String("error", report.Error),
		)
	}
	w.collector.Collect(ctx, Result{Index: job.Index, Name: job.Name, Report: report})
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. A workerCount below 1 uses runtime.NumCPU().
// opts are applied to every worker; names are assigned by the pool.
func NewPool(workerCount int, q Queue, analyzer Analyzer, collector Collector, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, analyzer, collector, workerOpts...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has exited, which happens once the queue is
// closed and drained or ctx is canceled.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return fmt.Errorf("wait for workers: %w", ctx.Err())
		}
	}
	return nil
}

// Processed returns the number of jobs finished across the pool.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Shutdown closes the queue and stops every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

// Results collects results in memory.
type Results struct {
	mu    sync.Mutex
	items []Result
}

// Collect appends r.
func (c *Results) Collect(_ context.Context, r Result) {
	c.mu.Lock()
	c.items = append(c.items, r)
	c.mu.Unlock()
}

// Sorted returns the collected results ordered by job index.
func (c *Results) Sorted() []Result {
	c.mu.Lock()
	out := make([]Result, len(c.items))
	copy(out, c.items)
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
