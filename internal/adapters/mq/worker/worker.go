// Package worker runs cohort warm-up jobs off the queue.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/playersim/internal/adapters/mq/queue"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
	"github.com/okian/playersim/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Warmer prepares and caches a cohort.
type Warmer interface {
	Warm(ctx context.Context, key model.CohortKey) error
}

// Source is where workers read jobs from.
type Source interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker pulls jobs until its source closes or it is stopped.
type Worker struct {
	source Source
	warmer Warmer
	name   string
	logger logger.Logger

	active *atomic.Int64
	done   chan struct{}
}

// New creates a worker.
func New(source Source, warmer Warmer, opts ...Option) *Worker {
	w := &Worker{
		source: source,
		warmer: warmer,
		name:   "warmer",
		done:   make(chan struct{}),
		active: new(atomic.Int64),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until ctx is cancelled or the source closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for j := range w.source.Dequeue(ctx) {
		w.process(ctx, j)
	}
}

// Done is closed once Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) process(ctx context.Context, j queue.Job) {
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(time.Since(start).Seconds())
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
	}()

	if err := w.warmer.Warm(ctx, j.Key); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "warm_failed")
		w.logger.Warn(ctx, "cohort warm-up failed",
			logger.String("cohort", j.Key.String()),
			logger.Error(err))
		return
	}
	w.logger.Debug(ctx, "cohort warmed",
		logger.String("cohort", j.Key.String()),
		logger.String("waited", start.Sub(j.Enqueued).String()))
}

// Pool runs a fixed number of workers over one source.
type Pool struct {
	workers []*Worker
	source  Source
	logger  logger.Logger

	cancel context.CancelFunc
	once   sync.Once
}

// NewPool creates count workers sharing source and warmer.
func NewPool(count int, source Source, warmer Warmer, opts ...Option) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{workers: make([]*Worker, count), source: source}
	active := new(atomic.Int64)
	for i := range p.workers {
		wopts := append([]Option{WithName("warmer-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = New(source, warmer, wopts...)
		p.workers[i].active = active
	}
	p.logger = p.workers[0].logger
	metrics.UpdateWorkerCount(count)
	return p
}

// Start launches the workers. They stop when ctx ends or Shutdown is called.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Shutdown closes the source when it supports it, lets workers drain,
// and cancels them once ctx or the pool timeout expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		if closer, ok := p.source.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(cerr))
			}
		}
		sctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()
		for i, w := range p.workers {
			select {
			case <-w.Done():
			case <-sctx.Done():
				err = fmt.Errorf("worker %d: %w", i, sctx.Err())
			}
			if err != nil {
				break
			}
		}
		if p.cancel != nil {
			p.cancel()
		}
	})
	return err
}
