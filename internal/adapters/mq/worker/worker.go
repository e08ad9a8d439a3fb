// Package worker runs queued report imports and records their outcome.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job is what workers read off the queue.
type Job = model.ImportJob

// Applier runs one import against its tournament: decode already
// happened at the HTTP layer, so this is parse, match, points and
// store. Returns how many rows landed and how many matched players.
type Applier interface {
	Apply(ctx context.Context, job Job) (imported, matched int, err error)
}

// StatusStore persists the job record after the outcome is known.
type StatusStore interface {
	PutImportJob(ctx context.Context, j model.ImportJob) error
}

// Notifier is told about finished jobs, success or failure.
type Notifier interface {
	ImportFinished(job Job)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes import jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// ImportWorker implements Worker over an Applier and a StatusStore.
type ImportWorker struct {
	queue    Queue
	applier  Applier
	status   StatusStore
	notifier Notifier
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewImportWorker creates a worker with configuration options applied.
func NewImportWorker(queue Queue, applier Applier, status StatusStore, opts ...Option) *ImportWorker {
	w := &ImportWorker{
		queue:    queue,
		applier:  applier,
		status:   status,
		name:     "import-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ImportWorker) Run(ctx context.Context) {
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
			w.processJob(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ImportWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob applies one import and writes the outcome back. A failed
// apply is a failed job, not a worker error; the worker moves on.
func (w *ImportWorker) processJob(ctx context.Context, job Job) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	imported, matched, err := w.applier.Apply(ctx, job)
	job.FinishedAt = time.Now().UTC()
	if err != nil {
		job.Status = model.ImportFailed
		job.Error = err.Error()
		metrics.RecordImportFailed()
		metrics.RecordErrorByComponent("worker", "apply_failed")
		w.logger.Warn(ctx, "import failed",
			logger.String("job", job.ID),
			logger.String("tournament", job.TournamentID),
			logger.String("kind", string(job.Kind)),
			logger.Error(err),
		)
	} else {
		job.Status = model.ImportDone
		job.RowsImported = imported
		job.RowsMatched = matched
		metrics.RecordImportDone()
		w.logger.Info(ctx, "import done",
			logger.String("job", job.ID),
			logger.String("tournament", job.TournamentID),
			logger.String("kind", string(job.Kind)),
			logger.Int("rows", imported),
			logger.Int("matched", matched),
		)
	}

	if putErr := w.status.PutImportJob(ctx, job); putErr != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "status_write")
		w.logger.Error(ctx, "recording import outcome failed",
			logger.String("job", job.ID),
			logger.Error(putErr),
		)
		return
	}

	if w.notifier != nil {
		w.notifier.ImportFinished(job)
	}
}

// Pool manages a fixed set of import workers.
type Pool struct {
	workers []*ImportWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one
// defaults to the number of CPUs. Options apply to every worker.
func NewPool(workerCount int, queue Queue, applier Applier, status StatusStore, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*ImportWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("import-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("import-worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewImportWorker(queue, applier, status, workerOpts...)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
