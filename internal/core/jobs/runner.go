package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type Config struct {
	MaxWorkers    int
	QueueSize     int
	MaxAttempts   int
	SweepInterval time.Duration
}

type worker struct {
	id         int
	workerPool chan chan Job
	jobChannel chan Job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				w.logger.Debug("worker shutting down", "worker_id", w.id)
				return
			}

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("worker processing job", "worker_id", w.id, "job_id", job.ID, "job", job.Name)
				process(job)
			case <-ctx.Done():
				w.logger.Debug("worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Runner executes registered handlers for jobs held in a Store. Every job is
// persisted before it is dispatched, so a job accepted by Enqueue survives a
// restart and runs at least once.
type Runner struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string]Handler

	inflightMu sync.Mutex
	inflight   map[string]struct{}

	jobQueue      chan Job
	workerPool    chan chan Job
	maxWorkers    int
	maxAttempts   int
	sweepInterval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
	started bool
}

func NewRunner(store Store, config Config, logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	maxAttempts := config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	sweepInterval := config.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Second
	}

	return &Runner{
		store:         store,
		logger:        logger,
		handlers:      make(map[string]Handler),
		inflight:      make(map[string]struct{}),
		jobQueue:      make(chan Job, queueSize),
		workerPool:    make(chan chan Job, maxWorkers),
		maxWorkers:    maxWorkers,
		maxAttempts:   maxAttempts,
		sweepInterval: sweepInterval,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (r *Runner) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[name] = handler
	r.logger.Info("job handler registered", "job", name)
}

func (r *Runner) handler(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Start launches the worker pool and re-dispatches jobs left pending by a
// previous run.
func (r *Runner) Start() {
	r.once.Do(func() {
		for i := 0; i < r.maxWorkers; i++ {
			newWorker(i, r.workerPool, r.logger).start(r.ctx, &r.wg, r.process)
		}

		r.wg.Add(2)
		go r.dispatch()
		go r.sweepLoop()

		r.mu.Lock()
		r.started = true
		r.mu.Unlock()

		r.logger.Info("job runner started",
			"max_workers", r.maxWorkers,
			"queue_size", cap(r.jobQueue),
			"max_attempts", r.maxAttempts)

		r.sweep()
	})
}

// Enqueue persists the job and hands it to the worker pool without blocking.
// A job that does not fit in the queue stays persisted and is picked up by
// the next sweep.
func (r *Runner) Enqueue(ctx context.Context, name string, args interface{}) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	if r.ctx.Err() != nil {
		return Job{}, ErrRunnerStopped
	}
	if _, ok := r.handler(name); !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	job, err := NewJob(name, args)
	if err != nil {
		return Job{}, err
	}

	if err := r.store.Put(job); err != nil {
		return Job{}, fmt.Errorf("failed to persist job %s: %w", name, err)
	}

	r.mu.RLock()
	started := r.started
	r.mu.RUnlock()

	if started && !r.offer(job) {
		r.logger.Warn("job queue full, deferring to sweep",
			"job_id", job.ID,
			"job", name,
			"queue_capacity", cap(r.jobQueue))
	}

	r.logger.Info("job enqueued", "job_id", job.ID, "job", name)
	return job, nil
}

func (r *Runner) offer(job Job) bool {
	r.inflightMu.Lock()
	if _, busy := r.inflight[job.ID]; busy {
		r.inflightMu.Unlock()
		return true
	}
	r.inflight[job.ID] = struct{}{}
	r.inflightMu.Unlock()

	select {
	case r.jobQueue <- job:
		return true
	default:
		r.release(job.ID)
		return false
	}
}

func (r *Runner) release(id string) {
	r.inflightMu.Lock()
	delete(r.inflight, id)
	r.inflightMu.Unlock()
}

func (r *Runner) dispatch() {
	defer r.wg.Done()

	for {
		select {
		case job := <-r.jobQueue:
			select {
			case jobChannel := <-r.workerPool:
				select {
				case jobChannel <- job:
				case <-r.ctx.Done():
					r.logger.Info("dispatcher shutting down")
					return
				}
			case <-r.ctx.Done():
				r.logger.Info("dispatcher shutting down")
				return
			}
		case <-r.ctx.Done():
			r.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (r *Runner) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.ctx.Done():
			return
		}
	}
}

// sweep offers every persisted job that is not already queued or running.
func (r *Runner) sweep() {
	pending, err := r.store.Pending()
	if err != nil {
		r.logger.Error("failed to load pending jobs", "error", err)
		return
	}

	offered := 0
	for _, job := range pending {
		if r.ctx.Err() != nil {
			return
		}
		if !r.offer(job) {
			break
		}
		offered++
	}

	if offered > 0 {
		r.logger.Debug("pending jobs re-dispatched", "count", offered)
	}
}

func (r *Runner) process(queued Job) {
	defer r.release(queued.ID)

	// The queued copy may be stale if a sweep raced with a previous attempt.
	job, found, err := r.store.Get(queued.ID)
	if err != nil {
		r.logger.Error("failed to load job", "job_id", queued.ID, "error", err)
		return
	}
	if !found {
		return
	}

	handler, ok := r.handler(job.Name)
	if !ok {
		job.LastError = ErrUnknownJob.Error()
		r.bury(job)
		return
	}

	result, err := r.run(handler, job)
	if err == nil {
		if delErr := r.store.Delete(job.ID); delErr != nil {
			r.logger.Error("failed to remove completed job", "job_id", job.ID, "error", delErr)
		}
		r.logger.Info("job completed", "job_id", job.ID, "job", job.Name, "result", result)
		return
	}

	job.Attempts++
	job.LastError = err.Error()

	if job.Attempts >= r.maxAttempts {
		r.bury(job)
		return
	}

	r.logger.Warn("job failed, will retry",
		"job_id", job.ID,
		"job", job.Name,
		"attempts", job.Attempts,
		"error", err)

	if putErr := r.store.Put(job); putErr != nil {
		r.logger.Error("failed to record job attempt", "job_id", job.ID, "error", putErr)
	}
}

func (r *Runner) run(handler Handler, job Job) (result string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("job handler panic",
				"job_id", job.ID,
				"job", job.Name,
				"panic", rec,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return handler(r.ctx, job)
}

func (r *Runner) bury(job Job) {
	r.logger.Error("job moved to dead letter bucket",
		"job_id", job.ID,
		"job", job.Name,
		"attempts", job.Attempts,
		"error", job.LastError)

	if err := r.store.Bury(job); err != nil {
		r.logger.Error("failed to bury job", "job_id", job.ID, "error", err)
	}
}

// Shutdown stops the workers after their current job. Jobs still queued
// remain in the store for the next Start.
func (r *Runner) Shutdown() {
	r.logger.Info("shutting down job runner")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("job runner shutdown complete")
}
