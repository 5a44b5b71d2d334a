package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sjperalta/antecipa-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker manages background jobs and scheduled tasks
type Worker struct {
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	queue         chan Job
	asyncSem      chan struct{}
	maxConcurrent int
	cron          *cron.Cron
	stats         WorkerStats
	statsMu       sync.RWMutex
	closeOnce     sync.Once

	// closeMu orders sends on queue against close(queue)
	closeMu sync.RWMutex
	closed  bool
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int      `json:"active_jobs"`
	CompletedJobs int64    `json:"completed_jobs"`
	FailedJobs    int64    `json:"failed_jobs"`
	QueueLength   int      `json:"queue_length"`
	MaxConcurrent int      `json:"max_concurrent"`
	CronJobs      []string `json:"cron_jobs"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	// Allow 2x workers for async jobs
	asyncLimit := numWorkers * 2
	if asyncLimit < 10 {
		asyncLimit = 10
	}

	w := &Worker{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan Job, 100),
		asyncSem:      make(chan struct{}, asyncLimit),
		maxConcurrent: asyncLimit,
		cron:          cron.New(),
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	w.cron.Start()

	return w
}

// Enqueue adds a job to be processed by the worker pool. Jobs enqueued
// after Shutdown are dropped.
func (w *Worker) Enqueue(job Job) {
	queued, open := w.offer(job)
	if !open {
		logger.Warn("[Worker] Shutting down, job dropped")
		return
	}
	if queued {
		return
	}

	logger.Warn("[Worker] Queue full, running job synchronously")
	w.trackJobStart()
	if err := job(w.ctx); err != nil {
		logger.Error("[Worker] Job error", "error", err)
		w.trackJobFailure()
	}
	w.trackJobEnd()
}

// offer tries a non-blocking send while holding the close lock
func (w *Worker) offer(job Job) (queued, open bool) {
	w.closeMu.RLock()
	defer w.closeMu.RUnlock()
	if w.closed {
		return false, false
	}
	select {
	case w.queue <- job:
		return true, true
	default:
		return false, true
	}
}

// EnqueueAsync runs a job in a new goroutine (fire-and-forget), bounded by semaphore
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		w.trackJobStart()
		defer w.trackJobEnd()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("[Worker] Async job panic", "panic", fmt.Sprint(r))
				w.trackJobFailure()
			}
		}()

		if err := job(w.ctx); err != nil {
			logger.Error("[Worker] Async job error", "error", err)
			w.trackJobFailure()
		}
	}()
}

// process handles jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.runQueued(workerID, job)
		}
	}
}

func (w *Worker) runQueued(workerID int, job Job) {
	w.trackJobStart()
	defer w.trackJobEnd()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Worker] Job panic", "worker", workerID, "panic", fmt.Sprint(r))
			w.trackJobFailure()
		}
	}()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error("[Worker] Job error", "worker", workerID, "error", err)
		w.trackJobFailure()
		return
	}
	logger.Debug("[Worker] Job completed", "worker", workerID, "duration", time.Since(start))
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval (not at startup).
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduledJob("interval", job)
			}
		}
	}()
}

// ScheduleCron registers a job on a standard five-field cron expression
func (w *Worker) ScheduleCron(spec, name string, job Job) error {
	_, err := w.cron.AddFunc(spec, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.wg.Add(1)
		defer w.wg.Done()
		w.runScheduledJob(name, job)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q for %s: %w", spec, name, err)
	}

	w.statsMu.Lock()
	w.stats.CronJobs = append(w.stats.CronJobs, name+" ("+spec+")")
	w.statsMu.Unlock()

	logger.Info("[Scheduler] Cron job registered", "job", name, "schedule", spec)
	return nil
}

func (w *Worker) runScheduledJob(name string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Scheduler] Job panic", "job", name, "panic", fmt.Sprint(r))
			w.trackJobFailure()
			w.trackJobEnd()
		}
	}()
	w.trackJobStart()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error("[Scheduler] Job error", "job", name, "error", err)
		w.trackJobFailure()
	} else {
		logger.Info("[Scheduler] Job completed", "job", name, "duration", time.Since(start))
	}
	w.trackJobEnd()
}

// ScheduleAt hands a job to the pool once, at a specific time
func (w *Worker) ScheduleAt(at time.Time, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(time.Until(at))
		defer timer.Stop()

		select {
		case <-w.ctx.Done():
			return
		case <-timer.C:
			w.Enqueue(job)
		}
	}()
}

// Shutdown gracefully stops all workers
func (w *Worker) Shutdown() {
	w.closeOnce.Do(func() {
		<-w.cron.Stop().Done()
		w.cancel()

		w.closeMu.Lock()
		w.closed = true
		close(w.queue)
		w.closeMu.Unlock()

		w.wg.Wait()
	})
}

// Context returns the worker's context for checking cancellation
func (w *Worker) Context() context.Context {
	return w.ctx
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.CronJobs = append([]string(nil), w.stats.CronJobs...)
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.maxConcurrent
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// trackJobEnd counts every finished job; FailedJobs is a subset of CompletedJobs
func (w *Worker) trackJobEnd() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
}

func (w *Worker) trackJobFailure() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.FailedJobs++
}
