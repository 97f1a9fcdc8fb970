package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/necroledger/necroledger-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs queued jobs on a fixed pool and scheduled jobs on their own tickers
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan namedJob
	size    int
	stats   WorkerStats
	statsMu sync.RWMutex
	closed  bool
	closeMu sync.Mutex
}

type namedJob struct {
	name string
	run  Job
}

// WorkerStats holds statistics about the worker
type WorkerStats struct {
	ActiveJobs    int        `json:"active_jobs"`
	CompletedJobs int64      `json:"completed_jobs"`
	FailedJobs    int64      `json:"failed_jobs"`
	QueueLength   int        `json:"queue_length"`
	MaxConcurrent int        `json:"max_concurrent"`
	LastRun       *time.Time `json:"last_run,omitempty"`
}

// NewWorker creates a worker with N concurrent processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan namedJob, 100),
		size:   numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to the pool. It returns false when the queue is full or the worker is shut down.
func (w *Worker) Enqueue(name string, job Job) bool {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return false
	}

	select {
	case w.queue <- namedJob{name: name, run: job}:
		return true
	default:
		logger.Warn("[Worker] Queue full, job rejected", "job", name)
		return false
	}
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
			w.run(fmt.Sprintf("Worker %d", workerID), job)
		}
	}
}

// ScheduleEvery runs a job at fixed intervals. The first run happens after the interval.
func (w *Worker) ScheduleEvery(name string, interval time.Duration, job Job) {
	w.schedule(namedJob{name: name, run: job}, interval, false)
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed intervals.
func (w *Worker) ScheduleEveryImmediate(name string, interval time.Duration, job Job) {
	w.schedule(namedJob{name: name, run: job}, interval, true)
}

func (w *Worker) schedule(job namedJob, interval time.Duration, immediate bool) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			w.run("Scheduler", job)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("Scheduler", job)
			}
		}
	}()
}

// run executes one job, recording its outcome. Panics count as failures.
func (w *Worker) run(source string, job namedJob) {
	w.trackJobStart()
	start := time.Now()
	failed := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[%s] Job %s panic: %v", source, job.name, r))
			failed = true
		}
		w.trackJobEnd(start, failed)
	}()

	if err := job.run(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[%s] Job %s error: %v", source, job.name, err))
		failed = true
		return
	}
	logger.Info(fmt.Sprintf("[%s] Job %s completed in %v", source, job.name, time.Since(start)))
}

// Shutdown gracefully stops all workers
func (w *Worker) Shutdown() {
	w.closeMu.Lock()
	if w.closed {
		w.closeMu.Unlock()
		return
	}
	w.closed = true
	w.cancel()
	close(w.queue)
	w.closeMu.Unlock()
	w.wg.Wait()
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.size
	return stats
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

// CompletedJobs counts every finished job; FailedJobs is the failing subset.
func (w *Worker) trackJobEnd(start time.Time, failed bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.CompletedJobs++
	if failed {
		w.stats.FailedJobs++
	}
	w.stats.LastRun = &start
}
