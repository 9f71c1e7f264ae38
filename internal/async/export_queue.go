package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
)

// ExportQueue runs export jobs on a fixed worker pool behind a buffered
// channel. Submission never blocks the HTTP response path; each job gets its
// own deadline so a stuck query or write cannot pin a worker forever.
type ExportQueue struct {
	proc    Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ExportQueue)

func WithWorkers(n int) Option {
	return func(q *ExportQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ExportQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(q *ExportQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewExportQueue(proc Processor, logger *slog.Logger, opts ...Option) *ExportQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ExportQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ExportQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("export worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.proc.Process(ctx, job.JobID, job.Request)
					cancel()

					if err != nil {
						q.logger.Error("export job failed", "worker_id", workerID, "job_id", job.JobID, "error", err)
					} else {
						q.logger.Info("export job processed", "worker_id", workerID, "job_id", job.JobID)
					}
				}

				q.logger.Info("export worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue hands a job to the worker pool. It returns in bounded time: a full
// buffer rejects the job rather than blocking submission, and jobs are refused
// once shutdown has begun. The caller records the rejection on the job.
func (q *ExportQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.JobID)
		return common.NewAppError("QUEUE_CLOSED", "export queue is shutting down", common.ErrInternal)
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued export job", "job_id", job.JobID, "format", job.Request.Format)
		return nil
	default:
		q.logger.Warn("queue full, rejecting job", "job_id", job.JobID)
		return common.NewAppError("QUEUE_FULL", "export queue is full", common.ErrInternal)
	}
}

// Shutdown stops intake and waits for in-flight jobs to drain, bounded by ctx.
func (q *ExportQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
