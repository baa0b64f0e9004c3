package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/core"
)

const (
	// DefaultQueueSize is the pending-job buffer capacity.
	DefaultQueueSize = 64

	// DefaultMaxAttempts bounds attempts per job: one try plus one retry.
	DefaultMaxAttempts = 2

	// DefaultBaseDelay is the initial backoff delay between attempts.
	DefaultBaseDelay = 10 * time.Second
)

// FailureHandler is called when a job has exhausted its retry bound.
type FailureHandler func(sessionID string, err error)

// Queue runs ingestion tasks on a worker pool, decoupled from the
// request path. Enqueue never blocks: a saturated buffer rejects the job
// instead of stalling the caller. Each dequeued job runs under the
// queue's retry policy, so the task itself stays free of retry logic.
type Queue struct {
	task        *Task
	pool        *ants.Pool
	jobs        chan string
	maxAttempts int
	baseDelay   time.Duration
	onFailure   FailureHandler
	logger      *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	consumer sync.WaitGroup
	inflight sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// QueueOption configures a Queue.
type QueueOption func(*Queue) error

// WithWorkers sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) QueueOption {
	return func(q *Queue) error {
		if size < 1 {
			size = 1
		}
		if q.pool != nil {
			q.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		q.pool = pool
		return nil
	}
}

// WithQueueSize sets the pending-job buffer capacity.
// Default is DefaultQueueSize.
func WithQueueSize(size int) QueueOption {
	return func(q *Queue) error {
		if size < 1 {
			size = 1
		}
		q.jobs = make(chan string, size)
		return nil
	}
}

// WithMaxAttempts sets the per-job attempt bound.
// Default is DefaultMaxAttempts.
func WithMaxAttempts(maxAttempts int) QueueOption {
	return func(q *Queue) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		q.maxAttempts = maxAttempts
		return nil
	}
}

// WithBaseDelay sets the initial backoff delay between attempts.
// Default is DefaultBaseDelay.
func WithBaseDelay(delay time.Duration) QueueOption {
	return func(q *Queue) error {
		q.baseDelay = delay
		return nil
	}
}

// WithFailureHandler sets the callback invoked after a job exhausts its
// attempts. The callback runs on a worker goroutine.
func WithFailureHandler(handler FailureHandler) QueueOption {
	return func(q *Queue) error {
		q.onFailure = handler
		return nil
	}
}

// WithQueueLogger sets a custom logger.
// Default is slog.Default().
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) error {
		if logger == nil {
			logger = slog.Default()
		}
		q.logger = logger
		return nil
	}
}

// NewQueue creates a queue and starts its consumer.
// Caller must Close when done.
func NewQueue(task *Task, opts ...QueueOption) (*Queue, error) {
	if task == nil {
		return nil, ErrTaskRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		task:        task,
		pool:        pool,
		jobs:        make(chan string, DefaultQueueSize),
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      slog.Default(),
		ctx:         ctx,
		cancel:      cancel,
	}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			q.pool.Release()
			cancel()
			return nil, err
		}
	}

	q.consumer.Add(1)
	go q.consume()

	return q, nil
}

// Enqueue submits a session for ingestion. Returns immediately:
// ErrQueueFull when the buffer is saturated, ErrQueueClosed after Close.
func (q *Queue) Enqueue(sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- sessionID:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting jobs, drains the buffer, waits for in-flight
// work and releases the pool.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.consumer.Wait()
	q.inflight.Wait()
	q.cancel()
	q.pool.Release()
	return nil
}

// consume feeds buffered jobs to the worker pool.
func (q *Queue) consume() {
	defer q.consumer.Done()
	for sessionID := range q.jobs {
		id := sessionID
		q.inflight.Add(1)
		err := q.pool.Submit(func() {
			defer q.inflight.Done()
			q.run(id)
		})
		if err != nil {
			q.inflight.Done()
			q.logger.Error("failed to submit ingestion job", "session", id, "err", err)
			if q.onFailure != nil {
				q.onFailure(id, err)
			}
		}
	}
}

// run executes one job under the retry policy and reports exhaustion.
func (q *Queue) run(sessionID string) {
	err := RetryWithBackoff(q.ctx, func() error {
		return q.task.Run(q.ctx, sessionID)
	}, q.maxAttempts, q.baseDelay)
	if err == nil {
		return
	}

	q.logger.Error("ingestion failed after retries",
		"session", sessionID, "attempts", q.maxAttempts, "err", err)
	if q.onFailure != nil {
		q.onFailure(sessionID, err)
	}
}
