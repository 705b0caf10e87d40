package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-profiles/internal/logging"
	"github.com/goliatone/go-profiles/pkg/interfaces"
	"github.com/google/uuid"
)

// Task is a unit of deferred work, typically an ordering repair batch or a
// search reindex pass that the request path does not need to wait for.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes dispatched tasks on background goroutines. Failures are
// logged, never returned to the dispatching caller. Tests switch the runner
// to synchronous mode so task effects are visible without sleeping.
type Runner struct {
	logger      interfaces.Logger
	timeout     time.Duration
	synchronous bool
	now         func() time.Time

	wg sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type Option func(*Runner)

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds each task's context. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSynchronous makes Dispatch run tasks inline before returning.
func WithSynchronous(sync bool) Option {
	return func(r *Runner) {
		r.synchronous = sync
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		if clock != nil {
			r.now = clock
		}
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger:  logging.NoOp(),
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch schedules the task and returns immediately unless the runner is
// synchronous. The task runs with a context detached from the caller's so a
// finished request does not cancel its own repair writes.
func (r *Runner) Dispatch(ctx context.Context, task Task) error {
	if task.Run == nil {
		return fmt.Errorf("jobs: task %q has no run function", task.Name)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return fmt.Errorf("jobs: runner is closed")
	}
	r.wg.Add(1)
	r.mu.Unlock()

	if r.synchronous {
		r.execute(task)
		return nil
	}

	go r.execute(task)
	return nil
}

func (r *Runner) execute(task Task) {
	defer r.wg.Done()

	runID := uuid.NewString()
	started := r.now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("background task panicked",
				"task", task.Name,
				"run_id", runID,
				"panic", fmt.Sprintf("%v", rec),
			)
		}
	}()

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := task.Run(ctx); err != nil {
		r.logger.Error("background task failed",
			"task", task.Name,
			"run_id", runID,
			"duration", r.now().Sub(started).String(),
			"error", err,
		)
		return
	}

	r.logger.Debug("background task completed",
		"task", task.Name,
		"run_id", runID,
		"duration", r.now().Sub(started).String(),
	)
}

// Wait blocks until every dispatched task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting new tasks and waits for in-flight ones.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
