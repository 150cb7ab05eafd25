package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"

	"github.com/baselinescan/baselinescan/diagnostics"
)

// Options tunes the guard. Zero values fall back to defaults.
type Options struct {
	// MaxConcurrent caps the number of simultaneously running analyses.
	MaxConcurrent int
	// BaseTimeout is the deadline for the smallest inputs.
	BaseTimeout time.Duration
	// MaxTimeout is the hard ceiling on any single deadline.
	MaxTimeout time.Duration
}

const (
	defaultMaxConcurrent = 4
	defaultBaseTimeout   = 2 * time.Second
	defaultMaxTimeout    = 10 * time.Second

	// timeoutPerKB extends the deadline for larger inputs.
	timeoutPerKB = 5 * time.Millisecond
)

// Task is the transient record of one in-flight analysis.
type Task struct {
	ID        string
	FileName  string
	Operation string
	StartTime time.Time
	Deadline  time.Time
	cancel    context.CancelFunc
}

// Guard wraps analysis invocations with a per-invocation deadline and a
// global concurrency ceiling. It is the sole cancellation authority: a
// timed-out task's eventual result is discarded, never surfaced.
type Guard struct {
	logger hclog.Logger
	sem    *semaphore.Weighted
	opts   Options

	mu     sync.Mutex
	active map[string]*Task
}

func New(logger hclog.Logger, opts Options) *Guard {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.BaseTimeout <= 0 {
		opts.BaseTimeout = defaultBaseTimeout
	}
	if opts.MaxTimeout <= 0 {
		opts.MaxTimeout = defaultMaxTimeout
	}

	return &Guard{
		logger: logger.Named("guard"),
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		opts:   opts,
		active: make(map[string]*Task),
	}
}

// TimeoutFor computes the deadline budget for an input of the given size.
// Larger files get longer budgets, up to the hard ceiling.
func (g *Guard) TimeoutFor(size int) time.Duration {
	budget := g.opts.BaseTimeout + time.Duration(size/1024)*timeoutPerKB
	if budget > g.opts.MaxTimeout {
		budget = g.opts.MaxTimeout
	}
	return budget
}

// Execute runs fn under the concurrency ceiling with a size-scaled
// deadline. fn must honor ctx cancellation at its safe points; if it does
// not return by the deadline it is abandoned and its eventual result is
// discarded. A timeout surfaces as diagnostics.ErrTimeout, never a panic.
func (g *Guard) Execute(ctx context.Context, fileName, operation string, size int, fn func(context.Context) error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: queued past cancellation for %s", diagnostics.ErrTimeout, fileName)
	}
	defer g.sem.Release(1)

	budget := g.TimeoutFor(size)
	taskCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	task := &Task{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Operation: operation,
		StartTime: time.Now(),
		Deadline:  time.Now().Add(budget),
		cancel:    cancel,
	}
	g.register(task)
	defer g.unregister(task.ID)

	done := make(chan error, 1)
	go func() {
		done <- fn(taskCtx)
	}()

	select {
	case err := <-done:
		if err != nil && taskCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %s on %s after %s", diagnostics.ErrTimeout, operation, fileName, budget)
		}
		return err
	case <-taskCtx.Done():
		// The worker goroutine is abandoned; its send into the buffered
		// channel cannot block and its result is discarded.
		if taskCtx.Err() == context.DeadlineExceeded {
			g.logger.Warn("analysis timed out", "task", task.ID, "file", fileName, "operation", operation, "budget", budget)
			return fmt.Errorf("%w: %s on %s after %s", diagnostics.ErrTimeout, operation, fileName, budget)
		}
		return fmt.Errorf("%w: %s on %s cancelled", diagnostics.ErrTimeout, operation, fileName)
	}
}

func (g *Guard) register(t *Task) {
	g.mu.Lock()
	g.active[t.ID] = t
	g.mu.Unlock()
}

func (g *Guard) unregister(id string) {
	g.mu.Lock()
	delete(g.active, id)
	g.mu.Unlock()
}

// ActiveCount reports the number of registered in-flight tasks.
func (g *Guard) ActiveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}

// ActiveTasks returns a snapshot of in-flight tasks for diagnostics.
func (g *Guard) ActiveTasks() []Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	tasks := make([]Task, 0, len(g.active))
	for _, t := range g.active {
		tasks = append(tasks, *t)
	}
	return tasks
}

// CancelAll cancels every in-flight task.
func (g *Guard) CancelAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.active {
		t.cancel()
	}
}
