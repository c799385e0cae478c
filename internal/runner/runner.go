package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner manages and executes scheduled background tasks
type Runner struct {
	cron     *cron.Cron
	registry *TaskRegistry
	logger   *log.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex
	stopped bool
}

// ErrStopped is returned for task runs requested after Stop.
var ErrStopped = errors.New("task runner stopped")

// NewRunner creates a new task runner. Schedules take an optional leading
// seconds field, as well as descriptors such as "@every 5m".
func NewRunner(registry *TaskRegistry) *Runner {
	return &Runner{
		cron:     cron.New(cron.WithSeconds()),
		registry: registry,
		logger:   log.New(os.Stdout, "[RUNNER] ", log.LstdFlags),
	}
}

// Schedule registers every task with a non-empty schedule and starts the
// scheduler. It returns immediately.
func (r *Runner) Schedule(ctx context.Context) error {
	for _, name := range r.registry.Names() {
		task, _ := r.registry.Get(name)
		if task.Schedule() == "" {
			r.logger.Printf("Task %s has no schedule, skipping", name)
			continue
		}
		r.logger.Printf("Registering task: %s with schedule: %s", name, task.Schedule())

		if _, err := r.cron.AddFunc(task.Schedule(), func() {
			r.executeTask(ctx, task)
		}); err != nil {
			return fmt.Errorf("failed to schedule task %s: %w", name, err)
		}
	}

	r.cron.Start()
	r.logger.Println("Task runner started successfully")
	return nil
}

// Start schedules the tasks and blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Schedule(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	r.Stop()
	return ctx.Err()
}

// RunNow executes a registered task immediately, outside its schedule.
func (r *Runner) RunNow(ctx context.Context, name string) error {
	task, ok := r.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	return r.executeTask(ctx, task)
}

// executeTask runs a single task with timeout and error handling. Once Stop
// has begun no new run is admitted.
func (r *Runner) executeTask(ctx context.Context, task Task) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	r.wg.Add(1)
	r.mu.Unlock()
	defer r.wg.Done()

	taskCtx, cancel := context.WithTimeout(ctx, task.Timeout())
	defer cancel()

	start := time.Now()
	err := task.Run(taskCtx)
	duration := time.Since(start)

	if err != nil {
		r.logger.Printf("Task %s failed after %v: %v", task.Name(), duration, err)
	} else {
		r.logger.Printf("Task %s completed in %v", task.Name(), duration)
	}
	return err
}

// Stop gracefully shuts down the runner and waits for running tasks.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.logger.Println("Stopping task runner...")
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		done := r.cron.Stop()
		r.wg.Wait()
		<-done.Done()
		r.logger.Println("Task runner stopped")
	})
}
