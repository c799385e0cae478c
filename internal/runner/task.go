package runner

import (
	"context"
	"maps"
	"slices"
	"time"
)

// Task is a unit of background work, e.g. refreshing records from the seed file.
type Task interface {
	Name() string

	// Schedule is a cron expression with an optional seconds field. Empty
	// means the task only runs through RunNow.
	Schedule() string

	Run(ctx context.Context) error

	// Timeout bounds a single run.
	Timeout() time.Duration
}

// TaskRegistry maps task names to tasks. It is filled before the runner
// starts and read-only afterwards.
type TaskRegistry struct {
	byName map[string]Task
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{byName: make(map[string]Task)}
}

// Register stores task under its name. A later task with the same name wins.
func (r *TaskRegistry) Register(task Task) {
	r.byName[task.Name()] = task
}

// Get looks a task up by name.
func (r *TaskRegistry) Get(name string) (Task, bool) {
	task, ok := r.byName[name]
	return task, ok
}

// Names returns the task names sorted, so tasks are scheduled in a stable order.
func (r *TaskRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.byName))
}
