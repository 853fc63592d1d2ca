// Package shutdownqueue is a process-wide LIFO queue of cleanup tasks.
//
// Register tasks anywhere via Add and drain them once at the end of
// main with Shutdown. Tasks run in reverse order of registration,
// panics are recovered, and errors are aggregated with errors.Join.
// Shutdown is idempotent.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it cannot finish in time.
type Task func(ctx context.Context) error

var q = struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}{}

// Add registers a task to be run on Shutdown, in LIFO order.
// If t is nil or shutdown has already started, Add does nothing.
func Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains all registered tasks in LIFO order. If ctx is
// canceled mid-drain, it stops early and the context error is included
// in the joined result.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.closed = true
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		func(t Task) {
			defer func() {
				r := recover()
				if r != nil {
					errs = append(errs, fmt.Errorf("panic in shutdown task: %v", r))
				}
			}()

			err := t(ctx)
			if err != nil {
				errs = append(errs, err)
			}
		}(tasks[i])
	}

	return errors.Join(errs...)
}
