package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidTask is returned when the task list contains a nil task.
var ErrInvalidTask = errors.New("invalid task: nil")

// Task is one independent unit of work.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is the result of one task.
type Outcome[T any] struct {
	Value T
	Err   error
	// Index is the task's submission position.
	Index int
}

// ProgressFunc is called after every completed task. Calls are serialized.
type ProgressFunc func(done, total int, err error)

// Result aggregates a run.
type Result[T any] struct {
	// Outcomes are in completion order.
	Outcomes  []Outcome[T]
	Succeeded int
	Failed    int
}

// Executor runs tasks with at most MaxConcurrent in flight. After each task
// its slot stays busy for Delay before the next task may start.
type Executor[T any] struct {
	OnProgress ProgressFunc
	// OnComplete receives every outcome as it completes. Calls are
	// serialized with OnProgress.
	OnComplete    func(Outcome[T])
	MaxConcurrent int
	Delay         time.Duration
}

// PanicError wraps a panic recovered from a task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Run executes tasks. Tasks are dispatched in input order. A failing task is
// recorded and never affects its siblings; Run itself only fails when a task
// is nil, before anything is dispatched. Cancelling ctx stops dispatch and
// cuts pacing delays short; tasks already running see the cancellation
// through their context.
func (e *Executor[T]) Run(ctx context.Context, tasks []Task[T]) (*Result[T], error) {
	for i, task := range tasks {
		if task == nil {
			return nil, fmt.Errorf("%w at index %d", ErrInvalidTask, i)
		}
	}

	limit := e.MaxConcurrent
	if limit < 1 {
		limit = 1
	}

	var (
		g   errgroup.Group
		mu  sync.Mutex
		res = &Result[T]{Outcomes: make([]Outcome[T], 0, len(tasks))}
	)

	g.SetLimit(limit)

	for i, task := range tasks {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			value, err := runTask(ctx, task)
			out := Outcome[T]{Value: value, Err: err, Index: i}

			mu.Lock()

			res.Outcomes = append(res.Outcomes, out)
			if err != nil {
				res.Failed++
			} else {
				res.Succeeded++
			}

			done := len(res.Outcomes)

			if e.OnComplete != nil {
				e.OnComplete(out)
			}

			if e.OnProgress != nil {
				e.OnProgress(done, len(tasks), err)
			}

			mu.Unlock()

			sleep(ctx, e.Delay)

			return nil
		})
	}

	// Tasks never return errors to the group.
	_ = g.Wait()

	return res, nil
}

func runTask[T any](ctx context.Context, task Task[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	return task(ctx)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
