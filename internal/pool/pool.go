// Package pool runs independent tasks with a bound on how many are in flight.
//
// Results keep the input order: Run's result[i] always belongs to tasks[i],
// whatever order the workers finish in. A failing or panicking worker only
// fills its own slot; siblings keep running and the pool waits for all of
// them to settle.
package pool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type Result[R any] struct {
	Value R
	Err   error
}

type Worker[T, R any] func(ctx context.Context, task T) (R, error)

// PanicError carries a recovered worker panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v", e.Value)
}

// Run starts tasks eagerly in input order, blocking before any start that
// would exceed limit. A limit <= 0 removes the bound.
func Run[T, R any](ctx context.Context, tasks []T, limit int, worker Worker[T, R]) []Result[R] {
	results := make([]Result[R], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			// Each goroutine owns results[i]; nothing else writes it.
			results[i] = runOne(ctx, task, worker)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runOne[T, R any](ctx context.Context, task T, worker Worker[T, R]) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[R]{Err: &PanicError{Value: r}}
		}
	}()
	value, err := worker(ctx, task)
	return Result[R]{Value: value, Err: err}
}
