package queue

import (
	"context"
	"sync"
)

type Task[T any] func(ctx context.Context) T

type job[T any] struct {
	n    int
	task Task[T]
}

// Run executes tasks with at most workers of them in flight and returns the results in task order.
// Tasks not started before ctx is done leave a zero value in their slot.
func Run[T any](ctx context.Context, workers int, tasks []Task[T]) []T {
	results := make([]T, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	in := make(chan job[T])

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go worker(ctx, in, results, &wg)
	}

	func() {
		defer close(in)

		for n, task := range tasks {
			if ctx.Err() != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case in <- job[T]{n: n, task: task}:
			}
		}
	}()

	wg.Wait()

	return results
}

func worker[T any](ctx context.Context, in <-chan job[T], results []T, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range in {
		results[j.n] = j.task(ctx)
	}
}
