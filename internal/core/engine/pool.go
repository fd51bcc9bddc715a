package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTaskPanicked wraps the value recovered from a panicking task.
var ErrTaskPanicked = errors.New("task panicked")

// Pool caps the number of tasks running at once. A Pool is cheap and is
// meant to live for a single check.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// NewPool returns a pool running at most size tasks concurrently.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size reports the concurrency ceiling.
func (p *Pool) Size() int {
	return p.size
}

// Future holds the eventual result of a submitted task.
type Future[T any] struct {
	done    chan struct{}
	value   T
	ok      bool
	err     error
	elapsed time.Duration
}

// Submit schedules fn on the pool and returns immediately. fn receives ctx
// and should return once ctx is done. A panic in fn is captured and the
// future completes without a value.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := p.sem.Acquire(ctx, 1); err != nil {
			f.err = err
			return
		}
		defer p.sem.Release(1)

		started := time.Now()
		defer func() {
			f.elapsed = time.Since(started)
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()

		f.value = fn(ctx)
		f.ok = true
	}()

	return f
}

// Await waits until the task finishes, deadline passes or ctx is done. The
// boolean is false when no value was produced in time.
func (f *Future[T]) Await(ctx context.Context, deadline time.Time) (T, bool) {
	// A finished task wins over an expired deadline.
	select {
	case <-f.done:
		return f.result()
	default:
	}

	var zero T
	wait := time.Until(deadline)
	if wait <= 0 {
		return zero, false
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result()
	case <-timer.C:
		return zero, false
	case <-ctx.Done():
		return zero, false
	}
}

func (f *Future[T]) result() (T, bool) {
	if !f.ok {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Err reports why a finished task has no value. It is only meaningful after
// Await returned false for a completed task.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Elapsed is the task run time, excluding time spent queued. Zero until the
// task finishes.
func (f *Future[T]) Elapsed() time.Duration {
	select {
	case <-f.done:
		return f.elapsed
	default:
		return 0
	}
}
