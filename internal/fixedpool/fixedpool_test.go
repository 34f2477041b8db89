// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fixedpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/z5labs/strata/internal/try"

	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	t.Run("will return results in task order", func(t *testing.T) {
		t.Run("even if later tasks finish first", func(t *testing.T) {
			first := make(chan struct{})
			tasks := []Task[int]{
				func(ctx context.Context) (int, error) {
					<-first
					return 0, nil
				},
				func(ctx context.Context) (int, error) {
					defer close(first)
					return 1, nil
				},
			}

			results, err := Collect(context.Background(), 0, tasks...)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []int{0, 1}, results) {
				return
			}
		})

		t.Run("if there are no tasks", func(t *testing.T) {
			results, err := Collect[string](context.Background(), 2)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, results) {
				return
			}
		})
	})

	t.Run("will not run more than limit tasks at once", func(t *testing.T) {
		var running, peak atomic.Int64
		task := func(ctx context.Context) (struct{}, error) {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return struct{}{}, nil
		}

		tasks := make([]Task[struct{}], 10)
		for i := range tasks {
			tasks[i] = task
		}

		_, err := Collect(context.Background(), 2, tasks...)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.LessOrEqual(t, peak.Load(), int64(2)) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a task fails", func(t *testing.T) {
			taskErr := errors.New("failed")
			tasks := []Task[int]{
				func(ctx context.Context) (int, error) {
					<-ctx.Done()
					return 0, ctx.Err()
				},
				func(ctx context.Context) (int, error) {
					return 0, taskErr
				},
			}

			results, err := Collect(context.Background(), 0, tasks...)
			if !assert.ErrorIs(t, err, taskErr) {
				return
			}
			if !assert.Nil(t, results) {
				return
			}
		})

		t.Run("if a task panics", func(t *testing.T) {
			tasks := []Task[int]{
				func(ctx context.Context) (int, error) {
					panic("boom")
				},
			}

			_, err := Collect(context.Background(), 0, tasks...)

			var perr try.PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "boom", perr.Value) {
				return
			}
		})

		t.Run("if the context is already cancelled", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var called atomic.Bool
			tasks := []Task[int]{
				func(ctx context.Context) (int, error) {
					called.Store(true)
					return 1, nil
				},
			}

			_, err := Collect(ctx, 0, tasks...)
			if !assert.ErrorIs(t, err, context.Canceled) {
				return
			}
			if !assert.False(t, called.Load()) {
				return
			}
		})
	})
}
