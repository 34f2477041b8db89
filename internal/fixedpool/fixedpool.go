// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs tasks concurrently on a bounded number of
// goroutines while keeping their results in task order.
package fixedpool

import (
	"context"

	"github.com/z5labs/strata/internal/try"

	"golang.org/x/sync/errgroup"
)

// Task produces a single result.
type Task[T any] func(context.Context) (T, error)

// Collect runs every task, at most limit at a time when limit is positive,
// and returns the results indexed like tasks regardless of the order in
// which they finish.
//
// The first task to fail cancels the context seen by the others and its
// error is returned with no results. Panics are returned as try.PanicError.
func Collect[T any](ctx context.Context, limit int, tasks ...Task[T]) ([]T, error) {
	results := make([]T, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		g.Go(func() (err error) {
			defer try.Recover(&err)

			err = gctx.Err()
			if err != nil {
				return err
			}

			v, err := task(gctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}
