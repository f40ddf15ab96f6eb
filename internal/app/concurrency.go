package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchAll calls fetch n times with at most workers calls in flight and
// returns the values in call order. The first failure cancels the calls
// still running and is returned.
func fetchAll[T any](ctx context.Context, n, workers int, fetch func(context.Context) (T, error)) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	values := make([]T, n)
	for i := range n {
		g.Go(func() error {
			v, err := fetch(gctx)
			if err != nil {
				return err
			}

			values[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching %d: %w", n, err)
	}

	return values, nil
}

// fetchSome is fetchAll without cancellation: every call runs, failures are
// counted and the successful values come back in call order.
func fetchSome[T any](ctx context.Context, n, workers int, fetch func(context.Context) (T, error)) ([]T, int) {
	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	values := make([]T, n)
	ok := make([]bool, n)

	for i := range n {
		g.Go(func() error {
			v, err := fetch(ctx)
			values[i], ok[i] = v, err == nil

			return nil
		})
	}

	_ = g.Wait()

	kept := values[:0]
	failed := 0

	for i, v := range values {
		if !ok[i] {
			failed++
			continue
		}

		kept = append(kept, v)
	}

	return kept, failed
}
