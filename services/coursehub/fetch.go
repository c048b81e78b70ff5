package coursehub

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchPair runs two fetches concurrently and waits for both. If either
// fails the pair fails with the first error and the other fetch's context
// is cancelled.
func FetchPair[A, B any](
	ctx context.Context,
	fetchA func(context.Context) (A, error),
	fetchB func(context.Context) (B, error),
) (A, B, error) {
	var (
		a A
		b B
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = fetchA(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = fetchB(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		var zeroA A
		var zeroB B
		return zeroA, zeroB, err
	}
	return a, b, nil
}
