package platforms

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Each runs fn for every index in [0, n) with at most limit goroutines in
// flight and waits for all of them. Branches run to completion regardless
// of sibling outcomes; fn handles its own degradation, so Each never
// fails. Writes must go to the branch's own index.
func Each(ctx context.Context, limit, n int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if limit <= 0 {
		limit = n
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
