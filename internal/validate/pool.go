package validate

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ResolveAll dispatches one Resolves call per id to a bounded-concurrency
// pool sized by concurrency, returning which ids resolved. Request
// ordering is not preserved across the returned map.
func ResolveAll(ctx context.Context, resolver *Resolver, ids []string, concurrency int) (map[string]bool, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	results := make(map[string]bool, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()

			resolved := resolver.Resolves(ctx, id)

			mu.Lock()
			results[id] = resolved
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
