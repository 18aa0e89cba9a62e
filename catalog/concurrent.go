package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrency limits simultaneous requests issued by FetchOverview
const MaxConcurrency = 4

// Overview holds one page of every category
type Overview map[Category]*ListResult

// FetchOverview fetches the same page of every category concurrently.
// The first failure cancels the remaining requests.
func FetchOverview(ctx context.Context, f Fetcher, page int) (Overview, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrency)

	results := make([]*ListResult, len(Categories))
	for i, category := range Categories {
		g.Go(func() error {
			result, err := f.FetchList(ctx, ModeCategory, category.String(), page)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", category.DisplayName(), err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := make(Overview, len(Categories))
	for i, category := range Categories {
		overview[category] = results[i]
	}
	return overview, nil
}
