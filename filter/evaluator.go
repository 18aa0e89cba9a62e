package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/cinescope/catalog"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the list length below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements Evaluator, splitting long lists into chunks
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Select returns the movies matching f, preserving their order
func (e *ConcurrentEvaluator) Select(ctx context.Context, f Filter, movies []catalog.Movie) ([]catalog.Movie, error) {
	if len(movies) == 0 {
		return []catalog.Movie{}, nil
	}

	// A catalog page is 20 movies; only merged lists are worth fanning out
	if len(movies) < e.batchSize {
		return selectSequential(f, movies), nil
	}

	return e.selectConcurrent(ctx, f, movies)
}

func selectSequential(f Filter, movies []catalog.Movie) []catalog.Movie {
	matches := make([]catalog.Movie, 0, len(movies))
	for _, movie := range movies {
		if f.Evaluate(movie) {
			matches = append(matches, movie)
		}
	}
	return matches
}

func (e *ConcurrentEvaluator) selectConcurrent(ctx context.Context, f Filter, movies []catalog.Movie) ([]catalog.Movie, error) {
	chunkSize := max(len(movies)/e.workerCount, e.batchSize)
	chunks := (len(movies) + chunkSize - 1) / chunkSize
	results := make([][]catalog.Movie, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(movies))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = selectSequential(f, movies[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, chunk := range results {
		total += len(chunk)
	}

	matches := make([]catalog.Movie, 0, total)
	for _, chunk := range results {
		matches = append(matches, chunk...)
	}
	return matches, nil
}
