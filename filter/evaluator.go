package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/kinoshelf/movie"
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

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates a filter over large movie lists in parallel chunks
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

// Evaluate evaluates a single filter against all movies
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, movies []movie.Movie) ([]movie.Movie, error) {
	if len(movies) == 0 {
		return []movie.Movie{}, nil
	}

	// For small movie lists, don't bother with concurrency
	if len(movies) < e.batchSize {
		return evaluateSequential(filter, movies), nil
	}

	return e.evaluateConcurrent(ctx, filter, movies)
}

// evaluateSequential evaluates a filter against all movies sequentially
func evaluateSequential(filter Filter, movies []movie.Movie) []movie.Movie {
	matches := make([]movie.Movie, 0, len(movies)/4)
	for _, m := range movies {
		if filter.Evaluate(m) {
			matches = append(matches, m)
		}
	}
	return matches
}

// evaluateConcurrent splits movies into chunks and merges the matches in order
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, movies []movie.Movie) ([]movie.Movie, error) {
	chunkSize := max(len(movies)/e.workerCount, e.batchSize)
	chunks := (len(movies) + chunkSize - 1) / chunkSize
	results := make([][]movie.Movie, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(movies))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = evaluateSequential(filter, movies[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]movie.Movie, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}
