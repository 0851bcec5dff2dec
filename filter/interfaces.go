package filter

import (
	"context"

	"github.com/s0up4200/kinoshelf/movie"
)

// Filter defines the basic interface for movie filters
type Filter interface {
	// Evaluate checks if a movie matches the filter criteria
	Evaluate(m movie.Movie) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator evaluates filters against movies
type Evaluator interface {
	// Evaluate returns the movies matching filter, in their original order
	Evaluate(ctx context.Context, filter CompiledFilter, movies []movie.Movie) ([]movie.Movie, error)
}
