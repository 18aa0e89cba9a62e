package filter

import (
	"context"

	"github.com/s0up4200/cinescope/catalog"
)

// Filter decides whether a movie stays in a list
type Filter interface {
	// Evaluate checks if a movie matches the filter criteria
	Evaluate(movie catalog.Movie) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// Check evaluates the filter and reports runtime failures instead of
	// treating them as a non-match
	Check(movie catalog.Movie) (bool, error)
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

// Evaluator applies a filter to a whole list
type Evaluator interface {
	Select(ctx context.Context, f Filter, movies []catalog.Movie) ([]catalog.Movie, error)
}
