package filter

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/s0up4200/cinescope/catalog"
)

const releaseDateLayout = "2006-01-02"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds helper functions available to every expression
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.extra, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		extra: make(map[string]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	extra map[string]any
	cache *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// The zero movie gives the checker the type of every identifier, so
	// misspelled fields fail here rather than matching nothing at runtime.
	program, err := expr.Compile(expression,
		expr.Env(environment(catalog.Movie{}, c.extra)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.extra,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether movie matches. Runtime failures count as no match.
func (f *exprFilter) Evaluate(movie catalog.Movie) bool {
	ok, err := f.Check(movie)
	return err == nil && ok
}

// Check evaluates the filter against movie
func (f *exprFilter) Check(movie catalog.Movie) (bool, error) {
	result, err := expr.Run(f.program, environment(movie, f.extra))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment builds the variables and helpers visible to an expression
func environment(movie catalog.Movie, extra map[string]any) map[string]any {
	env := make(map[string]any, 40)

	addHelperFunctions(env)
	maps.Copy(env, extra)

	released, _ := time.Parse(releaseDateLayout, movie.ReleaseDate)

	env["Movie"] = movie
	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["Overview"] = movie.Overview
	env["Year"] = movie.Year()
	env["ReleaseDate"] = movie.ReleaseDate
	env["Released"] = released
	env["Language"] = movie.OriginalLanguage
	env["Popularity"] = movie.Popularity
	env["VoteAverage"] = movie.VoteAverage
	env["VoteCount"] = movie.VoteCount
	env["GenreIDs"] = movie.GenreIDs
	env["Adult"] = movie.Adult

	env["hasBackdrop"] = func() bool {
		return movie.BackdropPath != nil && *movie.BackdropPath != ""
	}
	env["hasPoster"] = func() bool {
		return movie.PosterPath != nil && *movie.PosterPath != ""
	}
	env["hasGenre"] = func(id int) bool {
		return slices.Contains(movie.GenreIDs, id)
	}
	env["fuzzy"] = func(term string) bool {
		return fuzzy.MatchFold(term, movie.Title)
	}
	env["isReleased"] = func() bool {
		return !released.IsZero() && !released.After(time.Now())
	}

	return env
}

// addHelperFunctions adds the movie independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(releaseDateLayout, dateStr)
		return t
	}
	// String helpers, case-insensitive. The plain forms are expr operators:
	// Title contains "x", Title startsWith "x", Title endsWith "x".
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}
