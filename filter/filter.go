// Package filter narrows movie lists with expr-lang expressions.
//
// Expressions see the movie's fields as variables (Title, Year, VoteAverage,
// VoteCount, Popularity, Language, GenreIDs, Released, ...) plus helpers:
//
//	VoteAverage >= 7.5 and hasBackdrop()
//	fuzzy("godfthr") or containsFold(Overview, "mafia")
//	Title startsWith "The" and hasSuffix(Title, "returns")
//	Year >= 2000 and hasGenre(878)
//	Released > daysAgo(30)
package filter

// DefaultCacheSize bounds the compiled expressions kept by the default compiler
const DefaultCacheSize = 64

var defaultCompiler = NewExprCompiler(WithCache(DefaultCacheSize))

// Compile compiles expression with the shared caching compiler
func Compile(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}
