// Package filter narrows movie lists with expr-language predicates.
//
// Expressions see the movie fields as variables (Title, Year, Rating, Genre,
// Director, Synopsis, ID, TMDBID) plus helper functions:
//
//	hasGenre("драма") and Rating >= 8
//	directedBy("Nolan") or Year >= yearsAgo(5)
//	hasText(Synopsis, "space") and not hasPrefix(Title, "the")
//
// The built-in string operators are case-sensitive:
//
//	Title startsWith "The" or Synopsis contains "space"
package filter

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles expression with the shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}
