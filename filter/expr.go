package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/kinoshelf/cache"
	"github.com/s0up4200/kinoshelf/movie"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = cache.NewLRU[string, CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *cache.LRU[string, CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Compile against a typed environment so field and helper misuse fails early
	env := createCompileEnvironment(c.helperFuncs)
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
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
		return c.cache.Len()
	}
	return 0
}

// Evaluate evaluates the filter against a movie. A runtime error counts as no match.
func (f *exprFilter) Evaluate(m movie.Movie) bool {
	ok, err := f.Check(m)
	return err == nil && ok
}

// Check evaluates the filter and reports runtime errors
func (f *exprFilter) Check(m movie.Movie) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(f.helpers, m))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: m.Title,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the movie-independent helper functions
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all movie-independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Year helpers
	env["currentYear"] = func() int {
		return time.Now().Year()
	}
	env["yearsAgo"] = func(years int) int {
		return time.Now().Year() - years
	}
	// String helpers, case-insensitive. contains, startsWith and endsWith are
	// operators in expr and cannot be used as function names.
	env["hasText"] = func(str, substr string) bool {
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
}

// createCompileEnvironment declares every variable with its type and a
// placeholder value
func createCompileEnvironment(helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+10)
	maps.Copy(env, helpers)
	addMovieVariables(env, movie.Movie{})
	return env
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(helpers map[string]any, m movie.Movie) map[string]any {
	env := make(map[string]any, len(helpers)+10)
	maps.Copy(env, helpers)
	addMovieVariables(env, m)
	return env
}

func addMovieVariables(env map[string]any, m movie.Movie) {
	env["Movie"] = m
	env["ID"] = m.ID
	env["Title"] = m.Title
	env["Year"] = m.Year
	env["Rating"] = m.Rating
	env["Genre"] = m.Genre
	env["Director"] = m.Director
	env["Synopsis"] = m.Synopsis
	env["TMDBID"] = m.TMDBID

	env["hasGenre"] = m.HasGenre
	env["directedBy"] = createDirectedByFunc(m.Director)
}

func createDirectedByFunc(director string) func(string) bool {
	names := strings.Split(director, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return func(name string) bool {
		name = strings.TrimSpace(name)
		if name == "" {
			return false
		}
		for _, n := range names {
			if strings.EqualFold(n, name) || strings.Contains(strings.ToLower(n), strings.ToLower(name)) {
				return true
			}
		}
		return false
	}
}
