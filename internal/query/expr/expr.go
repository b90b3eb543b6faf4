// Package expr compiles boolean CEL expressions over catalog problems.
//
// Available variables:
//
//	contest_id int, index string, name string, rating int (0 if unrated),
//	rated bool, tags list(string), division string, difficulty string
//
// Example: rating >= 1600 && "dp" in tags
package expr

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/query"
)

// ErrInvalid означает, что выражение не компилируется или не возвращает bool
var ErrInvalid = errors.New("invalid filter expression")

// env общее окружение CEL; создается один раз
var env = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("contest_id", cel.IntType),
		cel.Variable("index", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("rating", cel.IntType),
		cel.Variable("rated", cel.BoolType),
		cel.Variable("tags", cel.ListType(cel.StringType)),
		cel.Variable("division", cel.StringType),
		cel.Variable("difficulty", cel.StringType),
	)
})

// Program is a compiled filter expression
type Program struct {
	source  string
	program cel.Program
}

// Compile parses and type-checks src
func Compile(src string) (*Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalid)
	}

	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := e.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must be boolean, got %s", ErrInvalid, ast.OutputType())
	}

	program, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return &Program{source: src, program: program}, nil
}

// String returns the expression source
func (p *Program) String() string {
	return p.source
}

// Eval evaluates the expression against p
func (p *Program) Eval(problem models.Problem) (bool, error) {
	result, _, err := p.program.Eval(activation(problem))
	if err != nil {
		return false, fmt.Errorf("evaluate %q for %s: %w", p.source, problem.ID, err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: non-boolean result %v", ErrInvalid, result.Value())
	}
	return matched, nil
}

// Predicate adapts the program to a query predicate.
// Evaluation errors (e.g. index out of range) count as no match.
func (p *Program) Predicate() query.Predicate {
	return func(problem models.Problem) bool {
		matched, err := p.Eval(problem)
		return err == nil && matched
	}
}

// Apply compiles src into spec. An empty src clears the expression.
func Apply(spec *query.FilterSpec, src string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		spec.Expr = ""
		spec.Where = nil
		return nil
	}

	program, err := Compile(src)
	if err != nil {
		return err
	}
	spec.Expr = program.String()
	spec.Where = program.Predicate()
	return nil
}

func activation(p models.Problem) map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"contest_id": int64(p.ContestID),
		"index":      p.Index,
		"name":       p.Name,
		"rating":     int64(p.RatingValue()),
		"rated":      p.HasRating(),
		"tags":       tags,
		"division":   string(p.Division),
		"difficulty": string(p.DifficultyLevel),
	}
}
