// Package query filters, sorts and paginates the problem catalog.
//
// Every function here is pure: inputs are never modified and results
// depend only on the arguments.
package query

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/iudanet/cfhelper/internal/models"
)

// Predicate is an extra compiled condition on a problem
type Predicate func(models.Problem) bool

// FilterSpec describes the active filters. The zero value matches everything.
type FilterSpec struct {
	Division  models.Division // точное совпадение, "" = любой
	Position  string          // буква или полный индекс без учета регистра ("C", "C1")
	MinRating *int            // включительно
	MaxRating *int            // включительно
	Tags      []string        // все должны совпасть (подстрока любого тега)
	Search    string          // подстрока названия или любого тега

	// Expr исходный текст выражения, Where его скомпилированная форма
	Expr  string
	Where Predicate
}

// IsEmpty reports whether the spec has no active predicate
func (f FilterSpec) IsEmpty() bool {
	return f.Division == "" &&
		strings.TrimSpace(f.Position) == "" &&
		f.MinRating == nil &&
		f.MaxRating == nil &&
		len(normalizeTags(f.Tags)) == 0 &&
		strings.TrimSpace(f.Search) == "" &&
		f.Where == nil
}

// Equal compares two specs field by field. Compiled predicates are compared
// through their source text.
func (f FilterSpec) Equal(o FilterSpec) bool {
	return f.Division == o.Division &&
		f.Position == o.Position &&
		intPtrEqual(f.MinRating, o.MinRating) &&
		intPtrEqual(f.MaxRating, o.MaxRating) &&
		slices.Equal(f.Tags, o.Tags) &&
		f.Search == o.Search &&
		f.Expr == o.Expr &&
		(f.Where == nil) == (o.Where == nil)
}

// Clone returns a deep copy of the spec
func (f FilterSpec) Clone() FilterSpec {
	out := f
	out.Tags = slices.Clone(f.Tags)
	if f.MinRating != nil {
		v := *f.MinRating
		out.MinRating = &v
	}
	if f.MaxRating != nil {
		v := *f.MaxRating
		out.MaxRating = &v
	}
	return out
}

// IDLookup answers set membership for problem IDs
type IDLookup interface {
	Has(id string) bool
}

// IDSet is a simple IDLookup
type IDSet map[string]struct{}

// NewIDSet builds a set from ids
func NewIDSet(ids []string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has implements IDLookup
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Apply returns the problems matching spec, in input order.
// When showSolved is false, problems in solved are excluded.
func Apply(problems []models.Problem, spec FilterSpec, solved IDLookup, showSolved bool) []models.Problem {
	m := newMatcher(spec)
	out := make([]models.Problem, 0, len(problems))

	for _, p := range problems {
		if !showSolved && solved != nil && solved.Has(p.ID) {
			continue
		}
		if m.match(p) {
			out = append(out, p)
		}
	}

	return out
}

// Match reports whether a single problem satisfies spec
func Match(p models.Problem, spec FilterSpec) bool {
	return newMatcher(spec).match(p)
}

// FavoritesView returns the filtered problems that are favorites,
// in filtered order
func FavoritesView(filtered []models.Problem, favorites IDLookup) []models.Problem {
	out := make([]models.Problem, 0)
	if favorites == nil {
		return out
	}
	for _, p := range filtered {
		if favorites.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// RandomPick returns a uniformly random problem. rng may be nil.
func RandomPick(problems []models.Problem, rng *rand.Rand) (models.Problem, bool) {
	if len(problems) == 0 {
		return models.Problem{}, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(problems))
	} else {
		i = rand.IntN(len(problems))
	}
	return problems[i], true
}

// matcher хранит предварительно нормализованные условия фильтра
type matcher struct {
	division  models.Division
	position  string
	minRating *int
	maxRating *int
	tags      []string
	search    string
	where     Predicate
}

func newMatcher(spec FilterSpec) matcher {
	return matcher{
		division:  spec.Division,
		position:  strings.ToLower(strings.TrimSpace(spec.Position)),
		minRating: spec.MinRating,
		maxRating: spec.MaxRating,
		tags:      normalizeTags(spec.Tags),
		search:    strings.ToLower(strings.TrimSpace(spec.Search)),
		where:     spec.Where,
	}
}

func (m matcher) match(p models.Problem) bool {
	if m.division != "" && p.Division != m.division {
		return false
	}

	// Позиция совпадает с первой буквой индекса или с индексом целиком
	if m.position != "" &&
		strings.ToLower(p.Index) != m.position &&
		strings.ToLower(p.Position()) != m.position {
		return false
	}

	// Задачи без рейтинга не проходят ни одну границу
	if m.minRating != nil && (!p.HasRating() || p.RatingValue() < *m.minRating) {
		return false
	}
	if m.maxRating != nil && (!p.HasRating() || p.RatingValue() > *m.maxRating) {
		return false
	}

	for _, want := range m.tags {
		if !anyTagContains(p.Tags, want) {
			return false
		}
	}

	if m.search != "" &&
		!strings.Contains(strings.ToLower(p.Name), m.search) &&
		!anyTagContains(p.Tags, m.search) {
		return false
	}

	if m.where != nil && !m.where(p) {
		return false
	}

	return true
}

func anyTagContains(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// normalizeTags приводит теги фильтра к нижнему регистру и отбрасывает пустые
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
