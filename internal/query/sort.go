package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/iudanet/cfhelper/internal/models"
)

// SortKey column to sort by
type SortKey string

const (
	SortNone     SortKey = ""
	SortRating   SortKey = "rating"
	SortName     SortKey = "name"
	SortContest  SortKey = "contest"
	SortPosition SortKey = "position"
)

// SortOrder direction of sorting
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SortSpec is the active sort column and direction
type SortSpec struct {
	Key   SortKey
	Order SortOrder
}

// SortKeys returns the supported sort keys
func SortKeys() []SortKey {
	return []SortKey{SortRating, SortName, SortContest, SortPosition}
}

// ParseSortKey validates a sort key name
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == SortNone {
		return SortNone, nil
	}
	if slices.Contains(SortKeys(), key) {
		return key, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q (want one of rating, name, contest, position)", s)
}

// ToggleSort applies a click on column key: the same column flips
// direction, a new column starts ascending.
func ToggleSort(current SortSpec, key SortKey) SortSpec {
	if current.Key == key {
		if current.Order == Desc {
			return SortSpec{Key: key, Order: Asc}
		}
		return SortSpec{Key: key, Order: Desc}
	}
	return SortSpec{Key: key, Order: Asc}
}

// Sort returns a sorted copy of problems. Equal elements keep their
// input order in both directions.
func Sort(problems []models.Problem, spec SortSpec) []models.Problem {
	out := slices.Clone(problems)
	compare := comparator(spec.Key)
	if compare == nil {
		return out
	}

	if spec.Order == Desc {
		slices.SortStableFunc(out, func(a, b models.Problem) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func comparator(key SortKey) func(a, b models.Problem) int {
	switch key {
	case SortRating:
		return func(a, b models.Problem) int {
			return cmp.Compare(a.RatingValue(), b.RatingValue())
		}
	case SortName:
		return func(a, b models.Problem) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortContest:
		return func(a, b models.Problem) int {
			return cmp.Compare(a.ContestID, b.ContestID)
		}
	case SortPosition:
		return func(a, b models.Problem) int {
			return cmp.Compare(a.Index, b.Index)
		}
	default:
		return nil
	}
}
