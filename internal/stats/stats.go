// Package stats computes aggregate statistics over a problem set.
// All functions are pure and recomputed on demand.
package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/iudanet/cfhelper/internal/models"
)

// RatingBucketWidth ширина корзины гистограммы рейтингов
const RatingBucketWidth = 200

// DefaultTopTags сколько тегов показывать в статистике
const DefaultTopTags = 12

// RatingBucket counts problems with rating in [Floor, Floor+RatingBucketWidth)
type RatingBucket struct {
	Floor int `json:"floor"`
	Count int `json:"count"`
}

// LabelCount is one bar of a categorical histogram
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RatingHistogram buckets rated problems by floor(rating/200)*200,
// ascending by bucket
func RatingHistogram(problems []models.Problem) []RatingBucket {
	counts := make(map[int]int)
	for _, p := range problems {
		if !p.HasRating() {
			continue
		}
		counts[p.RatingValue()/RatingBucketWidth*RatingBucketWidth]++
	}

	out := make([]RatingBucket, 0, len(counts))
	for floor, n := range counts {
		out = append(out, RatingBucket{Floor: floor, Count: n})
	}
	slices.SortFunc(out, func(a, b RatingBucket) int { return cmp.Compare(a.Floor, b.Floor) })
	return out
}

// DivisionHistogram counts problems per division
func DivisionHistogram(problems []models.Problem) []LabelCount {
	counts := make(map[string]int)
	for _, p := range problems {
		division := p.Division
		if division == "" {
			division = models.DivisionUnknown
		}
		counts[string(division)]++
	}
	return sortLabelCounts(counts)
}

// PositionHistogram counts problems per position letter (first character
// of the index)
func PositionHistogram(problems []models.Problem) []LabelCount {
	counts := make(map[string]int)
	for _, p := range problems {
		if pos := p.Position(); pos != "" {
			counts[pos]++
		}
	}
	return sortLabelCounts(counts)
}

// TagFrequency counts tag occurrences over all problems
func TagFrequency(problems []models.Problem) map[string]int {
	counts := make(map[string]int)
	for _, p := range problems {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	return counts
}

// TopTags returns the n most frequent tags, ties broken by name
func TopTags(problems []models.Problem, n int) []models.TagCount {
	sorted := models.SortTagCounts(TagFrequency(problems))
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// AverageRating is the mean rating of rated problems, 0 when there are none
func AverageRating(problems []models.Problem) float64 {
	sum, n := 0, 0
	for _, p := range problems {
		if p.HasRating() {
			sum += p.RatingValue()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// RoundedAverageRating is AverageRating rounded to the nearest integer
func RoundedAverageRating(problems []models.Problem) int {
	return int(math.Round(AverageRating(problems)))
}

// Percent returns part/total*100, 0 when total is 0
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// ExplorationRate is the share of favorites in the catalog, in percent
func ExplorationRate(favorites, total int) float64 {
	return Percent(favorites, total)
}

// SolveRate is the share of solved problems in the catalog, in percent
func SolveRate(solved, total int) float64 {
	return Percent(solved, total)
}

// UniqueContests counts distinct contests among problems
func UniqueContests(problems []models.Problem) int {
	seen := make(map[int]struct{})
	for _, p := range problems {
		seen[p.ContestID] = struct{}{}
	}
	return len(seen)
}

// FavoriteContests counts distinct contests among favorite IDs
func FavoriteContests(favorites []string) int {
	seen := make(map[string]struct{})
	for _, id := range favorites {
		seen[models.ContestFromProblemID(id)] = struct{}{}
	}
	return len(seen)
}

func sortLabelCounts(counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
