package stats

import (
	"github.com/iudanet/cfhelper/internal/models"
)

// milestones пороги званий, к которым считается прогресс
var milestones = []int{1200, 1400, 1600, 1900, 2100, 2300, 2400, 2600, 3000}

// MilestoneStep шаг после последнего порога
const MilestoneStep = 100

// Milestone returns the next rating milestone strictly above current and
// the distance to it. Past the last fixed milestone the next one is
// current+100.
func Milestone(current int) (next, toNext int) {
	for _, m := range milestones {
		if m > current {
			return m, m - current
		}
	}
	return current + MilestoneStep, MilestoneStep
}

// RatingProgress summarizes a user's rating position
type RatingProgress struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Change  int `json:"change"` // current - max, не больше нуля для корректных данных
	Next    int `json:"next"`
	ToNext  int `json:"to_next"`
}

// Progress computes rating progress for a profile (missing ratings count as 0)
func Progress(profile *models.UserProfile) RatingProgress {
	current := profile.RatingValue()
	maxRating := profile.MaxRatingValue()
	next, toNext := Milestone(current)

	return RatingProgress{
		Current: current,
		Max:     maxRating,
		Change:  current - maxRating,
		Next:    next,
		ToNext:  toNext,
	}
}

// Tier is a rating color tier
type Tier string

const (
	TierUnrated                  Tier = "unrated"
	TierNewbie                   Tier = "newbie"
	TierPupil                    Tier = "pupil"
	TierSpecialist               Tier = "specialist"
	TierExpert                   Tier = "expert"
	TierCandidateMaster          Tier = "candidate master"
	TierMaster                   Tier = "master"
	TierInternationalMaster      Tier = "international master"
	TierGrandmaster              Tier = "grandmaster"
	TierInternationalGrandmaster Tier = "international grandmaster"
	TierLegendaryGrandmaster     Tier = "legendary grandmaster"
)

// RankTier maps a user rating to its tier. Zero means unrated.
func RankTier(rating int) Tier {
	switch {
	case rating <= 0:
		return TierUnrated
	case rating < 1200:
		return TierNewbie
	case rating < 1400:
		return TierPupil
	case rating < 1600:
		return TierSpecialist
	case rating < 1900:
		return TierExpert
	case rating < 2100:
		return TierCandidateMaster
	case rating < 2300:
		return TierMaster
	case rating < 2400:
		return TierInternationalMaster
	case rating < 2600:
		return TierGrandmaster
	case rating < 3000:
		return TierInternationalGrandmaster
	default:
		return TierLegendaryGrandmaster
	}
}

// DifficultyBand is one band of the favorites difficulty distribution
type DifficultyBand struct {
	Name    string  `json:"name"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // доля от всех избранных
}

// favoriteBands границы включительно
var favoriteBands = []DifficultyBand{
	{Name: "Easy", Min: 800, Max: 1199},
	{Name: "Medium", Min: 1200, Max: 1599},
	{Name: "Hard", Min: 1600, Max: 1999},
	{Name: "Expert", Min: 2000, Max: 4000},
}

// FavoriteDifficulty buckets favorites by rating band. Favorites missing
// from problems or outside every band are not counted, but still make up
// the percentage denominator.
func FavoriteDifficulty(problems []models.Problem, favorites []string) []DifficultyBand {
	byID := make(map[string]models.Problem, len(problems))
	for _, p := range problems {
		byID[p.ID] = p
	}

	out := make([]DifficultyBand, len(favoriteBands))
	copy(out, favoriteBands)

	for _, id := range favorites {
		p, ok := byID[id]
		if !ok || !p.HasRating() {
			continue
		}
		r := p.RatingValue()
		for i := range out {
			if r >= out[i].Min && r <= out[i].Max {
				out[i].Count++
				break
			}
		}
	}

	for i := range out {
		out[i].Percent = Percent(out[i].Count, len(favorites))
	}
	return out
}
