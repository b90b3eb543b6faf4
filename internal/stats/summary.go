package stats

import "github.com/iudanet/cfhelper/internal/models"

// Summary bundles everything the statistics view shows
type Summary struct {
	Total              int               `json:"total"`
	Rated              int               `json:"rated"`
	Favorites          int               `json:"favorites"`
	Solved             int               `json:"solved"`
	AverageRating      int               `json:"average_rating"`
	ExplorationRate    float64           `json:"exploration_rate"`
	SolveRate          float64           `json:"solve_rate"`
	UniqueContests     int               `json:"unique_contests"`
	FavoriteContests   int               `json:"favorite_contests"`
	RatingHistogram    []RatingBucket    `json:"rating_histogram"`
	DivisionHistogram  []LabelCount      `json:"division_histogram"`
	PositionHistogram  []LabelCount      `json:"position_histogram"`
	TopTags            []models.TagCount `json:"top_tags"`
	FavoriteDifficulty []DifficultyBand  `json:"favorite_difficulty"`
}

// Summarize computes the statistics view over problems with the user's
// favorites and solved lists
func Summarize(problems []models.Problem, favorites, solved []string) Summary {
	rated := 0
	for _, p := range problems {
		if p.HasRating() {
			rated++
		}
	}

	return Summary{
		Total:              len(problems),
		Rated:              rated,
		Favorites:          len(favorites),
		Solved:             len(solved),
		AverageRating:      RoundedAverageRating(problems),
		ExplorationRate:    ExplorationRate(len(favorites), len(problems)),
		SolveRate:          SolveRate(len(solved), len(problems)),
		UniqueContests:     UniqueContests(problems),
		FavoriteContests:   FavoriteContests(favorites),
		RatingHistogram:    RatingHistogram(problems),
		DivisionHistogram:  DivisionHistogram(problems),
		PositionHistogram:  PositionHistogram(problems),
		TopTags:            TopTags(problems, DefaultTopTags),
		FavoriteDifficulty: FavoriteDifficulty(problems, favorites),
	}
}
