package catalog

import (
	"github.com/iudanet/cfhelper/internal/models"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

// Normalize converts raw archive records into catalog problems.
// Records without contest id, index or name are dropped; the second
// return value is how many were dropped.
func Normalize(raw []pkgapi.Problem) ([]models.Problem, int) {
	problems := make([]models.Problem, 0, len(raw))
	dropped := 0

	for _, p := range raw {
		if p.ContestID == 0 || p.Index == "" || p.Name == "" {
			dropped++
			continue
		}
		problems = append(problems, models.NewProblem(p.ContestID, p.Index, p.Name, p.Rating, p.Tags))
	}

	return problems, dropped
}

// ExtractSolved derives solved problem IDs and tag frequencies from a
// submission history. Only accepted submissions count; a problem solved
// several times is counted once, at its first occurrence.
func ExtractSolved(submissions []pkgapi.Submission) ([]string, []models.TagCount) {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	counts := make(map[string]int)

	for _, sub := range submissions {
		if sub.Verdict != pkgapi.VerdictOK {
			continue
		}

		contestID := sub.Problem.ContestID
		if contestID == 0 {
			contestID = sub.ContestID
		}
		if contestID == 0 || sub.Problem.Index == "" {
			continue
		}

		id := models.ProblemID(contestID, sub.Problem.Index)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)

		for _, tag := range sub.Problem.Tags {
			counts[tag]++
		}
	}

	return ids, models.SortTagCounts(counts)
}
