package models

import (
	"fmt"
	"strings"
)

// ProblemURLBase базовый адрес страницы задачи в архиве
const ProblemURLBase = "https://codeforces.com/problemset/problem"

// Division примерная категория контеста, выведенная из его ID
type Division string

const (
	DivisionDiv1    Division = "Div1"
	DivisionDiv2    Division = "Div2"
	DivisionDiv3    Division = "Div3"
	DivisionDiv4    Division = "Div4"
	DivisionMixed   Division = "Mixed"
	DivisionUnknown Division = "Unknown"
)

// Divisions возвращает дивизионы, доступные для фильтрации (Unknown не фильтруется)
func Divisions() []Division {
	return []Division{DivisionDiv1, DivisionDiv2, DivisionDiv3, DivisionDiv4, DivisionMixed}
}

// DifficultyLevel уровень сложности, выведенный из рейтинга задачи
type DifficultyLevel string

const (
	DifficultyUnrated  DifficultyLevel = "Unrated"
	DifficultyBeginner DifficultyLevel = "Beginner"
	DifficultyEasy     DifficultyLevel = "Easy"
	DifficultyMedium   DifficultyLevel = "Medium"
	DifficultyHard     DifficultyLevel = "Hard"
	DifficultyVeryHard DifficultyLevel = "Very Hard"
	DifficultyExpert   DifficultyLevel = "Expert"
)

// ClassifyDivision determines the division label for a contest id.
//
// The mapping is a heuristic on the numeric id, not data from the archive: it is
// kept bit-for-bit compatible with earlier versions and is known to be approximate.
func ClassifyDivision(contestID int) Division {
	if contestID == 0 {
		return DivisionUnknown
	}

	// Эвристика применяется только к четырехзначным (и длиннее) ID
	if contestID < 1000 {
		return DivisionMixed
	}

	if contestID >= 1400 {
		switch contestID % 10 {
		case 1, 2:
			return DivisionDiv2
		case 3, 4:
			return DivisionDiv3
		case 5, 6:
			return DivisionDiv4
		}
	}

	if contestID > 1000 && contestID < 1400 {
		if contestID%2 == 0 {
			return DivisionDiv1
		}
		return DivisionDiv2
	}

	return DivisionMixed
}

// ClassifyDifficulty maps a rating to its difficulty bucket. A nil rating is Unrated.
func ClassifyDifficulty(rating *int) DifficultyLevel {
	if rating == nil || *rating == 0 {
		return DifficultyUnrated
	}

	r := *rating
	switch {
	case r < 1000:
		return DifficultyBeginner
	case r < 1300:
		return DifficultyEasy
	case r < 1600:
		return DifficultyMedium
	case r < 2000:
		return DifficultyHard
	case r < 2500:
		return DifficultyVeryHard
	default:
		return DifficultyExpert
	}
}

// ProblemID строит составной ключ задачи "{contestId}-{index}"
func ProblemID(contestID int, index string) string {
	return fmt.Sprintf("%d-%s", contestID, index)
}

// ContestFromProblemID возвращает часть ID до первого дефиса (ID контеста)
func ContestFromProblemID(id string) string {
	contest, _, _ := strings.Cut(id, "-")
	return contest
}

// ProblemURL строит ссылку на страницу задачи
func ProblemURL(contestID int, index string) string {
	return fmt.Sprintf("%s/%d/%s", ProblemURLBase, contestID, index)
}

// Problem представляет нормализованную задачу каталога.
// Задачи неизменяемы после загрузки: каталог заменяется целиком при обновлении.
type Problem struct {
	ID              string          `json:"id"`               // составной ключ "{contestId}-{index}"
	ContestID       int             `json:"contest_id"`       // ID контеста
	Index           string          `json:"index"`            // позиция в контесте
	Name            string          `json:"name"`             // название
	Rating          *int            `json:"rating,omitempty"` // рейтинг, nil для задач без рейтинга
	Tags            []string        `json:"tags"`             // теги в порядке архива
	Division        Division        `json:"division"`         // выведенный дивизион
	DifficultyLevel DifficultyLevel `json:"difficulty_level"` // выведенный уровень сложности
	URL             string          `json:"url"`              // ссылка на условие
}

// NewProblem builds a normalized problem and fills in all derived fields.
func NewProblem(contestID int, index, name string, rating *int, tags []string) Problem {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized = append(normalized, strings.ToLower(tag))
	}

	return Problem{
		ID:              ProblemID(contestID, index),
		ContestID:       contestID,
		Index:           index,
		Name:            name,
		Rating:          rating,
		Tags:            normalized,
		Division:        ClassifyDivision(contestID),
		DifficultyLevel: ClassifyDifficulty(rating),
		URL:             ProblemURL(contestID, index),
	}
}

// RatingValue возвращает рейтинг задачи или 0, если его нет
func (p Problem) RatingValue() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// HasRating сообщает, есть ли у задачи рейтинг
func (p Problem) HasRating() bool {
	return p.Rating != nil && *p.Rating > 0
}

// Position возвращает первый символ индекса ("C" для "C1")
func (p Problem) Position() string {
	if p.Index == "" {
		return ""
	}
	return p.Index[:1]
}

// PopularTags список популярных тегов для подсказок в фильтрах
func PopularTags() []string {
	return []string{
		"math", "implementation", "greedy", "dp", "data structures",
		"brute force", "constructive algorithms", "graphs", "sortings",
		"binary search", "dfs and similar", "trees", "strings",
		"number theory", "combinatorics", "geometry", "bitmasks",
		"two pointers", "hashing", "divide and conquer", "shortest paths",
		"probabilities", "matrices", "flows", "games", "interactive",
	}
}

// Positions возвращает позиции задач, доступные для фильтрации
func Positions() []string {
	return []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
}
