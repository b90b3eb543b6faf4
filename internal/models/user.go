package models

import (
	"cmp"
	"slices"
	"time"
)

// TagCount частота тега среди решенных задач
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// SortTagCounts converts a tag histogram into a slice ordered by count
// descending, ties broken by tag name ascending.
func SortTagCounts(counts map[string]int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}

// UserProfile представляет публичный профиль пользователя архива.
// Загружается по handle, заменяет ранее сохраненный профиль и живет до logout.
type UserProfile struct {
	Handle         string     `json:"handle"`                // handle пользователя
	FirstName      string     `json:"first_name,omitempty"`  // имя
	LastName       string     `json:"last_name,omitempty"`   // фамилия
	Rating         *int       `json:"rating,omitempty"`      // текущий рейтинг (nil если не участвовал)
	MaxRating      *int       `json:"max_rating,omitempty"`  // максимальный рейтинг
	Rank           string     `json:"rank,omitempty"`        // текущее звание
	MaxRank        string     `json:"max_rank,omitempty"`    // максимальное звание
	Country        string     `json:"country,omitempty"`     // страна
	Organization   string     `json:"organization,omitempty"`
	Contribution   int        `json:"contribution"`
	Avatar         string     `json:"avatar,omitempty"`
	SolvedProblems []string   `json:"solved_problems"` // ID задач с принятыми посылками
	SolvedTags     []TagCount `json:"solved_tags"`     // частоты тегов по решенным задачам, по убыванию
	FetchedAt      time.Time  `json:"fetched_at"`      // время загрузки профиля
}

// RatingValue возвращает текущий рейтинг или 0
func (u *UserProfile) RatingValue() int {
	if u == nil || u.Rating == nil {
		return 0
	}
	return *u.Rating
}

// MaxRatingValue возвращает максимальный рейтинг или 0
func (u *UserProfile) MaxRatingValue() int {
	if u == nil || u.MaxRating == nil {
		return 0
	}
	return *u.MaxRating
}

// FullName склеивает имя и фамилию
func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// VisibilityPrefs флаги отображения, сохраняемые между запусками
type VisibilityPrefs struct {
	ShowRating bool `json:"showRating"`
	ShowTags   bool `json:"showTags"`
	ShowSolved bool `json:"showSolved"`
}

// DefaultVisibilityPrefs по умолчанию показывается все
func DefaultVisibilityPrefs() VisibilityPrefs {
	return VisibilityPrefs{
		ShowRating: true,
		ShowTags:   true,
		ShowSolved: true,
	}
}

// CachedCatalog снимок каталога с временем загрузки
type CachedCatalog struct {
	Problems  []Problem `json:"problems"`
	FetchedAt time.Time `json:"timestamp"`
}

// Age возвращает возраст снимка относительно now
func (c *CachedCatalog) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}
