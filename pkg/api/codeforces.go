package api

// Статусы ответа Codeforces API
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// VerdictOK вердикт полностью принятого решения
const VerdictOK = "OK"

// Фазы контеста
const (
	PhaseBefore   = "BEFORE"
	PhaseCoding   = "CODING"
	PhaseFinished = "FINISHED"
)

// Response общая обертка ответа Codeforces API: {"status": ..., "comment": ..., "result": ...}
type Response[T any] struct {
	Status  string `json:"status"`            // OK или FAILED
	Comment string `json:"comment,omitempty"` // причина ошибки, если status == FAILED
	Result  T      `json:"result"`            // полезная нагрузка
}

// Problem представляет задачу из problemset.problems.
// Поля могут отсутствовать у некорректных записей, поэтому все они опциональны.
type Problem struct {
	ContestID int      `json:"contestId,omitempty"` // ID контеста (0 если отсутствует)
	Index     string   `json:"index"`               // позиция задачи в контесте ("A", "C1")
	Name      string   `json:"name"`                // название задачи
	Type      string   `json:"type,omitempty"`      // PROGRAMMING или QUESTION
	Rating    *int     `json:"rating,omitempty"`    // сложность, nil если задача без рейтинга
	Tags      []string `json:"tags"`                // теги задачи
}

// ProblemStatistics количество решивших задачу
type ProblemStatistics struct {
	ContestID   int    `json:"contestId,omitempty"`
	Index       string `json:"index"`
	SolvedCount int    `json:"solvedCount"`
}

// ProblemsetResult результат метода problemset.problems
type ProblemsetResult struct {
	Problems          []Problem           `json:"problems"`
	ProblemStatistics []ProblemStatistics `json:"problemStatistics"`
}

// Contest представляет контест из contest.list
type Contest struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Type                string `json:"type"`  // CF, IOI, ICPC
	Phase               string `json:"phase"` // BEFORE, CODING, FINISHED...
	Frozen              bool   `json:"frozen"`
	DurationSeconds     int64  `json:"durationSeconds"`
	StartTimeSeconds    int64  `json:"startTimeSeconds,omitempty"`
	RelativeTimeSeconds int64  `json:"relativeTimeSeconds,omitempty"`
}

// User представляет публичный профиль пользователя из user.info
type User struct {
	Handle        string `json:"handle"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	Organization  string `json:"organization,omitempty"`
	Contribution  int    `json:"contribution"`
	Rank          string `json:"rank,omitempty"`
	Rating        *int   `json:"rating,omitempty"`
	MaxRank       string `json:"maxRank,omitempty"`
	MaxRating     *int   `json:"maxRating,omitempty"`
	FriendOfCount int    `json:"friendOfCount"`
	Avatar        string `json:"avatar,omitempty"`
	TitlePhoto    string `json:"titlePhoto,omitempty"`
}

// Submission представляет посылку из user.status
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId,omitempty"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	Problem             Problem `json:"problem"`
	ProgrammingLanguage string  `json:"programmingLanguage"`
	Verdict             string  `json:"verdict,omitempty"` // OK, WRONG_ANSWER, ... (пусто пока тестируется)
	PassedTestCount     int     `json:"passedTestCount"`
}
