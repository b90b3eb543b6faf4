package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/cfhelper/internal/client/api"
	"github.com/iudanet/cfhelper/internal/models"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

// fakeArchive подменяет API архива в тестах
type fakeArchive struct {
	problemsetCalls atomic.Int32

	problemset func(ctx context.Context) (*pkgapi.ProblemsetResult, error)
	contests   func(ctx context.Context) ([]pkgapi.Contest, error)
	userInfo   func(ctx context.Context, handle string) (*pkgapi.User, error)
	userStatus func(ctx context.Context, handle string) ([]pkgapi.Submission, error)
}

func (f *fakeArchive) GetProblemset(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
	f.problemsetCalls.Add(1)
	return f.problemset(ctx)
}

func (f *fakeArchive) GetContests(ctx context.Context) ([]pkgapi.Contest, error) {
	return f.contests(ctx)
}

func (f *fakeArchive) GetUserInfo(ctx context.Context, handle string) (*pkgapi.User, error) {
	return f.userInfo(ctx, handle)
}

func (f *fakeArchive) GetUserStatus(ctx context.Context, handle string) ([]pkgapi.Submission, error) {
	return f.userStatus(ctx, handle)
}

// memoryBackup хранит снимок в памяти
type memoryBackup struct {
	mu       sync.Mutex
	snapshot *models.CachedCatalog
	saveErr  error
	saves    int
}

func (m *memoryBackup) LoadBackup(ctx context.Context) (*models.CachedCatalog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, m.snapshot != nil
}

func (m *memoryBackup) SaveBackup(ctx context.Context, catalog *models.CachedCatalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshot = catalog
	return nil
}

func (m *memoryBackup) ClearBackup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}

// testClock управляемые часы
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func intPtr(v int) *int { return &v }

func sampleProblemset() *pkgapi.ProblemsetResult {
	return &pkgapi.ProblemsetResult{
		Problems: []pkgapi.Problem{
			{ContestID: 1850, Index: "A", Name: "To My Critics", Rating: intPtr(800), Tags: []string{"implementation"}},
			{ContestID: 1703, Index: "F", Name: "Pairs", Rating: intPtr(1300), Tags: []string{"binary search", "dp"}},
			{ContestID: 0, Index: "A", Name: "No contest"},
			{ContestID: 1500, Index: "", Name: "No index"},
			{ContestID: 1501, Index: "B", Name: ""},
		},
	}
}

func newTestService(archive *fakeArchive, backup BackupStore) (*Service, *testClock) {
	clock := &testClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.Now = clock.Now
	cfg.Logger = slog.New(slog.DiscardHandler)

	return NewService(archive, backup, cfg), clock
}

func TestNormalize(t *testing.T) {
	problems, dropped := Normalize(sampleProblemset().Problems)

	assert.Equal(t, 3, dropped)
	require.Len(t, problems, 2)
	assert.Equal(t, "1850-A", problems[0].ID)
	assert.Equal(t, models.DivisionMixed, problems[0].Division)
	assert.Equal(t, models.DifficultyBeginner, problems[0].DifficultyLevel)
	assert.Equal(t, "1703-F", problems[1].ID)
	assert.Equal(t, models.DivisionDiv3, problems[1].Division)
	assert.Equal(t, models.DifficultyMedium, problems[1].DifficultyLevel)
}

func TestGetCatalog_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "catalog fetch must carry a timeout")
			return sampleProblemset(), nil
		},
	}
	backup := &memoryBackup{}
	svc, clock := newTestService(archive, backup)

	problems, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.Equal(t, int32(1), archive.problemsetCalls.Load())
	assert.Equal(t, 1, backup.saves)
	require.NotNil(t, backup.snapshot)
	assert.Equal(t, problems, backup.snapshot.Problems)

	// В пределах окна свежести сеть не трогаем
	clock.Advance(29 * time.Minute)
	again, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, problems, again)
	assert.Equal(t, int32(1), archive.problemsetCalls.Load())
	assert.Equal(t, SourceMemory, svc.CacheInfo().Source)

	// После окна свежести запрашиваем снова
	clock.Advance(2 * time.Minute)
	_, err = svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), archive.problemsetCalls.Load())
	assert.Equal(t, SourceRemote, svc.CacheInfo().Source)
}

func TestGetCatalog_StaleCacheOnFailure(t *testing.T) {
	ctx := context.Background()
	fail := false
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			if fail {
				return nil, errors.New("connection refused")
			}
			return sampleProblemset(), nil
		},
	}
	svc, clock := newTestService(archive, &memoryBackup{})

	first, err := svc.GetCatalog(ctx)
	require.NoError(t, err)

	fail = true
	clock.Advance(time.Hour)

	got, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, SourceMemory, svc.CacheInfo().Source)
	assert.False(t, svc.CacheInfo().Fresh)
}

func TestGetCatalog_BackupFallback(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			return nil, errors.New("timeout")
		},
	}
	backup := &memoryBackup{snapshot: &models.CachedCatalog{
		Problems:  []models.Problem{models.NewProblem(1, "A", "Theatre Square", nil, nil)},
		FetchedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}}
	svc, _ := newTestService(archive, backup)

	problems, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "1-A", problems[0].ID)
	assert.Equal(t, SourceBackup, svc.CacheInfo().Source)
	assert.False(t, svc.CacheInfo().Present)
}

func TestGetCatalog_NoDataAnywhere(t *testing.T) {
	cause := errors.New("dns failure")
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			return nil, cause
		},
	}
	svc, _ := newTestService(archive, &memoryBackup{})

	problems, err := svc.GetCatalog(context.Background())
	require.Error(t, err)
	assert.Nil(t, problems)
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
}

func TestGetCatalog_BackupWriteFailureIsSwallowed(t *testing.T) {
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			return sampleProblemset(), nil
		},
	}
	backup := &memoryBackup{saveErr: errors.New("disk full")}
	svc, _ := newTestService(archive, backup)

	problems, err := svc.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.Equal(t, 1, backup.saves)
}

func TestRefresh_IgnoresFreshness(t *testing.T) {
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			return sampleProblemset(), nil
		},
	}
	svc, _ := newTestService(archive, nil)

	_, err := svc.GetCatalog(context.Background())
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), archive.problemsetCalls.Load())
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	archive := &fakeArchive{
		problemset: func(ctx context.Context) (*pkgapi.ProblemsetResult, error) {
			return sampleProblemset(), nil
		},
	}
	backup := &memoryBackup{}
	svc, _ := newTestService(archive, backup)

	_, err := svc.GetCatalog(ctx)
	require.NoError(t, err)
	info := svc.CacheInfo()
	assert.True(t, info.Present)
	assert.True(t, info.Fresh)
	assert.Equal(t, 2, info.Size)

	require.NoError(t, svc.ClearCache(ctx))
	assert.False(t, svc.CacheInfo().Present)
	assert.Nil(t, backup.snapshot)

	_, err = svc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), archive.problemsetCalls.Load())
}

func TestContests(t *testing.T) {
	archive := &fakeArchive{
		contests: func(ctx context.Context) ([]pkgapi.Contest, error) {
			return []pkgapi.Contest{{ID: 1850, Name: "Codeforces Round 886 (Div. 4)"}}, nil
		},
	}
	svc, _ := newTestService(archive, nil)

	contests, err := svc.Contests(context.Background())
	require.NoError(t, err)
	require.Len(t, contests, 1)

	archive.contests = func(ctx context.Context) ([]pkgapi.Contest, error) {
		return nil, errors.New("boom")
	}
	_, err = svc.Contests(context.Background())
	assert.ErrorIs(t, err, ErrFetch)
}

func TestExtractSolved(t *testing.T) {
	subs := []pkgapi.Submission{
		{Verdict: "OK", Problem: pkgapi.Problem{ContestID: 1850, Index: "A", Tags: []string{"implementation", "math"}}},
		{Verdict: "WRONG_ANSWER", Problem: pkgapi.Problem{ContestID: 1850, Index: "B", Tags: []string{"dp"}}},
		{Verdict: "OK", Problem: pkgapi.Problem{ContestID: 1850, Index: "A", Tags: []string{"implementation", "math"}}},
		{Verdict: "OK", ContestID: 1703, Problem: pkgapi.Problem{Index: "F", Tags: []string{"dp", "math"}}},
		{Verdict: "OK", Problem: pkgapi.Problem{Index: "Z"}},
		{Verdict: "", Problem: pkgapi.Problem{ContestID: 1, Index: "A"}},
	}

	ids, tags := ExtractSolved(subs)

	assert.Equal(t, []string{"1850-A", "1703-F"}, ids)
	assert.Equal(t, []models.TagCount{
		{Tag: "math", Count: 2},
		{Tag: "dp", Count: 1},
		{Tag: "implementation", Count: 1},
	}, tags)
}

func TestGetUserProfile_Success(t *testing.T) {
	archive := &fakeArchive{
		userInfo: func(ctx context.Context, handle string) (*pkgapi.User, error) {
			assert.Equal(t, "tourist", handle)
			return &pkgapi.User{Handle: "tourist", FirstName: "Gennady", Rating: intPtr(3800), MaxRating: intPtr(4009), Rank: "legendary grandmaster"}, nil
		},
		userStatus: func(ctx context.Context, handle string) ([]pkgapi.Submission, error) {
			return []pkgapi.Submission{
				{Verdict: "OK", Problem: pkgapi.Problem{ContestID: 1, Index: "A", Tags: []string{"math"}}},
			}, nil
		},
	}
	svc, clock := newTestService(archive, nil)

	profile, err := svc.GetUserProfile(context.Background(), "  tourist ")
	require.NoError(t, err)
	assert.Equal(t, "tourist", profile.Handle)
	assert.Equal(t, 3800, profile.RatingValue())
	assert.Equal(t, 4009, profile.MaxRatingValue())
	assert.Equal(t, []string{"1-A"}, profile.SolvedProblems)
	assert.Equal(t, []models.TagCount{{Tag: "math", Count: 1}}, profile.SolvedTags)
	assert.Equal(t, clock.Now(), profile.FetchedAt)
}

func TestGetUserProfile_SubmissionsFailureTolerated(t *testing.T) {
	archive := &fakeArchive{
		userInfo: func(ctx context.Context, handle string) (*pkgapi.User, error) {
			return &pkgapi.User{Handle: handle}, nil
		},
		userStatus: func(ctx context.Context, handle string) ([]pkgapi.Submission, error) {
			return nil, errors.New("timeout")
		},
	}
	svc, _ := newTestService(archive, nil)

	profile, err := svc.GetUserProfile(context.Background(), "petr")
	require.NoError(t, err)
	assert.Equal(t, "petr", profile.Handle)
	assert.Empty(t, profile.SolvedProblems)
	assert.Empty(t, profile.SolvedTags)
}

func TestGetUserProfile_Errors(t *testing.T) {
	okStatus := func(ctx context.Context, handle string) ([]pkgapi.Submission, error) {
		return nil, nil
	}

	tests := []struct {
		name     string
		handle   string
		infoErr  error
		wantErr  error
		notWants error
	}{
		{
			name:   "handle not found",
			handle: "nobody_here",
			infoErr: &httpClient.StatusError{
				HTTPStatus: http.StatusBadRequest,
				Status:     pkgapi.StatusFailed,
				Comment:    "handles: User with handle nobody_here not found",
			},
			wantErr:  ErrUserNotFound,
			notWants: ErrFetch,
		},
		{
			name:     "transport failure",
			handle:   "petr",
			infoErr:  errors.New("connection reset"),
			wantErr:  ErrFetch,
			notWants: ErrUserNotFound,
		},
		{
			name:     "invalid handle",
			handle:   "a",
			wantErr:  ErrUserNotFound,
			notWants: ErrFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := &fakeArchive{
				userInfo: func(ctx context.Context, handle string) (*pkgapi.User, error) {
					return nil, tt.infoErr
				},
				userStatus: okStatus,
			}
			svc, _ := newTestService(archive, nil)

			profile, err := svc.GetUserProfile(context.Background(), tt.handle)
			require.Error(t, err)
			assert.Nil(t, profile)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, tt.notWants)
		})
	}
}
