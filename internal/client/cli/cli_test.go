package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/config"
	"github.com/iudanet/cfhelper/internal/logger"
	"github.com/iudanet/cfhelper/internal/models"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// testProblems небольшой каталог: два дивизиона, одна задача без рейтинга
func testProblems() []models.Problem {
	return []models.Problem{
		models.NewProblem(1850, "A", "To My Critics", intPtr(800), []string{"implementation"}),
		models.NewProblem(1850, "B", "Ten Words of Wisdom", intPtr(800), []string{"implementation", "sortings"}),
		models.NewProblem(1903, "C", "Theofanis Nightmare", intPtr(1400), []string{"greedy", "dp"}),
		models.NewProblem(1904, "D", "Hard DP", intPtr(2100), []string{"dp"}),
		models.NewProblem(1905, "E", "Unrated One", nil, []string{"math"}),
	}
}

// fakeCatalog реализует CatalogService в памяти
type fakeCatalog struct {
	mu           sync.Mutex
	problems     []models.Problem
	err          error
	source       catalog.Source
	refreshCalls int
	clearCalls   int
	clearErr     error
	profiles     map[string]*models.UserProfile
	profileErr   error
	contests     []pkgapi.Contest
	contestsErr  error
}

func (f *fakeCatalog) GetCatalog(context.Context) ([]models.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.source == catalog.SourceNone {
		f.source = catalog.SourceRemote
	}
	return f.problems, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) ([]models.Problem, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	return f.GetCatalog(ctx)
}

func (f *fakeCatalog) CacheInfo() catalog.CacheInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return catalog.CacheInfo{
		Present:   len(f.problems) > 0,
		FetchedAt: fixedNow.Add(-10 * time.Minute),
		Size:      len(f.problems),
		Fresh:     true,
		Source:    f.source,
	}
}

func (f *fakeCatalog) ClearCache(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	return f.clearErr
}

func (f *fakeCatalog) Contests(context.Context) ([]pkgapi.Contest, error) {
	return f.contests, f.contestsErr
}

func (f *fakeCatalog) GetUserProfile(_ context.Context, handle string) (*models.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p, ok := f.profiles[handle]
	if !ok {
		return nil, catalog.ErrUserNotFound
	}
	return p, nil
}

// fakePrefs реализует PrefsStore в памяти
type fakePrefs struct {
	mu         sync.Mutex
	dark       bool
	visibility models.VisibilityPrefs
	favorites  []string
	solved     []string
	user       *models.UserProfile
	backupAt   time.Time
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{visibility: models.DefaultVisibilityPrefs()}
}

func (p *fakePrefs) Favorites(context.Context) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.favorites)
}

func (p *fakePrefs) Solved(context.Context) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.solved)
}

func (p *fakePrefs) Visibility(context.Context) models.VisibilityPrefs {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visibility
}

func (p *fakePrefs) DarkMode(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dark
}

func (p *fakePrefs) SetDarkMode(_ context.Context, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dark = enabled
}

func (p *fakePrefs) SetVisibility(_ context.Context, v models.VisibilityPrefs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visibility = v
}

func (p *fakePrefs) BackupSavedAt(context.Context) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backupAt, !p.backupAt.IsZero()
}

func (p *fakePrefs) ToggleFavorite(_ context.Context, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return toggle(&p.favorites, id)
}

func (p *fakePrefs) ToggleSolved(_ context.Context, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return toggle(&p.solved, id)
}

func (p *fakePrefs) MarkSolved(_ context.Context, ids []string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	added := 0
	for _, id := range ids {
		if !slices.Contains(p.solved, id) {
			p.solved = append(p.solved, id)
			added++
		}
	}
	return added
}

func (p *fakePrefs) CurrentUser(context.Context) (*models.UserProfile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user, p.user != nil
}

func (p *fakePrefs) SetCurrentUser(_ context.Context, profile *models.UserProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = profile
}

func (p *fakePrefs) ClearCurrentUser(context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = nil
}

func toggle(list *[]string, id string) bool {
	if i := slices.Index(*list, id); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
		return false
	}
	*list = append(*list, id)
	return true
}

// testEnv состояние, переживающее несколько запусков команды
type testEnv struct {
	catalog *fakeCatalog
	prefs   *fakePrefs
	input   string
}

func newTestEnv() *testEnv {
	return &testEnv{
		catalog: &fakeCatalog{problems: testProblems()},
		prefs:   newFakePrefs(),
	}
}

func (e *testEnv) factory() Factory {
	return func(_ context.Context, cfg *config.Config, out iocli.IO) (*Cli, io.Closer, error) {
		return New(out, e.catalog, e.prefs, Options{
			PageSize: cfg.PageSize,
			NoColor:  cfg.NoColor,
			Logger:   logger.Discard(),
			Now:      func() time.Time { return fixedNow },
		}), nil, nil
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"CFHELPER_DB": filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	return cfg
}

// execute запускает команду как из терминала и возвращает вывод
func (e *testEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	stream := iocli.NewStream(strings.NewReader(e.input), &out)
	version := VersionInfo{Version: "1.2.3", BuildDate: "2024-05-01", GitCommit: "abc123"}

	err := Execute(context.Background(), testConfig(t), stream, e.factory(), version, args)
	return out.String(), err
}

// mustExecute как execute, но требует успешного завершения
func (e *testEnv) mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.execute(t, args...)
	require.NoError(t, err, out)
	return out
}

var errBoom = errors.New("boom")

// newRecordingIO IOMock, который пишет весь вывод в buf
func newRecordingIO(buf *strings.Builder, terminal bool) *iocli.IOMock {
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) { _, _ = fmt.Fprintln(buf, a...) },
		PrintfFunc:  func(format string, a ...any) { _, _ = fmt.Fprintf(buf, format, a...) },
		WriteFunc: func(p []byte) (int, error) {
			return buf.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return "", io.EOF
		},
		IsTerminalFunc: func() bool { return terminal },
		WidthFunc:      func() int { return 120 },
	}
}
