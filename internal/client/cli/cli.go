// Package cli implements the cfhelper command line interface.
package cli

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/client/view"
	"github.com/iudanet/cfhelper/internal/models"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

// CatalogService is the catalog side of the client
type CatalogService interface {
	GetCatalog(ctx context.Context) ([]models.Problem, error)
	Refresh(ctx context.Context) ([]models.Problem, error)
	CacheInfo() catalog.CacheInfo
	ClearCache(ctx context.Context) error
	Contests(ctx context.Context) ([]pkgapi.Contest, error)
	GetUserProfile(ctx context.Context, handle string) (*models.UserProfile, error)
}

// PrefsStore is the local preference store
type PrefsStore interface {
	view.PrefsSource
	DarkMode(ctx context.Context) bool
	SetDarkMode(ctx context.Context, enabled bool)
	SetVisibility(ctx context.Context, v models.VisibilityPrefs)
	ToggleFavorite(ctx context.Context, id string) bool
	ToggleSolved(ctx context.Context, id string) bool
	MarkSolved(ctx context.Context, ids []string) int
	CurrentUser(ctx context.Context) (*models.UserProfile, bool)
	SetCurrentUser(ctx context.Context, profile *models.UserProfile)
	ClearCurrentUser(ctx context.Context)
	BackupSavedAt(ctx context.Context) (time.Time, bool)
}

// Options configures a Cli
type Options struct {
	PageSize int
	NoColor  bool
	Logger   *slog.Logger
	// Now returns the current time; tests replace it
	Now func() time.Time
}

type Cli struct {
	io      iocli.IO
	catalog CatalogService
	prefs   PrefsStore
	view    *view.Coordinator
	logger  *slog.Logger
	now     func() time.Time
	noColor bool

	// hideSolved переопределяет сохраненную настройку на один запуск
	mu         sync.Mutex
	hideSolved bool
}

func New(io iocli.IO, catalogService CatalogService, prefs PrefsStore, opts Options) *Cli {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cli{
		io:      io,
		catalog: catalogService,
		prefs:   prefs,
		logger:  opts.Logger,
		now:     opts.Now,
		noColor: opts.NoColor,
	}
	c.view = view.New(catalogService, &prefsView{cli: c}, view.Options{
		PageSize: opts.PageSize,
		Logger:   opts.Logger,
	})
	return c
}

// styles собирает палитру под текущий терминал и тему
func (c *Cli) styles(ctx context.Context) Styles {
	return NewStyles(c.io.IsTerminal() && !c.noColor, c.prefs.DarkMode(ctx))
}

func (c *Cli) setHideSolved(hide bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideSolved = hide
}

// prefsView отдает координатору настройки с учетом флагов запуска
type prefsView struct {
	cli *Cli
}

func (p *prefsView) Favorites(ctx context.Context) []string {
	return p.cli.prefs.Favorites(ctx)
}

func (p *prefsView) Solved(ctx context.Context) []string {
	return p.cli.prefs.Solved(ctx)
}

func (p *prefsView) Visibility(ctx context.Context) models.VisibilityPrefs {
	v := p.cli.prefs.Visibility(ctx)

	p.cli.mu.Lock()
	defer p.cli.mu.Unlock()
	if p.cli.hideSolved {
		v.ShowSolved = false
	}
	return v
}
