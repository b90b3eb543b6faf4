package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/stats"
	"github.com/iudanet/cfhelper/internal/validation"
)

// profileTopTags сколько тегов решенных задач показывать в профиле
const profileTopTags = 10

// ErrNotLoggedIn команда требует сохраненного профиля
var ErrNotLoggedIn = errors.New("not logged in, run 'cfhelper login <handle>' first")

func (c *Cli) runLogin(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		input, err := c.io.ReadInput("Codeforces handle: ")
		if err != nil {
			return fmt.Errorf("failed to read handle: %w", err)
		}
		handle = input
	}
	handle, err := validation.NormalizeHandle(handle)
	if err != nil {
		return fmt.Errorf("invalid handle: %w", err)
	}

	profile, err := c.catalog.GetUserProfile(ctx, handle)
	if err != nil {
		if errors.Is(err, catalog.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", handle)
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	c.prefs.SetCurrentUser(ctx, profile)
	c.logger.Info("Logged in", "handle", profile.Handle, "solved", len(profile.SolvedProblems))

	c.io.Printf("Logged in as %s\n", c.styles(ctx).Rating(profile.RatingValue(), profile.Handle))
	return c.renderProfile(ctx, profile)
}

func (c *Cli) runLogout(ctx context.Context) error {
	profile, ok := c.prefs.CurrentUser(ctx)
	if !ok {
		c.io.Println("Not logged in.")
		return nil
	}
	c.prefs.ClearCurrentUser(ctx)
	c.io.Printf("Logged out %s\n", profile.Handle)
	return nil
}

func (c *Cli) runProfile(ctx context.Context, refresh bool) error {
	profile, ok := c.prefs.CurrentUser(ctx)
	if !ok {
		return ErrNotLoggedIn
	}

	if refresh {
		fresh, err := c.catalog.GetUserProfile(ctx, profile.Handle)
		if err != nil {
			return fmt.Errorf("failed to refresh profile: %w", err)
		}
		c.prefs.SetCurrentUser(ctx, fresh)
		profile = fresh
	}
	return c.renderProfile(ctx, profile)
}

func (c *Cli) renderProfile(ctx context.Context, profile *models.UserProfile) error {
	topTags := profile.SolvedTags
	if len(topTags) > profileTopTags {
		topTags = topTags[:profileTopTags]
	}

	// Доли считаются от каталога; без каталога показываются только счетчики
	catalogSize := 0
	if err := c.view.Load(ctx); err != nil {
		c.logger.Debug("Profile rendered without catalog totals", "error", err)
	} else {
		catalogSize = len(c.view.Problems())
	}
	favorites := len(c.prefs.Favorites(ctx))
	solved := len(c.prefs.Solved(ctx))

	return c.render(c.styles(ctx), "profile", profileTemplate, struct {
		Profile         *models.UserProfile
		Progress        stats.RatingProgress
		Tier            stats.Tier
		TopTags         []models.TagCount
		Favorites       int
		MarkedSolved    int
		CatalogSize     int
		ExplorationRate float64
		SolveRate       float64
	}{
		Profile:         profile,
		Progress:        stats.Progress(profile),
		Tier:            stats.RankTier(profile.RatingValue()),
		TopTags:         topTags,
		Favorites:       favorites,
		MarkedSolved:    solved,
		CatalogSize:     catalogSize,
		ExplorationRate: stats.ExplorationRate(favorites, catalogSize),
		SolveRate:       stats.SolveRate(solved, catalogSize),
	})
}

// runSyncSolved переносит принятые задачи профиля в список решенных
func (c *Cli) runSyncSolved(ctx context.Context) error {
	profile, ok := c.prefs.CurrentUser(ctx)
	if !ok {
		return ErrNotLoggedIn
	}

	added := c.prefs.MarkSolved(ctx, profile.SolvedProblems)
	c.io.Printf("Imported %d solved problem(s) from %s (%d in profile)\n",
		added, profile.Handle, len(profile.SolvedProblems))
	return nil
}
