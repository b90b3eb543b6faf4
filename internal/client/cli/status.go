package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/models"
)

func (c *Cli) runStatus(ctx context.Context) error {
	user, _ := c.prefs.CurrentUser(ctx)
	backupAt, hasBackup := c.prefs.BackupSavedAt(ctx)
	return c.render(c.styles(ctx), "status", statusTemplate, struct {
		Cache      catalog.CacheInfo
		HasBackup  bool
		BackupAt   time.Time
		User       *models.UserProfile
		Favorites  int
		Solved     int
		DarkMode   bool
		Visibility models.VisibilityPrefs
	}{
		Cache:      c.catalog.CacheInfo(),
		HasBackup:  hasBackup,
		BackupAt:   backupAt,
		User:       user,
		Favorites:  len(c.prefs.Favorites(ctx)),
		Solved:     len(c.prefs.Solved(ctx)),
		DarkMode:   c.prefs.DarkMode(ctx),
		Visibility: c.prefs.Visibility(ctx),
	})
}

// runRefresh загружает каталог заново, минуя окно свежести
func (c *Cli) runRefresh(ctx context.Context) error {
	if err := c.view.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	info := c.catalog.CacheInfo()
	c.io.Printf("Catalog loaded: %s problems from %s\n", humanize.Comma(int64(len(c.view.Problems()))), info.Source)
	if info.Source != catalog.SourceRemote {
		c.io.Printf("Archive is unreachable, showing the %s copy\n", info.Source)
	}
	return nil
}

func (c *Cli) runClearCache(ctx context.Context) error {
	if err := c.catalog.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	c.io.Println("Catalog cache cleared.")
	return nil
}
