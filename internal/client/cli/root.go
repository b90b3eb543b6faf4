package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/config"
)

// Factory builds the client after flags are parsed. The closer releases
// the local store and may be nil.
type Factory func(ctx context.Context, cfg *config.Config, out iocli.IO) (*Cli, io.Closer, error)

// VersionInfo is build metadata set via ldflags
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type root struct {
	cfg     *config.Config
	io      iocli.IO
	factory Factory
	version VersionInfo

	cli    *Cli
	closer io.Closer
}

// Execute runs the command line with args and releases the store afterwards
func Execute(ctx context.Context, cfg *config.Config, out iocli.IO, factory Factory, version VersionInfo, args []string) error {
	cmd, r := newRoot(cfg, out, factory, version)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if closeErr := r.close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

// NewRootCommand returns the cfhelper command tree
func NewRootCommand(cfg *config.Config, out iocli.IO, factory Factory, version VersionInfo) *cobra.Command {
	cmd, _ := newRoot(cfg, out, factory, version)
	return cmd
}

func newRoot(cfg *config.Config, out iocli.IO, factory Factory, version VersionInfo) (*cobra.Command, *root) {
	r := &root{cfg: cfg, io: out, factory: factory, version: version}

	cmd := &cobra.Command{
		Use:   "cfhelper",
		Short: "Browse, filter and track Codeforces problems",
		Long: `cfhelper browses the Codeforces problem archive from the terminal.

The catalog is cached for a while and kept in a local database, so the
last copy stays available when the archive is unreachable. Favorites,
solved marks and settings are stored locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.cfg.Validate()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "archive API base URL")
	pf.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the local database")
	pf.StringVar(&cfg.Store, "store", cfg.Store, "local store engine: bolt or sqlite")
	pf.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "problems per page")
	pf.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "how long a fetched catalog stays fresh")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	pf.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")

	cmd.AddGroup(
		&cobra.Group{ID: "browse", Title: "Browsing:"},
		&cobra.Group{ID: "lists", Title: "Lists and profile:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)

	cmd.AddCommand(
		r.problemsCmd(),
		r.favoritesCmd(),
		r.browseCmd(),
		r.showCmd(),
		r.randomCmd(),
		r.statsCmd(),
		r.tagsCmd(),
		r.favCmd(),
		r.solveCmd(),
		r.loginCmd(),
		r.logoutCmd(),
		r.profileCmd(),
		r.syncSolvedCmd(),
		r.settingsCmd(),
		r.statusCmd(),
		r.refreshCmd(),
		r.clearCacheCmd(),
		r.contestsCmd(),
		r.versionCmd(),
	)
	return cmd, r
}

// client создает Cli при первом обращении
func (r *root) client(ctx context.Context) (*Cli, error) {
	if r.cli != nil {
		return r.cli, nil
	}
	c, closer, err := r.factory(ctx, r.cfg, r.io)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	r.cli = c
	r.closer = closer
	return c, nil
}

func (r *root) close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// run оборачивает обработчик, которому нужен Cli
func (r *root) run(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := r.client(cmd.Context())
		if err != nil {
			return err
		}
		return fn(cmd.Context(), c, args)
	}
}

func (r *root) problemsCmd() *cobra.Command {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:     "problems",
		Aliases: []string{"ls"},
		Short:   "List catalog problems matching filters",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		Example: `  cfhelper problems --division div2 --min-rating 1400 --tag dp
  cfhelper problems --where 'rating >= 1600 && "greedy" in tags' --sort rating --desc`,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runProblems(ctx, o)
		}),
	}
	bindListFlags(cmd, o)
	return cmd
}

func (r *root) favoritesCmd() *cobra.Command {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:     "favorites",
		Short:   "List favorite problems matching filters",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runFavorites(ctx, o)
		}),
	}
	bindListFlags(cmd, o)
	return cmd
}

func bindListFlags(cmd *cobra.Command, o *listOptions) {
	bindFilterFlags(cmd, &o.filterOptions)
	cmd.Flags().IntVar(&o.page, "page", 1, "page number")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "print the page as JSON")
	cmd.PreRun = func(cmd *cobra.Command, _ []string) { o.resolve(cmd) }
}

func (r *root) browseCmd() *cobra.Command {
	o := &filterOptions{}
	cmd := &cobra.Command{
		Use:     "browse",
		Short:   "Page through problems interactively",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		Example: `  cfhelper browse --division div2
  [problems p.1 | div=Div2] > /greedy
  [problems p.1 | div=Div2 "greedy"] > s rating`,
		PreRun: func(cmd *cobra.Command, _ []string) { o.resolve(cmd) },
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runBrowse(ctx, o)
		}),
	}
	bindFilterFlags(cmd, o)
	return cmd
}

func (r *root) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one problem",
		GroupID: "browse",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runShow(ctx, args[0])
		}),
	}
}

func (r *root) randomCmd() *cobra.Command {
	o := &filterOptions{}
	cmd := &cobra.Command{
		Use:     "random",
		Short:   "Pick a random problem matching filters",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		PreRun:  func(cmd *cobra.Command, _ []string) { o.resolve(cmd) },
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runRandom(ctx, o)
		}),
	}
	bindFilterFlags(cmd, o)
	return cmd
}

func (r *root) statsCmd() *cobra.Command {
	o := &statsOptions{}
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show statistics for problems matching filters",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		PreRun:  func(cmd *cobra.Command, _ []string) { o.resolve(cmd) },
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runStats(ctx, o)
		}),
	}
	bindFilterFlags(cmd, &o.filterOptions)
	cmd.Flags().BoolVar(&o.all, "all", false, "ignore filters and summarize the whole catalog")
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "print the summary as JSON")
	return cmd
}

func (r *root) tagsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "tags",
		Short:   "Show frequent tags and valid filter values",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runTags(ctx, limit)
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of tags to show")
	return cmd
}

func (r *root) favCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "fav <id>",
		Short:   "Add a problem to favorites or remove it",
		GroupID: "lists",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runToggleFavorite(ctx, args[0])
		}),
	}
}

func (r *root) solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "solve <id>",
		Short:   "Mark a problem solved or unmark it",
		GroupID: "lists",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runToggleSolved(ctx, args[0])
		}),
	}
}

func (r *root) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "login [handle]",
		Short:   "Load a public profile and remember it",
		GroupID: "lists",
		Args:    cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, c *Cli, args []string) error {
			handle := ""
			if len(args) > 0 {
				handle = args[0]
			}
			return c.runLogin(ctx, handle)
		}),
	}
}

func (r *root) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Forget the stored profile",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogout(ctx)
		}),
	}
}

func (r *root) profileCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   "Show the stored profile",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runProfile(ctx, refresh)
		}),
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the archive")
	return cmd
}

func (r *root) syncSolvedCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync-solved",
		Short:   "Mark problems accepted in the stored profile as solved",
		GroupID: "lists",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runSyncSolved(ctx)
		}),
	}
}

func (r *root) settingsCmd() *cobra.Command {
	o := &settingsOptions{}
	cmd := &cobra.Command{
		Use:     "settings",
		Short:   "Change display settings",
		GroupID: "data",
		Args:    cobra.NoArgs,
		Example: `  cfhelper settings --show-tags=false --dark-mode`,
		PreRun:  func(cmd *cobra.Command, _ []string) { o.resolve(cmd) },
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runSettings(ctx, o)
		}),
	}
	bindSettingsFlags(cmd, o)
	return cmd
}

func (r *root) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show cache, user and settings",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runStatus(ctx)
		}),
	}
}

func (r *root) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   "Fetch the catalog again ignoring the cache",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runRefresh(ctx)
		}),
	}
}

func (r *root) clearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear-cache",
		Short:   "Drop the cached and backed up catalog",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runClearCache(ctx)
		}),
	}
}

func (r *root) contestsCmd() *cobra.Command {
	o := &contestsOptions{}
	cmd := &cobra.Command{
		Use:     "contests",
		Short:   "List recent or upcoming contests",
		GroupID: "browse",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runContests(ctx, o)
		}),
	}
	cmd.Flags().IntVarP(&o.limit, "limit", "n", DefaultContestLimit, "number of contests to show")
	cmd.Flags().BoolVar(&o.upcoming, "upcoming", false, "show contests that have not started")
	return cmd
}

func (r *root) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// конфигурация и хранилище не нужны
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			r.io.Printf("cfhelper\n")
			r.io.Printf("Version:    %s\n", r.version.Version)
			r.io.Printf("Build Date: %s\n", r.version.BuildDate)
			r.io.Printf("Git Commit: %s\n", r.version.GitCommit)
		},
	}
}
