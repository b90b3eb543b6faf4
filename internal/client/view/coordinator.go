// Package view coordinates catalog loading, filter state and pagination
// for the presentation layer.
package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/query"
	"github.com/iudanet/cfhelper/internal/stats"
)

// PageWindowWidth сколько номеров страниц показывать в навигации
const PageWindowWidth = 5

// CatalogSource supplies the problem catalog
type CatalogSource interface {
	GetCatalog(ctx context.Context) ([]models.Problem, error)
	Refresh(ctx context.Context) ([]models.Problem, error)
}

// PrefsSource supplies the user's lists and visibility flags
type PrefsSource interface {
	Favorites(ctx context.Context) []string
	Solved(ctx context.Context) []string
	Visibility(ctx context.Context) models.VisibilityPrefs
}

// Page is one rendered page of a view
type Page struct {
	View       query.View       `json:"view"`
	Items      []models.Problem `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	TotalItems int              `json:"total_items"`
	PageSize   int              `json:"page_size"`
	Window     []int            `json:"window"`
}

// Options configures a Coordinator
type Options struct {
	PageSize    int
	SearchDelay time.Duration
	Logger      *slog.Logger
}

// Coordinator owns the loaded catalog, the active filter and sort, and the
// page of every view. It is safe for concurrent use: debounced search
// applies filters from a timer goroutine.
type Coordinator struct {
	catalog CatalogSource
	prefs   PrefsSource
	logger  *slog.Logger
	pager   *query.Pager
	search  *Debouncer[string]

	mu         sync.Mutex
	problems   []models.Problem
	loaded     bool
	filter     query.FilterSpec
	sort       query.SortSpec
	generation uint64
}

// New creates a coordinator
func New(catalog CatalogSource, prefs PrefsSource, opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}

	c := &Coordinator{
		catalog: catalog,
		prefs:   prefs,
		logger:  opts.Logger,
		pager:   query.NewPager(opts.PageSize),
	}
	c.search = NewDebouncer(opts.SearchDelay, func(text string) {
		c.UpdateFilters(func(f *query.FilterSpec) { f.Search = text })
	})
	return c
}

// Load fetches the catalog (honoring the cache freshness window).
// If a newer Load or Refresh starts before this one completes, this
// result is discarded.
func (c *Coordinator) Load(ctx context.Context) error {
	return c.load(ctx, c.catalog.GetCatalog)
}

// Refresh refetches the catalog ignoring the freshness window
func (c *Coordinator) Refresh(ctx context.Context) error {
	return c.load(ctx, c.catalog.Refresh)
}

func (c *Coordinator) load(ctx context.Context, fetch func(context.Context) ([]models.Problem, error)) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	problems, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("Discarding superseded catalog load", "generation", gen, "current", c.generation)
		return nil
	}
	if err != nil {
		return err
	}

	c.problems = problems
	c.loaded = true
	return nil
}

// Loaded reports whether a catalog has been loaded
func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Problems returns the full loaded catalog
func (c *Coordinator) Problems() []models.Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.problems
}

// Filters returns a copy of the active filter
func (c *Coordinator) Filters() query.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

// SetFilters replaces the active filter. Any change moves every view back
// to page 1. Returns whether the filter changed.
func (c *Coordinator) SetFilters(spec query.FilterSpec) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setFiltersLocked(spec)
}

// UpdateFilters modifies a copy of the active filter and applies it
func (c *Coordinator) UpdateFilters(update func(*query.FilterSpec)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.filter.Clone()
	update(&next)
	return c.setFiltersLocked(next)
}

// ClearFilters resets the filter to match everything
func (c *Coordinator) ClearFilters() bool {
	c.search.Cancel()
	return c.SetFilters(query.FilterSpec{})
}

func (c *Coordinator) setFiltersLocked(spec query.FilterSpec) bool {
	if c.filter.Equal(spec) {
		return false
	}
	c.filter = spec.Clone()
	c.pager.Reset()
	return true
}

// Search schedules a search text change after the quiet period.
// Newer input replaces pending input.
func (c *Coordinator) Search(text string) {
	c.search.Trigger(text)
}

// FlushSearch applies pending search input immediately
func (c *Coordinator) FlushSearch() bool {
	return c.search.Flush()
}

// Sort returns the active sort
func (c *Coordinator) Sort() query.SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// SetSort applies a column click: same column flips order, new column
// starts ascending
func (c *Coordinator) SetSort(key query.SortKey) query.SortSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = query.ToggleSort(c.sort, key)
	return c.sort
}

// SetSortSpec sets sort column and order directly
func (c *Coordinator) SetSortSpec(spec query.SortSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = spec
}

// SetPage moves view to page, clamped to the available pages
func (c *Coordinator) SetPage(ctx context.Context, view query.View, page int) int {
	total := len(c.viewItems(ctx, view))
	return c.pager.SetPage(view, page, total)
}

// PageState returns the current page state of view
func (c *Coordinator) PageState(view query.View) query.PageState {
	return c.pager.State(view)
}

// Filtered returns all problems passing the active filter and visibility
// settings, sorted
func (c *Coordinator) Filtered(ctx context.Context) []models.Problem {
	c.mu.Lock()
	problems := c.problems
	spec := c.filter.Clone()
	sortSpec := c.sort
	c.mu.Unlock()

	visibility := c.prefs.Visibility(ctx)
	var solved query.IDLookup
	if !visibility.ShowSolved {
		solved = query.NewIDSet(c.prefs.Solved(ctx))
	}

	filtered := query.Apply(problems, spec, solved, visibility.ShowSolved)
	return query.Sort(filtered, sortSpec)
}

// ProblemsPage returns the current page of the problems view
func (c *Coordinator) ProblemsPage(ctx context.Context) Page {
	return c.page(ctx, query.ViewProblems)
}

// FavoritesPage returns the current page of the favorites view
func (c *Coordinator) FavoritesPage(ctx context.Context) Page {
	return c.page(ctx, query.ViewFavorites)
}

// Random picks a random problem from the filtered set
func (c *Coordinator) Random(ctx context.Context) (models.Problem, bool) {
	return query.RandomPick(c.Filtered(ctx), nil)
}

// Stats summarizes the filtered set together with the user's lists
func (c *Coordinator) Stats(ctx context.Context) stats.Summary {
	return stats.Summarize(c.Filtered(ctx), c.prefs.Favorites(ctx), c.prefs.Solved(ctx))
}

// CatalogStats summarizes the whole catalog, ignoring filters
func (c *Coordinator) CatalogStats(ctx context.Context) stats.Summary {
	return stats.Summarize(c.Problems(), c.prefs.Favorites(ctx), c.prefs.Solved(ctx))
}

func (c *Coordinator) viewItems(ctx context.Context, view query.View) []models.Problem {
	filtered := c.Filtered(ctx)
	if view == query.ViewFavorites {
		return query.FavoritesView(filtered, query.NewIDSet(c.prefs.Favorites(ctx)))
	}
	return filtered
}

func (c *Coordinator) page(ctx context.Context, view query.View) Page {
	items := c.viewItems(ctx, view)
	current := c.pager.Clamp(view, len(items))
	totalPages := query.TotalPages(len(items), c.pager.PageSize())

	return Page{
		View:       view,
		Items:      query.Paginate(items, current, c.pager.PageSize()),
		Page:       current,
		TotalPages: totalPages,
		TotalItems: len(items),
		PageSize:   c.pager.PageSize(),
		Window:     query.PageWindow(current, totalPages, PageWindowWidth),
	}
}
