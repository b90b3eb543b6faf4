package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/client/view"
	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/query"
	"github.com/iudanet/cfhelper/internal/validation"
)

const (
	nameWidth = 42
	tagsWidth = 48
)

// listOptions флаги команд problems и favorites
type listOptions struct {
	filterOptions
	page    int
	jsonOut bool
}

// prepare загружает каталог и применяет фильтры и сортировку из флагов
func (c *Cli) prepare(ctx context.Context, o *filterOptions) error {
	spec, err := o.spec()
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	sortSpec, err := o.sort()
	if err != nil {
		return err
	}

	if err := c.loadCatalog(ctx); err != nil {
		return err
	}

	c.setHideSolved(o.hideSolved)
	c.view.SetFilters(spec)
	c.view.SetSortSpec(sortSpec)
	return nil
}

// loadCatalog загружает каталог; если архив и копии недоступны, подсказывает повтор
func (c *Cli) loadCatalog(ctx context.Context) error {
	err := c.view.Load(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrFetch):
		return fmt.Errorf("failed to load catalog (run `cfhelper refresh` to retry): %w", err)
	default:
		return fmt.Errorf("failed to load catalog: %w", err)
	}
}

func (c *Cli) runProblems(ctx context.Context, o *listOptions) error {
	return c.runList(ctx, o, query.ViewProblems)
}

func (c *Cli) runFavorites(ctx context.Context, o *listOptions) error {
	return c.runList(ctx, o, query.ViewFavorites)
}

func (c *Cli) runList(ctx context.Context, o *listOptions, v query.View) error {
	if err := c.prepare(ctx, &o.filterOptions); err != nil {
		return err
	}
	if o.page > 0 {
		c.view.SetPage(ctx, v, o.page)
	}

	var page view.Page
	if v == query.ViewFavorites {
		page = c.view.FavoritesPage(ctx)
	} else {
		page = c.view.ProblemsPage(ctx)
	}

	if o.jsonOut {
		return c.writeJSON(page)
	}
	c.renderPage(ctx, page)
	return nil
}

func (c *Cli) renderPage(ctx context.Context, page view.Page) {
	styles := c.styles(ctx)

	if page.TotalItems == 0 {
		if page.View == query.ViewFavorites {
			c.io.Println("No favorites match the current filters.")
			c.io.Println("Use 'cfhelper fav <id>' to add a problem to favorites.")
			return
		}
		c.io.Println("No problems match the current filters.")
		return
	}

	title := "Problems"
	if page.View == query.ViewFavorites {
		title = "Favorites"
	}
	c.io.Printf("%s %s\n", styles.Render(styles.Title, title),
		styles.Render(styles.Muted, fmt.Sprintf("(%s total, page %d of %d)",
			humanize.Comma(int64(page.TotalItems)), page.Page, page.TotalPages)))

	c.io.Printf("%s", c.problemTable(ctx, styles, page.Items))

	if page.TotalPages > 1 {
		c.io.Printf("Pages: %s\n", pageWindow(page))
	}
}

func (c *Cli) problemTable(ctx context.Context, styles Styles, problems []models.Problem) string {
	visibility := c.prefs.Visibility(ctx)
	favorites := query.NewIDSet(c.prefs.Favorites(ctx))
	solved := query.NewIDSet(c.prefs.Solved(ctx))

	headers := []string{"", "ID", "Name"}
	ratingCol := -1
	if visibility.ShowRating {
		ratingCol = len(headers)
		headers = append(headers, "Rating")
	}
	if visibility.ShowTags {
		headers = append(headers, "Tags")
	}

	rows := make([][]string, 0, len(problems))
	for _, p := range problems {
		row := []string{marks(favorites.Has(p.ID), solved.Has(p.ID)), p.ID, truncate(p.Name, nameWidth)}
		if visibility.ShowRating {
			row = append(row, ratingText(p))
		}
		if visibility.ShowTags {
			row = append(row, truncate(strings.Join(p.Tags, ", "), tagsWidth))
		}
		rows = append(rows, row)
	}

	return renderTable(styles, headers, rows, func(row, col int) lipgloss.Style {
		if col == ratingCol && row >= 0 && row < len(problems) {
			return styles.TierStyle(problems[row].RatingValue())
		}
		return lipgloss.NewStyle()
	})
}

// marks избранное и решенное одной колонкой
func marks(favorite, solved bool) string {
	var sb strings.Builder
	if favorite {
		sb.WriteString("★")
	}
	if solved {
		sb.WriteString("✓")
	}
	return sb.String()
}

func ratingText(p models.Problem) string {
	if !p.HasRating() {
		return "-"
	}
	return strconv.Itoa(p.RatingValue())
}

// pageWindow номера страниц вокруг текущей, текущая в скобках
func pageWindow(page view.Page) string {
	parts := make([]string, 0, len(page.Window)+2)
	if len(page.Window) > 0 && page.Window[0] > 1 {
		parts = append(parts, "…")
	}
	for _, n := range page.Window {
		if n == page.Page {
			parts = append(parts, fmt.Sprintf("[%d]", n))
			continue
		}
		parts = append(parts, strconv.Itoa(n))
	}
	if len(page.Window) > 0 && page.Window[len(page.Window)-1] < page.TotalPages {
		parts = append(parts, "…")
	}
	return strings.Join(parts, " ")
}

func (c *Cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.io)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func (c *Cli) runToggleFavorite(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := validation.ValidateProblemID(id); err != nil {
		return err
	}
	if c.prefs.ToggleFavorite(ctx, id) {
		c.io.Printf("★ Added %s to favorites\n", id)
	} else {
		c.io.Printf("Removed %s from favorites\n", id)
	}
	return nil
}

func (c *Cli) runToggleSolved(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := validation.ValidateProblemID(id); err != nil {
		return err
	}
	if c.prefs.ToggleSolved(ctx, id) {
		c.io.Printf("✓ Marked %s as solved\n", id)
	} else {
		c.io.Printf("Unmarked %s as solved\n", id)
	}
	return nil
}

func (c *Cli) runRandom(ctx context.Context, o *filterOptions) error {
	if err := c.prepare(ctx, o); err != nil {
		return err
	}
	p, ok := c.view.Random(ctx)
	if !ok {
		c.io.Println("No problems match the current filters.")
		return nil
	}
	return c.renderProblem(ctx, p)
}

func (c *Cli) renderProblem(ctx context.Context, p models.Problem) error {
	visibility := c.prefs.Visibility(ctx)
	return c.render(c.styles(ctx), "problem", problemTemplate, struct {
		Problem    models.Problem
		ShowRating bool
		ShowTags   bool
		Favorite   bool
		Solved     bool
	}{
		Problem:    p,
		ShowRating: visibility.ShowRating,
		ShowTags:   visibility.ShowTags,
		Favorite:   query.NewIDSet(c.prefs.Favorites(ctx)).Has(p.ID),
		Solved:     query.NewIDSet(c.prefs.Solved(ctx)).Has(p.ID),
	})
}
