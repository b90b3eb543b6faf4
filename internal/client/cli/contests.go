package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/stats"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

// DefaultContestLimit сколько контестов выводить по умолчанию
const DefaultContestLimit = 20

type contestsOptions struct {
	limit    int
	upcoming bool
}

func (c *Cli) runContests(ctx context.Context, o *contestsOptions) error {
	contests, err := c.catalog.Contests(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contests: %w", err)
	}

	selected := make([]pkgapi.Contest, 0, len(contests))
	for _, contest := range contests {
		if o.upcoming != (contest.Phase == pkgapi.PhaseBefore) {
			continue
		}
		selected = append(selected, contest)
	}
	if o.upcoming {
		// ближайший первым, архив отдает предстоящие от дальних к ближним
		slices.Reverse(selected)
	}
	if o.limit > 0 && len(selected) > o.limit {
		selected = selected[:o.limit]
	}

	if len(selected) == 0 {
		c.io.Println("No contests found.")
		return nil
	}

	styles := c.styles(ctx)
	rows := make([][]string, 0, len(selected))
	for _, contest := range selected {
		rows = append(rows, []string{
			strconv.Itoa(contest.ID),
			truncate(contest.Name, 60),
			string(models.ClassifyDivision(contest.ID)),
			c.contestStart(contest),
			contestLength(contest.DurationSeconds),
		})
	}
	c.io.Printf("%s", renderTable(styles, []string{"ID", "Name", "Division", "Start", "Length"}, rows,
		func(_, _ int) lipgloss.Style { return lipgloss.NewStyle() }))
	return nil
}

func (c *Cli) contestStart(contest pkgapi.Contest) string {
	if contest.StartTimeSeconds == 0 {
		return "-"
	}
	return c.ago(time.Unix(contest.StartTimeSeconds, 0))
}

// contestLength длительность в формате h:mm
func contestLength(seconds int64) string {
	minutes := seconds / 60
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// runTags печатает самые частые теги каталога и допустимые значения фильтров
func (c *Cli) runTags(ctx context.Context, limit int) error {
	if err := c.loadCatalog(ctx); err != nil {
		return err
	}
	if limit <= 0 {
		limit = stats.DefaultTopTags
	}

	styles := c.styles(ctx)
	top := stats.TopTags(c.view.Problems(), limit)

	c.io.Println(styles.Render(styles.Title, "Most frequent tags"))
	rows := make([][]string, 0, len(top))
	for _, t := range top {
		rows = append(rows, []string{t.Tag, humanize.Comma(int64(t.Count))})
	}
	c.io.Printf("%s", renderTable(styles, []string{"Tag", "Problems"}, rows, nil))

	c.io.Println()
	c.io.Printf("%s %s\n", styles.Render(styles.Header, "Popular tags:"), strings.Join(models.PopularTags(), ", "))
	c.io.Printf("%s %s\n", styles.Render(styles.Header, "Divisions:"), joinDivisions())
	c.io.Printf("%s %s\n", styles.Render(styles.Header, "Positions:"), strings.Join(models.Positions(), ", "))
	return nil
}

// runShow печатает одну задачу каталога
func (c *Cli) runShow(ctx context.Context, id string) error {
	if err := c.loadCatalog(ctx); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	for _, p := range c.view.Problems() {
		if p.ID == id {
			return c.renderProblem(ctx, p)
		}
	}
	return fmt.Errorf("problem %s not found in catalog", id)
}
