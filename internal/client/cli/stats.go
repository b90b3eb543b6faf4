package cli

import (
	"context"

	"github.com/iudanet/cfhelper/internal/stats"
)

type statsOptions struct {
	filterOptions
	all     bool
	jsonOut bool
}

type statsView struct {
	Title       string
	Summary     stats.Summary
	MaxRating   int
	MaxDivision int
	MaxPosition int
}

func (c *Cli) runStats(ctx context.Context, o *statsOptions) error {
	if err := c.prepare(ctx, &o.filterOptions); err != nil {
		return err
	}

	title := "Statistics (filtered)"
	summary := c.view.Stats(ctx)
	if o.all {
		title = "Statistics (whole catalog)"
		summary = c.view.CatalogStats(ctx)
	}

	if o.jsonOut {
		return c.writeJSON(summary)
	}

	data := statsView{Title: title, Summary: summary}
	for _, b := range summary.RatingHistogram {
		data.MaxRating = max(data.MaxRating, b.Count)
	}
	for _, b := range summary.DivisionHistogram {
		data.MaxDivision = max(data.MaxDivision, b.Count)
	}
	for _, b := range summary.PositionHistogram {
		data.MaxPosition = max(data.MaxPosition, b.Count)
	}
	return c.render(c.styles(ctx), "stats", statsTemplate, data)
}
