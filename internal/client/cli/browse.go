package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iudanet/cfhelper/internal/query"
	"github.com/iudanet/cfhelper/internal/query/expr"
	"github.com/iudanet/cfhelper/internal/validation"
)

// errQuit завершает интерактивный просмотр
var errQuit = errors.New("quit")

const browseHelp = `Commands:
  n, next            next page
  p, prev            previous page
  g, page <n>        go to page n
  /<text>            search names and tags ("/" alone clears the search)
  d, division <div>  filter by division (empty clears)
  pos <index>        filter by position, e.g. C or C1 (empty clears)
  min <rating>       minimum rating (empty clears)
  max <rating>       maximum rating (empty clears)
  t, tag <tag>       require a tag (empty clears all tags)
  w, where <expr>    CEL condition (empty clears)
  s, sort <key>      sort by rating, name, contest or position; again flips order
  c, clear           clear all filters
  v, view            switch between problems and favorites
  fav <id>           add or remove a favorite
  solve <id>         mark or unmark a problem solved
  r, random          show a random matching problem
  q, quit            leave`

// browser состояние одной интерактивной сессии
type browser struct {
	c    *Cli
	view query.View
}

// runBrowse читает команды построчно, пока не встретит quit или конец ввода
func (c *Cli) runBrowse(ctx context.Context, o *filterOptions) error {
	if err := c.prepare(ctx, o); err != nil {
		return err
	}

	b := &browser{c: c, view: query.ViewProblems}
	c.io.Println("Type 'help' for commands, 'q' to quit.")
	b.render(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.io.ReadInput(b.prompt())
		if errors.Is(err, io.EOF) {
			c.io.Println()
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		err = b.exec(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			c.io.Printf("Error: %v\n", err)
		}
	}
}

// prompt показывает вид, страницу, сортировку и активные фильтры
func (b *browser) prompt() string {
	state := b.c.view.PageState(b.view)
	parts := []string{fmt.Sprintf("%s p.%d", b.view, state.CurrentPage)}
	if s := b.c.view.Sort(); s.Key != query.SortNone {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Key, s.Order))
	}
	if f := describeFilters(b.c.view.Filters()); f != "" {
		parts = append(parts, f)
	}
	return "[" + strings.Join(parts, " | ") + "] > "
}

func (b *browser) exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	c := b.c

	if strings.HasPrefix(line, "/") {
		// Поиск идет через тот же отложенный путь, что и ввод с клавиатуры; Enter применяет сразу
		c.view.Search(strings.TrimSpace(line[1:]))
		c.view.FlushSearch()
		b.render(ctx)
		return nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "q", "quit", "exit":
		return errQuit
	case "h", "help", "?":
		c.io.Println(browseHelp)
		return nil
	case "n", "next":
		c.view.SetPage(ctx, b.view, c.view.PageState(b.view).CurrentPage+1)
	case "p", "prev":
		c.view.SetPage(ctx, b.view, c.view.PageState(b.view).CurrentPage-1)
	case "g", "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid page %q", arg)
		}
		c.view.SetPage(ctx, b.view, n)
	case "d", "division":
		if err := b.setDivision(arg); err != nil {
			return err
		}
	case "pos", "position":
		c.view.UpdateFilters(func(f *query.FilterSpec) { f.Position = arg })
	case "min":
		if err := b.setRating(arg, true); err != nil {
			return err
		}
	case "max":
		if err := b.setRating(arg, false); err != nil {
			return err
		}
	case "t", "tag":
		c.view.UpdateFilters(func(f *query.FilterSpec) {
			if arg == "" {
				f.Tags = nil
				return
			}
			f.Tags = append(f.Tags, arg)
		})
	case "w", "where":
		next := c.view.Filters()
		if err := expr.Apply(&next, arg); err != nil {
			return err
		}
		c.view.SetFilters(next)
	case "s", "sort":
		key, err := query.ParseSortKey(arg)
		if err != nil {
			return err
		}
		if key == query.SortNone {
			c.view.SetSortSpec(query.SortSpec{})
		} else {
			c.view.SetSort(key)
		}
	case "c", "clear":
		if !c.view.ClearFilters() {
			c.io.Println("No filters to clear.")
			return nil
		}
	case "v", "view":
		if b.view == query.ViewProblems {
			b.view = query.ViewFavorites
		} else {
			b.view = query.ViewProblems
		}
	case "fav":
		return c.runToggleFavorite(ctx, arg)
	case "solve":
		return c.runToggleSolved(ctx, arg)
	case "r", "random":
		p, ok := c.view.Random(ctx)
		if !ok {
			c.io.Println("No problems match the current filters.")
			return nil
		}
		return c.renderProblem(ctx, p)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}

	b.render(ctx)
	return nil
}

func (b *browser) setDivision(arg string) error {
	if arg == "" {
		b.c.view.UpdateFilters(func(f *query.FilterSpec) { f.Division = "" })
		return nil
	}
	division, err := parseDivision(arg)
	if err != nil {
		return err
	}
	b.c.view.UpdateFilters(func(f *query.FilterSpec) { f.Division = division })
	return nil
}

// setRating меняет одну границу рейтинга, проверяя согласованность с другой
func (b *browser) setRating(arg string, lower bool) error {
	var bound *int
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid rating %q", arg)
		}
		bound = &v
	}

	next := b.c.view.Filters()
	if lower {
		next.MinRating = bound
	} else {
		next.MaxRating = bound
	}
	if err := validation.ValidateRatingBounds(next.MinRating, next.MaxRating); err != nil {
		return err
	}
	b.c.view.SetFilters(next)
	return nil
}

func (b *browser) render(ctx context.Context) {
	if b.view == query.ViewFavorites {
		b.c.renderPage(ctx, b.c.view.FavoritesPage(ctx))
		return
	}
	b.c.renderPage(ctx, b.c.view.ProblemsPage(ctx))
}

// describeFilters краткая запись активных фильтров для приглашения
func describeFilters(f query.FilterSpec) string {
	var parts []string
	if f.Division != "" {
		parts = append(parts, "div="+string(f.Division))
	}
	if f.Position != "" {
		parts = append(parts, "pos="+f.Position)
	}
	if f.MinRating != nil {
		parts = append(parts, "min="+strconv.Itoa(*f.MinRating))
	}
	if f.MaxRating != nil {
		parts = append(parts, "max="+strconv.Itoa(*f.MaxRating))
	}
	for _, tag := range f.Tags {
		parts = append(parts, "tag="+tag)
	}
	if f.Search != "" {
		parts = append(parts, strconv.Quote(f.Search))
	}
	if f.Expr != "" {
		parts = append(parts, "where="+f.Expr)
	}
	return strings.Join(parts, " ")
}
