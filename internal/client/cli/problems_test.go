package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cfhelper/internal/client/catalog"
	"github.com/iudanet/cfhelper/internal/client/view"
)

func TestProblems_ListsWholeCatalog(t *testing.T) {
	env := newTestEnv()

	out := env.mustExecute(t, "problems")

	assert.Contains(t, out, "Problems (5 total, page 1 of 1)")
	for _, id := range []string{"1850-A", "1850-B", "1903-C", "1904-D", "1905-E"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "Theofanis Nightmare")
	assert.NotContains(t, out, "Pages:")
}

func TestProblems_Filters(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "rating bound excludes unrated",
			args:    []string{"--min-rating", "1000"},
			want:    []string{"1903-C", "1904-D"},
			notWant: []string{"1850-A", "1905-E"},
		},
		{
			name:    "tags are combined with and",
			args:    []string{"--tag", "dp", "--tag", "greedy"},
			want:    []string{"1903-C"},
			notWant: []string{"1904-D", "1850-A"},
		},
		{
			name:    "division shorthand",
			args:    []string{"--division", "4"},
			want:    []string{"1905-E"},
			notWant: []string{"1903-C"},
		},
		{
			name:    "position",
			args:    []string{"--position", "b"},
			want:    []string{"1850-B"},
			notWant: []string{"1850-A"},
		},
		{
			name:    "search matches name",
			args:    []string{"--search", "wisdom"},
			want:    []string{"1850-B"},
			notWant: []string{"1850-A"},
		},
		{
			name:    "cel expression",
			args:    []string{"--where", `rating >= 2000 && "dp" in tags`},
			want:    []string{"1904-D"},
			notWant: []string{"1903-C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			out := env.mustExecute(t, append([]string{"problems"}, tt.args...)...)

			for _, id := range tt.want {
				assert.Contains(t, out, id)
			}
			for _, id := range tt.notWant {
				assert.NotContains(t, out, id)
			}
		})
	}
}

func TestProblems_InvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown division", args: []string{"--division", "div9"}, wantErr: "unknown division"},
		{name: "inverted bounds", args: []string{"--min-rating", "2000", "--max-rating", "1000"}, wantErr: "greater than max rating"},
		{name: "bad expression", args: []string{"--where", "rating >="}, wantErr: "invalid filter"},
		{name: "non bool expression", args: []string{"--where", "rating + 1"}, wantErr: "invalid filter"},
		{name: "unknown sort key", args: []string{"--sort", "likes"}, wantErr: "unknown sort key"},
		{name: "positional arg", args: []string{"extra"}, wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := env.execute(t, append([]string{"problems"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProblems_NoMatches(t *testing.T) {
	env := newTestEnv()
	out := env.mustExecute(t, "problems", "--search", "nothing like this")
	assert.Contains(t, out, "No problems match the current filters.")
}

func TestProblems_SortDescending(t *testing.T) {
	env := newTestEnv()
	out := env.mustExecute(t, "problems", "--sort", "rating", "--desc")

	hard := strings.Index(out, "1904-D")
	medium := strings.Index(out, "1903-C")
	easy := strings.Index(out, "1850-A")
	require.True(t, hard >= 0 && medium >= 0 && easy >= 0)
	assert.Less(t, hard, medium)
	assert.Less(t, medium, easy)
}

func TestProblems_Pagination(t *testing.T) {
	env := newTestEnv()

	out := env.mustExecute(t, "--page-size", "2", "problems", "--page", "2")
	assert.Contains(t, out, "page 2 of 3")
	assert.Contains(t, out, "Pages: 1 [2] 3")
	assert.Contains(t, out, "1903-C")
	assert.NotContains(t, out, "1850-A")

	// номер страницы за пределами зажимается к последней
	out = env.mustExecute(t, "--page-size", "2", "problems", "--page", "99")
	assert.Contains(t, out, "page 3 of 3")
	assert.Contains(t, out, "1905-E")
}

func TestProblems_JSON(t *testing.T) {
	env := newTestEnv()
	out := env.mustExecute(t, "problems", "--tag", "implementation", "--json")

	var page view.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "1850-A", page.Items[0].ID)
}

func TestProblems_VisibilityColumns(t *testing.T) {
	env := newTestEnv()
	env.prefs.visibility.ShowTags = false
	env.prefs.visibility.ShowRating = false

	out := env.mustExecute(t, "problems")
	assert.NotContains(t, out, "Rating")
	assert.NotContains(t, out, "Tags")
	assert.NotContains(t, out, "sortings")
}

func TestProblems_CatalogUnavailable(t *testing.T) {
	env := newTestEnv()
	env.catalog.err = fmt.Errorf("%w: %w", catalog.ErrFetch, errBoom)

	for _, args := range [][]string{{"problems"}, {"browse"}, {"tags"}, {"show", "1850-A"}, {"stats"}} {
		t.Run(args[0], func(t *testing.T) {
			_, err := env.execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load catalog")
			assert.Contains(t, err.Error(), "run `cfhelper refresh` to retry")
			assert.ErrorIs(t, err, catalog.ErrFetch)
			assert.ErrorIs(t, err, errBoom)
		})
	}
}

func TestProblems_CatalogOtherErrorHasNoRetryHint(t *testing.T) {
	env := newTestEnv()
	env.catalog.err = errBoom

	_, err := env.execute(t, "problems")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
	assert.NotContains(t, err.Error(), "cfhelper refresh")
	assert.ErrorIs(t, err, errBoom)
}

func TestFavorites_ToggleAndList(t *testing.T) {
	env := newTestEnv()

	out := env.mustExecute(t, "favorites")
	assert.Contains(t, out, "No favorites match the current filters.")

	out = env.mustExecute(t, "fav", "1903-C")
	assert.Contains(t, out, "Added 1903-C to favorites")
	env.mustExecute(t, "fav", "1850-A")

	out = env.mustExecute(t, "favorites")
	assert.Contains(t, out, "Favorites (2 total")
	assert.Contains(t, out, "1903-C")
	assert.Contains(t, out, "★")
	assert.NotContains(t, out, "1904-D")

	// избранное показывается через активные фильтры
	out = env.mustExecute(t, "favorites", "--min-rating", "1000")
	assert.Contains(t, out, "1903-C")
	assert.NotContains(t, out, "1850-A")

	out = env.mustExecute(t, "fav", "1903-C")
	assert.Contains(t, out, "Removed 1903-C from favorites")
	assert.Equal(t, []string{"1850-A"}, env.prefs.favorites)
}

func TestFav_InvalidID(t *testing.T) {
	env := newTestEnv()

	_, err := env.execute(t, "fav", "not-an-id")
	require.Error(t, err)
	assert.Empty(t, env.prefs.favorites)

	_, err = env.execute(t, "fav")
	require.Error(t, err)
}

func TestSolve_HideSolved(t *testing.T) {
	env := newTestEnv()

	out := env.mustExecute(t, "solve", "1850-A")
	assert.Contains(t, out, "Marked 1850-A as solved")

	out = env.mustExecute(t, "problems")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "1850-A")

	out = env.mustExecute(t, "problems", "--hide-solved")
	assert.NotContains(t, out, "1850-A")
	assert.Contains(t, out, "4 total")

	// сохраненная настройка тоже скрывает решенные
	env.prefs.visibility.ShowSolved = false
	out = env.mustExecute(t, "problems")
	assert.NotContains(t, out, "1850-A")

	out = env.mustExecute(t, "solve", "1850-A")
	assert.Contains(t, out, "Unmarked 1850-A as solved")
	assert.Empty(t, env.prefs.solved)
}

func TestRandom(t *testing.T) {
	env := newTestEnv()

	out := env.mustExecute(t, "random", "--division", "div4")
	assert.Contains(t, out, "1905-E")
	assert.Contains(t, out, "Unrated One")
	assert.Contains(t, out, "unrated")
	assert.Contains(t, out, "https://codeforces.com/problemset/problem/1905/E")

	out = env.mustExecute(t, "random", "--min-rating", "3500")
	assert.Contains(t, out, "No problems match the current filters.")
}

func TestShow(t *testing.T) {
	env := newTestEnv()
	env.prefs.favorites = []string{"1904-D"}

	out := env.mustExecute(t, "show", "1904-D")
	assert.Contains(t, out, "Hard DP")
	assert.Contains(t, out, "2100 (Very Hard)")
	assert.Contains(t, out, "Favorite:   yes")
	assert.Contains(t, out, "Solved:     no")

	_, err := env.execute(t, "show", "1-Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStyledTable(t *testing.T) {
	env := newTestEnv()
	var buf strings.Builder
	mockIO := newRecordingIO(&buf, true)

	c := New(mockIO, env.catalog, env.prefs, Options{PageSize: 10})
	o := &listOptions{}
	require.NoError(t, c.runProblems(t.Context(), o))

	out := buf.String()
	assert.Contains(t, out, "1904-D")
	assert.Contains(t, out, "Hard DP")
	assert.Contains(t, out, "╭")
	assert.NotEmpty(t, mockIO.IsTerminalCalls())
}

func TestTableHelpers(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ab", truncate("ab", 0))
	assert.Equal(t, "ж", truncate("жук", 1))

	assert.Equal(t, "★✓", marks(true, true))
	assert.Equal(t, "", marks(false, false))

	assert.Equal(t, "… 3 4 [5] 6 7 …", pageWindow(view.Page{Page: 5, TotalPages: 10, Window: []int{3, 4, 5, 6, 7}}))
	assert.Equal(t, "[1] 2", pageWindow(view.Page{Page: 1, TotalPages: 2, Window: []int{1, 2}}))

	plain := plainTable([]string{"ID", "Name"}, [][]string{{"1-A", "x"}, {"1000-B", "y"}})
	assert.Equal(t, "ID      Name\n1-A     x\n1000-B  y\n", plain)
}

func TestParseDivision(t *testing.T) {
	for _, in := range []string{"Div2", "div2", "2", " DIV2 "} {
		d, err := parseDivision(in)
		require.NoError(t, err, in)
		assert.Equal(t, "Div2", string(d))
	}

	d, err := parseDivision("mixed")
	require.NoError(t, err)
	assert.Equal(t, "Mixed", string(d))

	_, err = parseDivision("Unknown")
	assert.Error(t, err)
}
