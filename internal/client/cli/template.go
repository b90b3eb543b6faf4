package cli

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

const problemTemplate = `
{{ title "Problem" }} {{ .Problem.ID }}

Name:       {{ .Problem.Name }}
Contest:    {{ .Problem.ContestID }} ({{ .Problem.Division }})
Index:      {{ .Problem.Index }}
{{- if .ShowRating }}
Rating:     {{ if .Problem.HasRating }}{{ rating .Problem.RatingValue (print .Problem.RatingValue) }} ({{ .Problem.DifficultyLevel }}){{ else }}unrated{{ end }}
{{- end }}
{{- if and .ShowTags .Problem.Tags }}
Tags:       {{ join .Problem.Tags ", " }}
{{- end }}
Favorite:   {{ yesno .Favorite }}
Solved:     {{ yesno .Solved }}
URL:        {{ .Problem.URL }}
`

const profileTemplate = `
{{ title "Profile" }} {{ rating .Profile.RatingValue .Profile.Handle }}
{{- with .Profile.FullName }}
Name:         {{ . }}
{{- end }}
{{- with .Profile.Country }}
Country:      {{ . }}
{{- end }}
{{- with .Profile.Organization }}
Organization: {{ . }}
{{- end }}
Rank:         {{ rating .Profile.RatingValue .Tier }}
Rating:       {{ rating .Progress.Current (print .Progress.Current) }} (max {{ rating .Progress.Max (print .Progress.Max) }}, {{ signed .Progress.Change }})
Next goal:    {{ .Progress.Next }} ({{ .Progress.ToNext }} to go)
Contribution: {{ signed .Profile.Contribution }}
Solved:       {{ comma (len .Profile.SolvedProblems) }} problems
Favorites:    {{ comma .Favorites }}{{ if .CatalogSize }} ({{ pct .ExplorationRate }} of catalog){{ end }}
Local solved: {{ comma .MarkedSolved }}{{ if .CatalogSize }} ({{ pct .SolveRate }} of catalog){{ end }}
{{- if .TopTags }}
Top tags:
{{- range .TopTags }}
  {{ printf "%-26s" .Tag }} {{ comma .Count }}
{{- end }}
{{- end }}
Fetched:      {{ ago .Profile.FetchedAt }}
`

const statsTemplate = `
{{ title .Title }}

Problems:          {{ comma .Summary.Total }} ({{ comma .Summary.Rated }} rated, {{ .Summary.UniqueContests }} contests)
Average rating:    {{ if .Summary.AverageRating }}{{ rating .Summary.AverageRating (print .Summary.AverageRating) }}{{ else }}n/a{{ end }}
Favorites:         {{ comma .Summary.Favorites }} ({{ pct .Summary.ExplorationRate }} explored, {{ .Summary.FavoriteContests }} contests)
Solved:            {{ comma .Summary.Solved }} ({{ pct .Summary.SolveRate }})
{{- if .Summary.RatingHistogram }}

{{ header "Rating distribution" }}
{{- range .Summary.RatingHistogram }}
  {{ rating .Floor (printf "%4d" .Floor) }} {{ bar .Count $.MaxRating }} {{ comma .Count }}
{{- end }}
{{- end }}
{{- if .Summary.DivisionHistogram }}

{{ header "Divisions" }}
{{- range .Summary.DivisionHistogram }}
  {{ printf "%-8s" .Label }} {{ bar .Count $.MaxDivision }} {{ comma .Count }}
{{- end }}
{{- end }}
{{- if .Summary.PositionHistogram }}

{{ header "Positions" }}
{{- range .Summary.PositionHistogram }}
  {{ printf "%-4s" .Label }} {{ bar .Count $.MaxPosition }} {{ comma .Count }}
{{- end }}
{{- end }}
{{- if .Summary.TopTags }}

{{ header "Top tags" }}
{{- range .Summary.TopTags }}
  {{ printf "%-26s" .Tag }} {{ comma .Count }}
{{- end }}
{{- end }}
{{- if .Summary.Favorites }}

{{ header "Favorites by difficulty" }}
{{- range .Summary.FavoriteDifficulty }}
  {{ printf "%-7s" .Name }} {{ printf "%4d-%-4d" .Min .Max }} {{ comma .Count }} ({{ pct .Percent }})
{{- end }}
{{- end }}
`

const statusTemplate = `
{{ title "Status" }}

Catalog:    {{ if .Cache.Present }}{{ comma .Cache.Size }} problems, fetched {{ ago .Cache.FetchedAt }}{{ if .Cache.Fresh }} (fresh){{ else }} (stale){{ end }}{{ else }}not loaded{{ end }}
{{- with .Cache.Source }}
Source:     {{ . }}
{{- end }}
Backup:     {{ if .HasBackup }}saved {{ ago .BackupAt }}{{ else }}none{{ end }}
User:       {{ with .User }}{{ rating .RatingValue .Handle }}{{ else }}not logged in{{ end }}
Favorites:  {{ comma .Favorites }}
Solved:     {{ comma .Solved }}
Dark mode:  {{ onoff .DarkMode }}
Show:       rating {{ onoff .Visibility.ShowRating }}, tags {{ onoff .Visibility.ShowTags }}, solved {{ onoff .Visibility.ShowSolved }}
`

// histogramWidth ширина самой длинной полосы гистограммы
const histogramWidth = 30

// render выполняет шаблон и пишет результат в IO
func (c *Cli) render(styles Styles, name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(c.templateFuncs(styles)).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	c.io.Printf("%s", strings.TrimLeft(sb.String(), "\n"))
	return nil
}

func (c *Cli) templateFuncs(styles Styles) template.FuncMap {
	return template.FuncMap{
		"title":  func(s string) string { return styles.Render(styles.Title, s) },
		"header": func(s string) string { return styles.Render(styles.Header, s) },
		"rating": func(r int, text any) string { return styles.Rating(r, fmt.Sprint(text)) },
		"comma":  func(n int) string { return humanize.Comma(int64(n)) },
		"pct":    func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"join":   strings.Join,
		"ago":    c.ago,
		"signed": func(n int) string { return fmt.Sprintf("%+d", n) },
		"bar":    func(n, top int) string { return bar(n, top, histogramWidth) },
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
		"onoff": func(b bool) string {
			if b {
				return "on"
			}
			return "off"
		},
	}
}

// ago относительное время ("5 minutes ago")
func (c *Cli) ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, c.now(), "ago", "from now")
}

// bar полоса гистограммы, ненулевое значение видно всегда
func bar(n, top, width int) string {
	if n <= 0 || top <= 0 {
		return ""
	}
	length := n * width / top
	if length == 0 {
		length = 1
	}
	return strings.Repeat("█", length)
}
