package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iudanet/cfhelper/internal/stats"
)

// tierColors цвета званий для темной и светлой темы
var tierColors = map[stats.Tier][2]lipgloss.Color{
	stats.TierUnrated:                  {"#000000", "#DDDDDD"},
	stats.TierNewbie:                   {"#808080", "#A0A0A0"},
	stats.TierPupil:                    {"#008000", "#4CBB17"},
	stats.TierSpecialist:               {"#03A89E", "#40E0D0"},
	stats.TierExpert:                   {"#0000FF", "#6495ED"},
	stats.TierCandidateMaster:          {"#AA00AA", "#DA70D6"},
	stats.TierMaster:                   {"#FF8C00", "#FFA500"},
	stats.TierInternationalMaster:      {"#FF8C00", "#FFA500"},
	stats.TierGrandmaster:              {"#FF0000", "#FF5050"},
	stats.TierInternationalGrandmaster: {"#FF0000", "#FF5050"},
	stats.TierLegendaryGrandmaster:     {"#FF0000", "#FF5050"},
}

// Styles renders text for the terminal. Disabled styles return text as is.
type Styles struct {
	enabled bool
	dark    bool

	Title  lipgloss.Style
	Header lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Accent lipgloss.Style
}

func NewStyles(enabled, dark bool) Styles {
	accent := lipgloss.Color("#1E66F5")
	if dark {
		accent = lipgloss.Color("#89B4FA")
	}
	return Styles{
		enabled: enabled,
		dark:    dark,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:  lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("#40A02B")),
		Bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D20F39")),
		Accent:  lipgloss.NewStyle().Foreground(accent),
	}
}

// Enabled reports whether styling is applied
func (s Styles) Enabled() bool {
	return s.enabled
}

// Render применяет стиль, если оформление включено
func (s Styles) Render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// TierStyle стиль рейтинга по званию
func (s Styles) TierStyle(rating int) lipgloss.Style {
	colors, ok := tierColors[stats.RankTier(rating)]
	if !ok {
		return lipgloss.NewStyle()
	}
	color := colors[0]
	if s.dark {
		color = colors[1]
	}
	style := lipgloss.NewStyle().Foreground(color)
	if rating >= 2100 {
		style = style.Bold(true)
	}
	return style
}

// Rating раскрашивает рейтинг цветом звания
func (s Styles) Rating(rating int, text string) string {
	return s.Render(s.TierStyle(rating), text)
}
