package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// cellStyleFunc стиль ячейки данных, row и col считаются с нуля
type cellStyleFunc func(row, col int) lipgloss.Style

// renderTable рисует таблицу рамкой lipgloss в терминале
// и выровненным табуляцией текстом в остальных случаях
func renderTable(styles Styles, headers []string, rows [][]string, cell cellStyleFunc) string {
	if !styles.Enabled() {
		return plainTable(headers, rows)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(styles.Header)
			}
			if cell != nil {
				return base.Inherit(cell(row, col))
			}
			return base
		})
	return t.Render() + "\n"
}

func plainTable(headers []string, rows [][]string) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	return sb.String()
}

// truncate обрезает строку до width рун
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
