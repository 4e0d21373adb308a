package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
)

// Column headers of the comparison table.
var Headers = []string{"Package(s)", "Size (min)", "Size (min+gzip)"}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sizeStyle   = cellStyle.Align(lipgloss.Right)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Rows returns the table cells for entries, in rank order.
func Rows(entries []rank.Entry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Label(), FormatBytes(e.Size.Min), FormatBytes(e.Size.Gzip)}
	}
	return rows
}

// Table renders entries as a bordered table. The smallest group is
// highlighted; size columns are right aligned.
func Table(entries []rank.Entry) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Headers...).
		Rows(Rows(entries)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col > 0:
				return sizeStyle
			case row == 0:
				return bestStyle
			default:
				return cellStyle
			}
		}).
		Render()
}
