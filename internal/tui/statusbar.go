package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/ui"
)

// RenderStatusBar draws the bottom line. A busy bar marks the status with
// a dot while a send or cache operation is running.
func RenderStatusBar(status, hints string, busy bool, width int) string {
	mark := "  "
	if busy {
		mark = ui.StyleWarning.Render("● ")
	}
	left := mark + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}
