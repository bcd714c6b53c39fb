package tui

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/ui"
)

// CatalogState is the health of the catalog as seen by the last send.
type CatalogState int

const (
	CatalogUnknown CatalogState = iota
	CatalogOK
	CatalogDown
)

func RenderHeader(source, catalogURL string, state CatalogState, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" bookgrep | %s", source))

	host := catalogURL
	if u, err := url.Parse(catalogURL); err == nil && u.Host != "" {
		host = u.Host
	}
	color := ui.ColorMuted
	switch state {
	case CatalogOK:
		color = ui.ColorSuccess
	case CatalogDown:
		color = ui.ColorFailure
	}
	catalog := lipgloss.NewStyle().Foreground(color).
		Render(fmt.Sprintf("catalog: %s ", host))

	gap := width - lipgloss.Width(left) - lipgloss.Width(catalog)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + catalog)
}
