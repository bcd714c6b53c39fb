package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))

	StyleLineNumber = lipgloss.NewStyle().Foreground(ColorMuted).Width(6).Align(lipgloss.Right)

	StyleCover = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(lipgloss.Color("#4C1D95")).
			Width(10).
			Align(lipgloss.Center)
)

// RenderSegments joins a line's segments, styling the highlighted ones.
func RenderSegments(segments []model.Segment, match lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Text == "" {
			continue
		}
		if s.Highlighted {
			b.WriteString(match.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func CheckBox(on bool) string {
	if on {
		return StyleSuccess.Render("[x]")
	}
	return StyleMuted.Render("[ ]")
}

// ErrorText renders err with a user-facing message when it has one.
func ErrorText(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return StyleFailure.Render(um.UserMessage())
	}
	return StyleFailure.Render(err.Error())
}
