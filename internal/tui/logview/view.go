package logview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/ui"
)

// Model shows the matched lines of the last send with their highlights.
type Model struct {
	viewport viewport.Model
	results  *model.SearchResults
	source   model.SourceMeta
	notice   error // source failure that fell back to pasted text
	width    int
	height   int
	ready    bool
	loading  bool

	matchIndex int // current matched line, index into results.Lines
}

func New() Model {
	return Model{}
}

// SetResults replaces the displayed results. A nil results clears the
// match list but keeps the source annotation.
func (m *Model) SetResults(results *model.SearchResults, source model.SourceMeta, notice error) {
	m.results = results
	m.source = source
	m.notice = notice
	m.loading = false
	m.matchIndex = 0
	if m.ready {
		m.viewport.SetContent(m.renderLines())
		m.viewport.GotoTop()
	}
}

func (m *Model) SetLoading() {
	m.loading = true
}

func (m Model) Results() *model.SearchResults {
	return m.results
}

// MatchIndex is the position of the current match among the matched lines.
func (m Model) MatchIndex() int {
	return m.matchIndex
}

func (m Model) matchCount() int {
	if m.results == nil {
		return 0
	}
	return len(m.results.Lines)
}

// jumpTo makes matched line i current. Each result is one viewport row.
func (m *Model) jumpTo(i int) {
	m.matchIndex = i
	m.viewport.SetContent(m.renderLines())
	m.viewport.SetYOffset(i)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := m.matchCount()
		switch {
		case key.Matches(msg, ui.Keys.NextMatch):
			if n > 0 {
				m.jumpTo((m.matchIndex + 1) % n)
			}
			return m, nil
		case key.Matches(msg, ui.Keys.PrevMatch):
			if n > 0 {
				m.jumpTo((m.matchIndex - 1 + n) % n)
			}
			return m, nil
		case key.Matches(msg, ui.Keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, ui.Keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-headerH, 1))
			m.ready = true
			m.viewport.SetContent(m.renderLines())
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-headerH, 1)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderLines() string {
	if m.results == nil {
		return ""
	}
	if len(m.results.Lines) == 0 {
		return "  No matches"
	}

	current := lipgloss.NewStyle().Background(lipgloss.Color("#374151"))
	lines := make([]string, len(m.results.Lines))
	for i, l := range m.results.Lines {
		num := ui.StyleLineNumber.Render(fmt.Sprintf("%d", l.Number))
		text := ui.RenderSegments(l.Segments, ui.StyleMatch)
		row := fmt.Sprintf("%s %s %s", num, ui.StyleMuted.Render("│"), text)
		if l.Occurrences > 1 {
			row += ui.StyleMuted.Render(fmt.Sprintf("  ×%d", l.Occurrences))
		}
		if i == m.matchIndex {
			row = current.Render(row)
		}
		lines[i] = row
	}
	return strings.Join(lines, "\n")
}

func (m Model) header() string {
	var title string
	switch {
	case m.source.Pasted:
		title = m.source.Title
	case m.source.URL != "":
		cover := ui.StyleCover.Render(metadata.ShortTitle(m.source.Title))
		title = cover + " " + lipgloss.NewStyle().Bold(true).Render(m.source.Label())
	default:
		title = ui.StyleMuted.Render("No text loaded")
	}

	stats := ""
	if m.results != nil {
		s := m.results.Stats
		stats = fmt.Sprintf("%d lines  %d matched  %d occurrences", s.TotalLines, s.MatchedLines, s.TotalOccurrences)
		if n := m.matchCount(); n > 0 {
			stats += fmt.Sprintf("  [%d/%d]", m.matchIndex+1, n)
		}
	}

	second := ui.StyleMuted.Render("  " + stats)
	if m.notice != nil {
		second = "  " + ui.ErrorText(m.notice)
	}
	return " " + title + "\n" + second
}

func (m Model) View() string {
	if m.loading {
		return "\n  Searching..."
	}
	if m.results == nil && m.source == (model.SourceMeta{}) && m.notice == nil {
		return "\n  Enter a pattern and a text, then press enter"
	}

	if !m.ready {
		return m.header()
	}
	return m.header() + "\n\n" + m.viewport.View()
}
