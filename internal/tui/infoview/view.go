package infoview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/session"
	"github.com/altinukshini/bookgrep/internal/ui"
)

type Model struct {
	outcome     *session.Outcome
	book        *model.Book
	showingBook bool
	viewport    viewport.Model
	width       int
	height      int
	ready       bool
}

func New() Model {
	return Model{}
}

// SetOutcome shows details about the text searched by the last send.
func (m *Model) SetOutcome(out *session.Outcome) {
	m.outcome = out
	m.showingBook = false
	m.refresh()
}

func (m *Model) SetBook(book *model.Book) {
	m.book = book
	m.showingBook = true
	m.refresh()
}

func (m Model) IsShowingBook() bool {
	return m.showingBook
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		headerH := 1
		if !m.ready {
			m.viewport = viewport.New(wsm.Width, wsm.Height-headerH)
			m.ready = true
		} else {
			m.viewport.Width = wsm.Width
			m.viewport.Height = wsm.Height - headerH
		}
		m.viewport.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.showingBook && m.book == nil {
		return "\n  No book selected"
	}
	if !m.showingBook && m.outcome == nil {
		return "\n  Run a search and press 'i' to view info"
	}

	pct := m.viewport.ScrollPercent() * 100
	header := fmt.Sprintf(" Text Info  %3.0f%%", pct)
	if m.showingBook {
		header = fmt.Sprintf(" Book #%d Info  %3.0f%%", m.book.ID, pct)
	}
	hints := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(
		"  j/k:scroll  g/G:top/bot  PgUp/Dn:page  esc:back")
	headerLine := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(header) + hints

	return headerLine + "\n" + m.viewport.View()
}

func (m Model) render() string {
	if m.showingBook {
		return m.renderBook()
	}
	return m.renderText()
}

var (
	bold  = lipgloss.NewStyle().Bold(true)
	label = lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(16)
	value = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
)

func row(l, v string) string {
	if v == "" {
		v = "-"
	}
	return "  " + label.Render(l) + value.Render(v) + "\n"
}

func (m Model) renderText() string {
	out := m.outcome
	if out == nil {
		return "  No text searched"
	}
	src := out.Source

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + bold.Render(src.Label()) + "\n\n")

	origin := "pasted"
	switch {
	case !src.Pasted && out.FromCache:
		origin = "fetched (cached copy)"
	case !src.Pasted:
		origin = "fetched"
	}
	b.WriteString(row("Origin", origin))
	b.WriteString(row("URL", src.URL))
	b.WriteString(row("Title", src.Title))
	b.WriteString(row("Book id", src.BookID))
	b.WriteString(row("Cover", src.CoverURL))
	b.WriteString(row("Size", strconv.Itoa(len(out.Text))+" bytes"))
	if out.SourceErr != nil {
		b.WriteString("  " + label.Render("Fetch error") + ui.ErrorText(out.SourceErr) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("  " + bold.Render("Search") + "\n\n")
	if out.PatternErr != nil {
		b.WriteString("  " + ui.ErrorText(out.PatternErr) + "\n")
		return b.String()
	}
	if out.Results == nil {
		b.WriteString("  " + ui.StyleMuted.Render("No search results") + "\n")
		return b.String()
	}
	cfg := out.Results.Config
	stats := out.Results.Stats
	b.WriteString(row("Pattern", cfg.Pattern))
	b.WriteString(row("Case sensitive", yesNo(cfg.CaseSensitive)))
	b.WriteString(row("Whole line", yesNo(cfg.WholeLine)))
	b.WriteString(row("Lines", strconv.Itoa(stats.TotalLines)))
	b.WriteString(row("Matched lines", strconv.Itoa(stats.MatchedLines)))
	b.WriteString(row("Occurrences", strconv.Itoa(stats.TotalOccurrences)))
	if stats.TotalLines > 0 {
		pct := float64(stats.MatchedLines) / float64(stats.TotalLines) * 100
		b.WriteString(row("Match rate", fmt.Sprintf("%.1f%%", pct)))
	}
	return b.String()
}

func (m Model) renderBook() string {
	bk := m.book
	if bk == nil {
		return "  No book selected"
	}
	id := strconv.FormatInt(bk.ID, 10)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + bold.Render(bk.Title) + "\n\n")
	b.WriteString(row("Id", "#"+id))
	b.WriteString(row("Author", bk.Author))
	b.WriteString(row("Text", bk.SourceURL))
	cover := bk.ImageURL
	if cover == "" {
		cover = metadata.CoverURL(id)
	}
	b.WriteString(row("Cover", cover))
	b.WriteString(row("Page", metadata.BookPageURL(bk.ID, bk.SourceURL)))
	b.WriteString("\n")

	if bk.SourceURL != "" {
		b.WriteString("  " + ui.StyleMuted.Render("enter: search this text  o: open in browser") + "\n")
	} else {
		b.WriteString("  " + ui.StyleMuted.Render("o: open in browser") + "\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
