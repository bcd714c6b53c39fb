package books

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/pager"
	"github.com/altinukshini/bookgrep/internal/ui"
)

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type bookDelegate struct{}

func (d bookDelegate) Height() int                             { return 2 }
func (d bookDelegate) Spacing() int                            { return 0 }
func (d bookDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(bookItem)
	if !ok {
		return
	}

	badge := ui.StyleCover.Render(metadata.ShortTitle(bi.book.Title))
	title := lipgloss.NewStyle().Bold(true).Render(bi.book.Title)
	id := ui.StyleMuted.Render(fmt.Sprintf("#%d", bi.book.ID))
	author := bi.book.Author
	if author == "" {
		author = "Unknown author"
	}

	line1 := fmt.Sprintf(" %s %s  %s", badge, title, id)
	line2 := fmt.Sprintf(" %s %s", strings.Repeat(" ", lipgloss.Width(badge)), ui.StyleInfo.Render(author))

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(lipgloss.Color("#1F2937")).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type bookItem struct {
	book model.Book
}

func (b bookItem) FilterValue() string {
	return b.book.Title + " " + b.book.Author
}

// --- Model ---

type Model struct {
	list        list.Model
	books       []model.Book
	suggestions []model.Book
	showSuggest bool
	page        int
	perPage     int
	width       int
	height      int
	loading     bool
	searched    bool
	err         error // catalog search failure
	suggestErr  error
}

func New(perPage int) Model {
	l := list.New(nil, bookDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	// Catalog pages are driven by h/l/left/right; the list's own paginator
	// only handles overflow within a page.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	if perPage <= 0 {
		perPage = pager.PageSizes[0]
	}
	return Model{list: l, page: 1, perPage: perPage}
}

func (m Model) SelectedBook() *model.Book {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return &item.book
	}
	return nil
}

func (m Model) Page() int    { return m.page }
func (m Model) PerPage() int { return m.perPage }

func (m Model) TotalPages() int {
	return pager.TotalPages(len(m.active()), m.perPage)
}

func (m Model) ShowingSuggestions() bool {
	return m.showSuggest
}

func (m *Model) SetLoading() {
	m.loading = true
}

// HideSuggestions switches back to the catalog search results.
func (m *Model) HideSuggestions() tea.Cmd {
	m.showSuggest = false
	m.suggestErr = nil
	m.page = 1
	return m.refreshItems()
}

// ShowSuggestionsError displays err in place of the suggestion list.
func (m *Model) ShowSuggestionsError(err error) tea.Cmd {
	m.showSuggest = true
	m.suggestErr = err
	m.suggestions = nil
	m.page = 1
	return m.refreshItems()
}

func (m Model) active() []model.Book {
	if m.showSuggest {
		return m.suggestions
	}
	return m.books
}

func (m *Model) refreshItems() tea.Cmd {
	m.page = pager.Clamp(m.page, len(m.active()), m.perPage)
	visible := pager.Page(m.active(), m.page, m.perPage)
	items := make([]list.Item, len(visible))
	for i, b := range visible {
		items[i] = bookItem{book: b}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(0)
	return cmd
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SearchDoneMsg:
		m.loading = false
		m.searched = true
		m.showSuggest = false
		m.suggestions = nil
		m.suggestErr = nil
		m.err = msg.Outcome.CatalogErr
		m.books = msg.Outcome.Books
		m.page = 1
		return m, m.refreshItems()

	case ui.SuggestionsLoadedMsg:
		m.showSuggest = true
		m.suggestErr = msg.Err
		m.suggestions = msg.Books
		m.page = 1
		return m, m.refreshItems()

	case tea.KeyMsg:
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

		if !m.IsFiltering() {
			switch {
			case key.Matches(msg, ui.Keys.NextPage):
				if m.page < m.TotalPages() {
					m.page++
					return m, m.refreshItems()
				}
				return m, nil
			case key.Matches(msg, ui.Keys.PrevPage):
				if m.page > 1 {
					m.page--
					return m, m.refreshItems()
				}
				return m, nil
			case key.Matches(msg, ui.Keys.PageSize):
				m.perPage = pager.NextPageSize(m.perPage)
				m.page = 1
				return m, m.refreshItems()
			}

			// Auto-advance: pressing down on the last book of a page moves
			// to the next page.
			isDown := msg.String() == "j" || msg.Type == tea.KeyDown
			if isDown && len(m.list.Items()) > 0 && m.list.Index() >= len(m.list.Items())-1 && m.page < m.TotalPages() {
				m.page++
				return m, m.refreshItems()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve the header and pagination lines.
		m.list.SetSize(msg.Width, max(msg.Height-3, 1))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) renderPagination() string {
	total := m.TotalPages()
	if total <= 1 {
		return ""
	}
	current := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	parts := []string{ui.StyleMuted.Render("<")}
	for _, p := range pager.Window(total, m.page) {
		switch {
		case p == pager.Gap:
			parts = append(parts, ui.StyleMuted.Render("..."))
		case p == m.page:
			parts = append(parts, current.Render(fmt.Sprintf("[%d]", p)))
		default:
			parts = append(parts, fmt.Sprintf("%d", p))
		}
	}
	parts = append(parts, ui.StyleMuted.Render(">"))
	return "  " + strings.Join(parts, " ")
}

func (m Model) View() string {
	if m.loading {
		return "\n  Searching the catalog..."
	}

	label := "Catalog results"
	if m.showSuggest {
		label = "Suggestions"
	}
	header := ui.StyleMuted.Render(fmt.Sprintf("  %s | %d books | Page %d/%d | %d per page",
		label, len(m.active()), m.page, m.TotalPages(), m.perPage))

	switch {
	case m.showSuggest && m.suggestErr != nil:
		return header + "\n\n  " + ui.ErrorText(m.suggestErr)
	case !m.showSuggest && m.err != nil:
		return header + "\n\n  " + ui.ErrorText(m.err)
	case !m.searched && !m.showSuggest:
		return "\n  Send a search to query the catalog"
	case len(m.active()) == 0 && m.showSuggest:
		return header + "\n\n  No suggestions available yet."
	case len(m.active()) == 0:
		return header + "\n\n  No books found."
	}

	return header + "\n" + m.list.View() + "\n" + m.renderPagination()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.Open,
		ui.Keys.Suggestions,
		ui.Keys.PageSize,
		ui.Keys.Filter,
	}
}
