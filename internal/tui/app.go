package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/config"
	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/session"
	"github.com/altinukshini/bookgrep/internal/tui/books"
	"github.com/altinukshini/bookgrep/internal/tui/cacheview"
	"github.com/altinukshini/bookgrep/internal/tui/confirm"
	"github.com/altinukshini/bookgrep/internal/tui/infoview"
	"github.com/altinukshini/bookgrep/internal/tui/logview"
	"github.com/altinukshini/bookgrep/internal/tui/searchview"
	"github.com/altinukshini/bookgrep/internal/ui"
)

type View int

const (
	ViewSearch View = iota
	ViewBooks
	ViewCache
)

type Pane int

const (
	PaneLeft Pane = iota
	PaneRight
)

// Browser opens links outside the terminal.
type Browser interface {
	Browse(url string) error
}

var errCacheDisabled = errors.New("the text cache is disabled")

type App struct {
	cfg     config.Config
	session *session.Session
	texts   *cache.TextCache // nil when caching is off
	browser Browser

	// Views
	formView      searchview.Model
	resultsView   logview.Model
	textInfo      infoview.Model
	booksView     books.Model
	bookInfo      infoview.Model
	cacheView     cacheview.Model
	confirmDialog confirm.Model

	// State
	currentView  View
	focusedPane  Pane
	width        int
	height       int
	status       string
	busy         bool
	catalogState CatalogState
	lastOutcome  *session.Outcome

	autoSend       bool
	showHelp       bool
	infoFullScreen bool
}

// NewApp builds the UI around sess. When values carries both a pattern and
// a text source the first send runs on start.
func NewApp(cfg config.Config, sess *session.Session, texts *cache.TextCache, browser Browser, values searchview.Values) App {
	form := searchview.New(values)
	form.Activate()
	return App{
		cfg:         cfg,
		session:     sess,
		texts:       texts,
		browser:     browser,
		formView:    form,
		resultsView: logview.New(),
		textInfo:    infoview.New(),
		booksView:   books.New(cfg.Search.BooksPerPage),
		bookInfo:    infoview.New(),
		cacheView:   cacheview.New(),
		currentView: ViewSearch,
		focusedPane: PaneLeft,
		status:      "Enter a pattern",
		autoSend:    values.Pattern != "" && (values.URL != "" || values.Pasted != ""),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if a.autoSend {
		req := a.formView.Request()
		cmds = append(cmds, func() tea.Msg { return ui.SubmitMsg{Request: req} })
	}
	return tea.Batch(cmds...)
}

func (a App) send(req session.Request) tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		return ui.SearchDoneMsg{Outcome: sess.Send(context.Background(), req)}
	}
}

func (a App) fetchSuggestions() tea.Cmd {
	sess := a.session
	seq := sess.Seq()
	topN := a.cfg.Catalog.Suggestions
	return func() tea.Msg {
		books, err := sess.Suggestions(context.Background(), topN)
		return ui.SuggestionsLoadedMsg{Seq: seq, Books: books, Err: err}
	}
}

func (a App) openInBrowser(link string) tea.Cmd {
	browser := a.browser
	return func() tea.Msg {
		if browser == nil {
			return ui.StatusMsg{Text: "No browser available: " + link}
		}
		if err := browser.Browse(link); err != nil {
			return ui.StatusMsg{Text: fmt.Sprintf("Error opening %s: %v", link, err)}
		}
		return ui.StatusMsg{Text: "Opened " + link}
	}
}

func (a App) fetchTextCache() tea.Cmd {
	texts := a.texts
	return func() tea.Msg {
		if texts == nil {
			return ui.TextCacheLoadedMsg{Err: errCacheDisabled}
		}
		entries, err := texts.ListEntries()
		if err != nil {
			return ui.TextCacheLoadedMsg{Err: err}
		}
		total, err := texts.TotalSize()
		return ui.TextCacheLoadedMsg{Entries: entries, TotalSize: total, Err: err}
	}
}

func (a App) deleteTexts(urls []string) tea.Cmd {
	texts := a.texts
	return func() tea.Msg {
		if texts == nil {
			return ui.TextCacheDeletedMsg{Err: errCacheDisabled}
		}
		var deleted atomic.Int64
		g := new(errgroup.Group)
		g.SetLimit(3)
		for _, u := range urls {
			g.Go(func() error {
				if err := texts.DeleteEntry(u); err != nil {
					return err
				}
				deleted.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return ui.TextCacheDeletedMsg{
				Count: int(deleted.Load()),
				Err:   fmt.Errorf("deleted %d/%d texts: %w", deleted.Load(), len(urls), err),
			}
		}
		return ui.TextCacheDeletedMsg{Count: len(urls)}
	}
}

func (a App) clearTexts() tea.Cmd {
	texts := a.texts
	return func() tea.Msg {
		if texts == nil {
			return ui.TextCacheDeletedMsg{Err: errCacheDisabled}
		}
		entries, err := texts.ListEntries()
		if err != nil {
			return ui.TextCacheDeletedMsg{Err: err}
		}
		if err := texts.DeleteAll(); err != nil {
			return ui.TextCacheDeletedMsg{Err: err}
		}
		return ui.TextCacheDeletedMsg{Count: len(entries)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle confirm dialog result (arrives AFTER dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch result.Action {
			case confirm.ActionDeleteText:
				a.status = "Deleting text..."
				a.busy = true
				cmds = append(cmds, a.deleteTexts(result.URLs))
			case confirm.ActionDeleteSelected:
				a.status = fmt.Sprintf("Deleting %d texts...", len(result.URLs))
				a.busy = true
				a.cacheView.ClearSelection()
				cmds = append(cmds, a.deleteTexts(result.URLs))
			case confirm.ActionClearTexts:
				a.status = "Clearing the text cache..."
				a.busy = true
				cmds = append(cmds, a.clearTexts())
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// The dialog takes every key while it is showing. Other messages still
	// reach the app so search and cache results are not lost.
	if _, isKey := msg.(tea.KeyMsg); isKey && a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return &a, cmd
	}

	if keyMsg, isKey := msg.(tea.KeyMsg); isKey {
		if keyMsg.String() == "ctrl+c" {
			return &a, tea.Quit
		}

		// Full-screen text info: esc exits, other keys scroll.
		if a.infoFullScreen {
			switch keyMsg.String() {
			case "esc", "backspace", "q":
				a.infoFullScreen = false
			default:
				var cmd tea.Cmd
				a.textInfo, cmd = a.textInfo.Update(msg)
				cmds = append(cmds, cmd)
			}
			return &a, tea.Batch(cmds...)
		}

		// The active form takes every key while the search tab is showing.
		if a.currentView == ViewSearch && a.formView.IsActive() && !a.showHelp {
			var cmd tea.Cmd
			a.formView, cmd = a.formView.Update(msg)
			if !a.formView.IsActive() {
				a.focusedPane = PaneRight
			}
			return &a, cmd
		}

		// Handle list filter mode: keys go directly to the filtering list,
		// skip app-level handlers (tab switching, quit, etc.)
		if a.isListFiltering() {
			var cmd tea.Cmd
			switch a.currentView {
			case ViewBooks:
				a.booksView, cmd = a.booksView.Update(msg)
				a.bookInfo.SetBook(a.booksView.SelectedBook())
			case ViewCache:
				a.cacheView, cmd = a.cacheView.Update(msg)
			}
			return &a, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()

	case tea.KeyMsg:
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch msg.String() {
		case "q":
			return &a, tea.Quit

		case "?":
			a.showHelp = true
			return &a, nil

		case "1", "2", "3":
			switch msg.String() {
			case "1":
				a.currentView = ViewSearch
			case "2":
				a.currentView = ViewBooks
				a.bookInfo.SetBook(a.booksView.SelectedBook())
			case "3":
				if a.currentView != ViewCache {
					a.currentView = ViewCache
					a.status = "Loading cached texts..."
					cmds = append(cmds, a.fetchTextCache())
				}
			}
			return &a, tea.Batch(cmds...)

		case "tab", "shift+tab", "/":
			if a.currentView == ViewSearch {
				if a.focusedPane == PaneRight || msg.String() == "/" {
					a.focusedPane = PaneLeft
					return &a, a.formView.Activate()
				}
			}

		case "i":
			if a.currentView == ViewSearch && a.lastOutcome != nil {
				a.textInfo.SetOutcome(a.lastOutcome)
				a.infoFullScreen = true
				return &a, nil
			}

		case "s":
			if a.currentView == ViewBooks {
				return &a, a.toggleSuggestions()
			}

		case "o":
			if a.currentView == ViewBooks {
				if b := a.booksView.SelectedBook(); b != nil {
					return &a, a.openInBrowser(metadata.BookPageURL(b.ID, b.SourceURL))
				}
				return &a, nil
			}

		case "enter":
			if a.currentView == ViewBooks {
				b := a.booksView.SelectedBook()
				switch {
				case b == nil:
				case b.SourceURL == "":
					a.status = fmt.Sprintf("%q has no text link", b.Title)
				default:
					link := b.SourceURL
					return &a, func() tea.Msg { return ui.UseBookMsg{URL: link} }
				}
				return &a, nil
			}

		case "r":
			if a.currentView == ViewCache {
				a.status = "Loading cached texts..."
				return &a, a.fetchTextCache()
			}

		case "d":
			if a.currentView == ViewCache {
				if n := a.cacheView.SelectionCount(); n > 0 {
					a.confirmDialog = confirm.New("Delete texts",
						fmt.Sprintf("Delete %d selected texts from the cache?", n),
						confirm.ActionDeleteSelected, a.cacheView.SelectedURLs())
				} else if entry := a.cacheView.SelectedEntry(); entry != nil {
					name := entry.Title
					if name == "" {
						name = entry.URL
					}
					a.confirmDialog = confirm.New("Delete text",
						fmt.Sprintf("Delete %q from the cache?", name),
						confirm.ActionDeleteText, []string{entry.URL})
				}
				return &a, nil
			}

		case "x":
			if a.currentView == ViewCache {
				a.confirmDialog = confirm.New("Clear cache",
					"Delete every cached text?", confirm.ActionClearTexts, nil)
				return &a, nil
			}
		}

	case ui.SubmitMsg:
		a.status = "Searching..."
		a.busy = true
		a.resultsView.SetLoading()
		a.booksView.SetLoading()
		cmds = append(cmds, a.send(msg.Request))

	case ui.SearchDoneMsg:
		if !a.session.IsCurrent(msg.Outcome.Seq) {
			return &a, nil
		}
		a.busy = false
		out := msg.Outcome
		a.lastOutcome = out
		a.formView.SetLoading(false)
		a.formView.SetPatternError(out.PatternErr)
		notice := out.SourceErr
		if out.PatternErr != nil {
			notice = out.PatternErr
		}
		a.resultsView.SetResults(out.Results, out.Source, notice)
		a.textInfo.SetOutcome(out)
		if out.CatalogErr != nil {
			a.catalogState = CatalogDown
		} else {
			a.catalogState = CatalogOK
		}
		a.status = outcomeStatus(out)

	case ui.SuggestionsLoadedMsg:
		if !a.session.IsCurrent(msg.Seq) {
			return &a, nil
		}
		if msg.Err != nil {
			a.status = "Error loading suggestions: " + ui.ErrorText(msg.Err)
		} else {
			a.status = fmt.Sprintf("%d suggestions", len(msg.Books))
		}

	case ui.UseBookMsg:
		a.currentView = ViewSearch
		a.focusedPane = PaneRight
		a.formView.Deactivate()

	case ui.TextCacheLoadedMsg:
		a.busy = false
		if msg.Err == nil {
			a.status = fmt.Sprintf("%d cached texts (%s)", len(msg.Entries), cacheview.FormatSize(msg.TotalSize))
		} else {
			a.status = "Error loading cached texts: " + ui.ErrorText(msg.Err)
		}

	case ui.TextCacheDeletedMsg:
		a.busy = false
		if msg.Err == nil {
			a.status = fmt.Sprintf("Deleted %d texts", msg.Count)
		} else {
			a.status = "Error deleting texts: " + ui.ErrorText(msg.Err)
		}
		cmds = append(cmds, a.fetchTextCache())

	case ui.StatusMsg:
		a.status = msg.Text
	}

	// Propagate to sub-views. WindowSizeMsg goes through propagateSize instead.
	if _, isResize := msg.(tea.WindowSizeMsg); !isResize {
		var cmd tea.Cmd
		if _, isKey := msg.(tea.KeyMsg); isKey {
			// Key events go ONLY to the focused view.
			switch a.currentView {
			case ViewSearch:
				if a.focusedPane == PaneRight {
					a.resultsView, cmd = a.resultsView.Update(msg)
				}
			case ViewBooks:
				a.booksView, cmd = a.booksView.Update(msg)
				a.bookInfo.SetBook(a.booksView.SelectedBook())
			case ViewCache:
				a.cacheView, cmd = a.cacheView.Update(msg)
			}
			cmds = append(cmds, cmd)
		} else {
			// Data messages go to every view so nothing is lost on
			// another tab.
			a.formView, cmd = a.formView.Update(msg)
			cmds = append(cmds, cmd)
			a.resultsView, cmd = a.resultsView.Update(msg)
			cmds = append(cmds, cmd)
			a.booksView, cmd = a.booksView.Update(msg)
			cmds = append(cmds, cmd)
			a.cacheView, cmd = a.cacheView.Update(msg)
			cmds = append(cmds, cmd)
			if a.currentView == ViewBooks {
				a.bookInfo.SetBook(a.booksView.SelectedBook())
			}
		}
	}

	return &a, tea.Batch(cmds...)
}

// toggleSuggestions hides the suggestion list when it is showing, and
// otherwise asks the catalog for suggestions about the last search.
func (a *App) toggleSuggestions() tea.Cmd {
	if a.booksView.ShowingSuggestions() {
		return a.booksView.HideSuggestions()
	}
	if !a.session.HasSearched() {
		a.status = ui.ErrorText(session.ErrNoPriorSearch)
		return a.booksView.ShowSuggestionsError(session.ErrNoPriorSearch)
	}
	a.status = "Loading suggestions..."
	return a.fetchSuggestions()
}

func outcomeStatus(out *session.Outcome) string {
	var parts []string
	switch {
	case out.PatternErr != nil:
		parts = append(parts, "Invalid pattern")
	case out.Results != nil:
		s := out.Results.Stats
		parts = append(parts, fmt.Sprintf("%d/%d lines matched, %d occurrences",
			s.MatchedLines, s.TotalLines, s.TotalOccurrences))
	}
	if out.SourceErr != nil {
		parts = append(parts, "fetch failed")
	}
	if out.FromCache {
		parts = append(parts, "cached text")
	}
	if out.CatalogErr != nil {
		parts = append(parts, "catalog unavailable")
	} else {
		parts = append(parts, fmt.Sprintf("%d books", len(out.Books)))
	}
	return strings.Join(parts, "  |  ")
}

func (a App) isListFiltering() bool {
	switch a.currentView {
	case ViewBooks:
		return a.booksView.IsFiltering()
	case ViewCache:
		return a.cacheView.IsFiltering()
	}
	return false
}

func (a *App) propagateSize() {
	// Total vertical budget:
	//   header(1) + tabs(1) + status(1) = 3 lines of chrome
	//   pane border top(1) + bottom(1) = 2 lines
	//   Inner content height = terminal height - 5
	contentH := max(a.height-5, 1)
	leftW, rightW := a.splitWidths()

	a.formView, _ = a.formView.Update(
		tea.WindowSizeMsg{Width: leftW, Height: contentH})
	a.resultsView, _ = a.resultsView.Update(
		tea.WindowSizeMsg{Width: rightW, Height: contentH})
	a.booksView, _ = a.booksView.Update(
		tea.WindowSizeMsg{Width: leftW, Height: contentH})
	a.bookInfo, _ = a.bookInfo.Update(
		tea.WindowSizeMsg{Width: rightW, Height: contentH})
	// Text info and the cache tab are full width (single pane, border = 2 chars horizontal)
	a.textInfo, _ = a.textInfo.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.cacheView, _ = a.cacheView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
}

// splitWidths sizes the two panes: each border = 2 chars horizontal, 2 panes = 4.
func (a App) splitWidths() (int, int) {
	leftW := a.width * 45 / 100
	rightW := max(a.width-leftW-4, 1)
	return leftW, rightW
}

// --- View ---

func (a App) View() string {
	source := "no text"
	if a.lastOutcome != nil {
		source = a.lastOutcome.Source.Label()
	}
	header := RenderHeader(source, a.cfg.Catalog.BaseURL, a.catalogState, a.width)
	tabs := a.renderTabs()

	contentH := max(a.height-5, 1)
	var content string
	switch {
	case a.infoFullScreen:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.textInfo.View())
	case a.currentView == ViewSearch:
		content = a.renderSplit(a.formView.View(), a.resultsView.View(), a.focusedPane)
	case a.currentView == ViewBooks:
		content = a.renderSplit(a.booksView.View(), a.bookInfo.View(), PaneLeft)
	case a.currentView == ViewCache:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.cacheView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.confirmDialog.IsActive() {
		content = a.confirmDialog.View()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.busy, a.width)

	// Hard clamp: ensure content never overflows the terminal.
	// header(1) + tabs(1) + statusbar(1) = 3 lines of chrome.
	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	labels := []string{"[1] Search", "[2] Books", "[3] Cache"}
	if a.booksView.ShowingSuggestions() {
		labels[1] = "[2] Books (suggestions)"
	}

	tabs := make([]string, len(labels))
	for i, l := range labels {
		if View(i) == a.currentView {
			tabs[i] = activeTab.Render(l)
		} else {
			tabs[i] = inactiveTab.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a App) renderSplit(left, right string, focused Pane) string {
	contentH := max(a.height-5, 1)
	leftW, rightW := a.splitWidths()

	leftStyle := ui.StylePane.Width(leftW).Height(contentH)
	rightStyle := ui.StylePane.Width(rightW).Height(contentH)
	if focused == PaneLeft {
		leftStyle = ui.StylePaneFocused.Width(leftW).Height(contentH)
	} else {
		rightStyle = ui.StylePaneFocused.Width(rightW).Height(contentH)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, leftStyle.Render(left), rightStyle.Render(right))
}

func (a App) contextHints() string {
	if a.infoFullScreen {
		return "j/k:scroll  PgUp/PgDn:page  esc:back"
	}

	switch a.currentView {
	case ViewSearch:
		if a.formView.IsActive() {
			return "enter:send  tab:next field  ctrl+r/l/o:options  esc:results"
		}
		return "n/N:match  g/G:top/bot  i:info  /:edit  1-3:tabs  ?:help"
	case ViewBooks:
		if a.booksView.ShowingSuggestions() {
			return "s:back to results  enter:search text  o:open  h/l:page  f:filter  ?:help"
		}
		return "enter:search text  o:open  s:suggestions  h/l:page  p:page size  f:filter  ?:help"
	case ViewCache:
		return "space:select  d:delete  x:clear all  s:sort  r:refresh  f:filter  ?:help"
	}

	return "?:help  q:quit"
}

func (a App) renderHelp() string {
	contentH := max(a.height-5, 1)

	bold := lipgloss.NewStyle().Bold(true)
	key := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + key.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1-3", "Switch tab: Search, Books, Cache"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("esc", "Back"))
	b.WriteString(row("q / ctrl+c", "Quit"))

	b.WriteString("\n" + bold.Render("  Search form") + "\n\n")
	b.WriteString(row("tab", "Next field (pattern, URL, pasted text)"))
	b.WriteString(row("enter", "Send (newline in pasted text)"))
	b.WriteString(row("ctrl+s", "Send from any field"))
	b.WriteString(row("ctrl+r", "Toggle case sensitive"))
	b.WriteString(row("ctrl+l", "Toggle whole line"))
	b.WriteString(row("ctrl+o", "Cycle catalog mode (title / title + content / advanced)"))
	b.WriteString(row("esc", "Leave the form"))

	b.WriteString("\n" + bold.Render("  Results") + "\n\n")
	b.WriteString(row("n / N", "Next / previous matched line"))
	b.WriteString(row("g / G", "Go to top / bottom"))
	b.WriteString(row("PgUp/PgDn", "Page up / page down"))
	b.WriteString(row("i", "Text and search info"))
	b.WriteString(row("/ or tab", "Edit the search"))

	b.WriteString("\n" + bold.Render("  Books") + "\n\n")
	b.WriteString(row("enter", "Search the book's text"))
	b.WriteString(row("o", "Open the book page in a browser"))
	b.WriteString(row("s", "Toggle suggestions"))
	b.WriteString(row("h / l", "Previous / next page"))
	b.WriteString(row("p", "Cycle page size"))
	b.WriteString(row("f", "Filter list"))

	b.WriteString("\n" + bold.Render("  Cache (fetched texts)") + "\n\n")
	b.WriteString(row("r", "Refresh"))
	b.WriteString(row("space", "Toggle select"))
	b.WriteString(row("s", "Cycle sort mode (last used / fetched / size)"))
	b.WriteString(row("d", "Delete text (or all selected)"))
	b.WriteString(row("x", "Clear all texts"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
