package cacheview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/ui"
)

type cacheItem struct {
	entry    cache.CacheEntry
	selected bool
}

func (c cacheItem) Title() string {
	mark := " "
	if c.selected {
		mark = ui.StyleWarning.Render("● ")
	}
	title := c.entry.Title
	if title == "" {
		title = c.entry.Key
	}
	size := ui.StyleWarning.Render(FormatSize(c.entry.Size))
	return fmt.Sprintf("%s%s  %s", mark, title, size)
}

func (c cacheItem) Description() string {
	parts := []string{}
	if c.entry.BookID != "" {
		parts = append(parts, ui.StyleInfo.Render("#"+c.entry.BookID))
	}
	if c.entry.URL != "" {
		parts = append(parts, ui.StyleMuted.Render(c.entry.URL))
	}
	if !c.entry.StoredAt.IsZero() {
		parts = append(parts, ui.StyleMuted.Render("fetched "+RelativeTime(c.entry.StoredAt)))
	}
	return strings.Join(parts, "  ")
}

func (c cacheItem) FilterValue() string {
	return c.entry.Title + " " + c.entry.URL
}

// SortMode determines how cache entries are ordered.
type SortMode int

const (
	SortByAccessed SortMode = iota
	SortByStored
	SortBySize
)

func (s SortMode) String() string {
	switch s {
	case SortByStored:
		return "fetched"
	case SortBySize:
		return "size"
	default:
		return "last used"
	}
}

// Model lists the texts kept in the local fetch cache.
type Model struct {
	list      list.Model
	entries   []cache.CacheEntry
	selected  map[string]bool // keyed by URL
	sortMode  SortMode
	totalSize int64
	width     int
	height    int
	loading   bool
	err       error
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{list: l, selected: make(map[string]bool), loading: true}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.TextCacheLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.entries = msg.Entries
		m.totalSize = msg.TotalSize
		m.selected = make(map[string]bool)
		m.sortEntries()
		return m, m.list.SetItems(m.buildItems())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve one line for the header.
		m.list.SetSize(msg.Width, msg.Height-1)

	case tea.KeyMsg:
		if m.IsFiltering() {
			break
		}
		switch {
		case key.Matches(msg, ui.Keys.Select):
			if item, ok := m.list.SelectedItem().(cacheItem); ok {
				url := item.entry.URL
				if m.selected[url] {
					delete(m.selected, url)
				} else {
					m.selected[url] = true
				}
				return m, m.list.SetItems(m.buildItems())
			}
			return m, nil
		case key.Matches(msg, ui.Keys.Sort):
			m.sortMode = (m.sortMode + 1) % 3
			m.sortEntries()
			return m, m.list.SetItems(m.buildItems())
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading cached texts..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press r to retry.", m.err)
	}
	if len(m.entries) == 0 {
		return "\n  No cached texts.\n\n  Texts fetched from a URL are kept here for reuse.\n  Press r to refresh."
	}

	header := fmt.Sprintf("  %d texts | Total: %s | Sort: %s | s: sort  d: delete  x: clear all",
		len(m.entries), FormatSize(m.totalSize), m.sortMode)
	return ui.StyleMuted.Render(header) + "\n" + m.list.View()
}

// SelectedEntry returns the entry under the cursor, or nil.
func (m Model) SelectedEntry() *cache.CacheEntry {
	if item, ok := m.list.SelectedItem().(cacheItem); ok {
		return &item.entry
	}
	return nil
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{ui.Keys.Sort, ui.Keys.Delete, ui.Keys.ClearAll}
}

func (m *Model) sortEntries() {
	switch m.sortMode {
	case SortByAccessed:
		sort.Slice(m.entries, func(i, j int) bool {
			return m.entries[i].LastAccessed.After(m.entries[j].LastAccessed)
		})
	case SortByStored:
		sort.Slice(m.entries, func(i, j int) bool {
			return m.entries[i].StoredAt.After(m.entries[j].StoredAt)
		})
	case SortBySize:
		sort.Slice(m.entries, func(i, j int) bool {
			return m.entries[i].Size > m.entries[j].Size
		})
	}
}

func (m Model) buildItems() []list.Item {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = cacheItem{entry: e, selected: m.selected[e.URL]}
	}
	return items
}

// SelectedURLs returns the URLs of all multi-selected entries.
func (m Model) SelectedURLs() []string {
	var urls []string
	for url := range m.selected {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

func (m Model) SelectionCount() int {
	return len(m.selected)
}

func (m *Model) ClearSelection() {
	for k := range m.selected {
		delete(m.selected, k)
	}
}

// FormatSize formats a byte count into a human-readable string (KB, MB, GB).
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// RelativeTime returns a human-readable relative time string.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
