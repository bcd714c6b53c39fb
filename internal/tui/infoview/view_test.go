package infoview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/session"
)

func TestTextInfo(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.SetOutcome(&session.Outcome{
		Source:    model.SourceMeta{URL: "https://www.gutenberg.org/cache/epub/11000/pg11000.txt", Title: "The Epic of Gilgamesh", BookID: "11000"},
		Text:      "Title: The Epic of Gilgamesh\nhe who saw",
		FromCache: true,
		Results: &model.SearchResults{
			Config: model.SearchConfig{Pattern: "saw"},
			Stats:  model.SearchStats{TotalLines: 2, MatchedLines: 1, TotalOccurrences: 1},
		},
	})

	view := m.View()
	for _, want := range []string{"Text Info", "The Epic of Gilgamesh (#11000)", "fetched (cached copy)", "39 bytes", "saw", "50.0%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTextInfoPatternError(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.SetOutcome(&session.Outcome{
		Source:     model.SourceMeta{Title: session.PastedText, Pasted: true},
		PatternErr: errors.New("missing closing )"),
	})

	view := m.View()
	if !strings.Contains(view, "pasted") || !strings.Contains(view, "missing closing )") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestBookInfo(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.SetBook(&model.Book{ID: 1661, Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle"})

	if !m.IsShowingBook() {
		t.Fatal("expected book mode")
	}
	view := m.View()
	for _, want := range []string{"Book #1661 Info", "Arthur Conan Doyle", "pg1661.cover.medium.jpg", "https://www.gutenberg.org/ebooks/1661"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEmptyInfo(t *testing.T) {
	m := New()
	if !strings.Contains(m.View(), "Run a search") {
		t.Errorf("unexpected view: %q", m.View())
	}
}
