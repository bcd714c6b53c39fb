package searchview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/ui"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestTypingAndSubmitBuildsRequest(t *testing.T) {
	m := New(Values{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m.Activate()

	m = typeText(m, "sargon")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.Focused() != FieldURL {
		t.Fatalf("focus after tab = %v, want FieldURL", m.Focused())
	}
	m = typeText(m, "https://a/pg1.txt")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	sub, ok := cmd().(ui.SubmitMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want ui.SubmitMsg", cmd())
	}

	want := model.SearchConfig{Pattern: "sargon", CaseSensitive: true, WholeLine: true}
	if sub.Request.Config != want {
		t.Errorf("Config = %+v, want %+v", sub.Request.Config, want)
	}
	if sub.Request.URL != "https://a/pg1.txt" {
		t.Errorf("URL = %q", sub.Request.URL)
	}
	if sub.Request.Mode != model.ModeTitleContent {
		t.Errorf("Mode = %q, want tc", sub.Request.Mode)
	}
	if !strings.Contains(m.View(), "Searching...") {
		t.Error("view should show the loading state after submit")
	}
}

func TestEnterInPastedFieldAddsNewline(t *testing.T) {
	m := New(Values{Pattern: "x"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m.Activate()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focused() != FieldPasted {
		t.Fatalf("focus after shift+tab = %v, want FieldPasted", m.Focused())
	}
	m = typeText(m, "a")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		if _, ok := cmd().(ui.SubmitMsg); ok {
			t.Fatal("enter in the pasted text should not submit")
		}
	}
	m = typeText(m, "b")

	if got := m.Request().Pasted; got != "a\nb" {
		t.Errorf("Pasted = %q, want %q", got, "a\nb")
	}
}

func TestPrefilledValues(t *testing.T) {
	m := New(Values{Pattern: "foo", URL: "https://x/1.txt", WholeLine: true, Mode: model.ModeClass})
	req := m.Request()
	if req.Config.Pattern != "foo" || req.URL != "https://x/1.txt" || !req.Config.WholeLine || req.Mode != model.ModeClass {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestUseBookSubmitsWithURL(t *testing.T) {
	m := New(Values{Pattern: "deep"})
	m, cmd := m.Update(ui.UseBookMsg{URL: "https://x/2.txt"})
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	sub := cmd().(ui.SubmitMsg)
	if sub.Request.URL != "https://x/2.txt" || sub.Request.Config.Pattern != "deep" {
		t.Errorf("unexpected request %+v", sub.Request)
	}
}

func TestInvalidPatternIsShownInline(t *testing.T) {
	m := New(Values{})
	m.SetPatternError(errInvalid{})
	if !strings.Contains(m.View(), "Invalid pattern") {
		t.Error("view should show the inline pattern error")
	}
	m.SetPatternError(nil)
	if strings.Contains(m.View(), "Invalid pattern") {
		t.Error("inline error should clear")
	}
}

type errInvalid struct{}

func (errInvalid) Error() string { return "invalid" }
