package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m Model, k tea.KeyMsg) (Model, *ResultMsg) {
	m, cmd := m.Update(k)
	if cmd == nil {
		return m, nil
	}
	res := cmd().(ResultMsg)
	return m, &res
}

func TestConfirmKeys(t *testing.T) {
	runes := func(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"y confirms", []tea.KeyMsg{runes('y')}, true},
		{"n declines", []tea.KeyMsg{runes('n')}, false},
		{"esc declines", []tea.KeyMsg{{Type: tea.KeyEscape}}, false},
		{"enter defaults to no", []tea.KeyMsg{{Type: tea.KeyEnter}}, false},
		{"tab then enter confirms", []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("Clear cache", "Delete all cached texts?", ActionClearTexts, nil)
			var res *ResultMsg
			for _, k := range tt.keys {
				m, res = press(m, k)
			}
			if res == nil {
				t.Fatal("expected a result")
			}
			if res.Confirmed != tt.want {
				t.Errorf("Confirmed = %v, want %v", res.Confirmed, tt.want)
			}
			if res.Action != ActionClearTexts {
				t.Errorf("Action = %q", res.Action)
			}
			if m.IsActive() {
				t.Error("dialog should close after answering")
			}
		})
	}
}

func TestConfirmCarriesURLs(t *testing.T) {
	m := New("Delete", "Delete 2 texts?", ActionDeleteSelected, []string{"https://a", "https://b"})
	_, res := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if res == nil || len(res.URLs) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}
