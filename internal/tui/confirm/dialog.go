package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/ui"
)

// Action names what a confirmed dialog should do.
type Action string

const (
	ActionDeleteText     Action = "delete-text"
	ActionDeleteSelected Action = "delete-selected-texts"
	ActionClearTexts     Action = "clear-texts"
)

type ResultMsg struct {
	Confirmed bool
	Action    Action
	URLs      []string
}

// Model is a yes/no dialog. It starts with "No" selected.
type Model struct {
	Title   string
	Message string
	Action  Action
	URLs    []string
	active  bool
	yes     bool
}

func New(title, message string, action Action, urls []string) Model {
	return Model{
		Title:   title,
		Message: message,
		Action:  action,
		URLs:    urls,
		active:  true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) result(confirmed bool) tea.Cmd {
	res := ResultMsg{Confirmed: confirmed, Action: m.Action, URLs: m.URLs}
	return func() tea.Msg { return res }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.active || !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.active = false
		return m, m.result(true)
	case "n", "N", "esc":
		m.active = false
		return m, m.result(false)
	case "enter":
		m.active = false
		return m, m.result(m.yes)
	case "tab", "left", "right", "h", "l":
		m.yes = !m.yes
	}
	return m, nil
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(50)

	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarning).Render(m.Title)

	button := lipgloss.NewStyle().Padding(0, 1)
	yes, no := button.Foreground(ui.ColorMuted), button.Foreground(ui.ColorMuted)
	if m.yes {
		yes = button.Bold(true).Background(ui.ColorSuccess).Foreground(lipgloss.Color("#F9FAFB"))
	} else {
		no = button.Bold(true).Background(ui.ColorFailure).Foreground(lipgloss.Color("#F9FAFB"))
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\n%s",
		title, m.Message,
		yes.Render("Yes"), no.Render("No"),
		ui.StyleMuted.Render("y/n to confirm, esc to cancel"))

	return style.Render(content)
}
