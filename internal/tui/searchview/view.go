package searchview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/session"
	"github.com/altinukshini/bookgrep/internal/ui"
)

// Field identifies the focused input of the form.
type Field int

const (
	FieldPattern Field = iota
	FieldURL
	FieldPasted
	fieldCount
)

// Values pre-fills the form.
type Values struct {
	Pattern       string
	URL           string
	Pasted        string
	CaseSensitive bool
	WholeLine     bool
	Mode          model.SearchMode
}

type Model struct {
	pattern textinput.Model
	url     textinput.Model
	pasted  textarea.Model

	caseSensitive bool
	wholeLine     bool
	mode          model.SearchMode

	focus   Field
	width   int
	height  int
	loading bool
	active  bool
	err     error // inline pattern error
}

func New(v Values) Model {
	patternIn := textinput.New()
	patternIn.Placeholder = "Pattern, e.g. Sargon or ^Title:"
	patternIn.CharLimit = 256
	patternIn.SetValue(v.Pattern)

	urlIn := textinput.New()
	urlIn.Placeholder = "https://www.gutenberg.org/cache/epub/11000/pg11000.txt"
	urlIn.CharLimit = 2048
	urlIn.SetValue(v.URL)

	ta := textarea.New()
	ta.Placeholder = "...or paste text here"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(v.Pasted)

	mode := v.Mode
	if mode == "" {
		mode = model.ModeTitle
	}

	return Model{
		pattern:       patternIn,
		url:           urlIn,
		pasted:        ta,
		caseSensitive: v.CaseSensitive,
		wholeLine:     v.WholeLine,
		mode:          mode,
	}
}

func (m *Model) Activate() tea.Cmd {
	m.active = true
	return m.focusField(m.focus)
}

func (m *Model) Deactivate() {
	m.active = false
	m.pattern.Blur()
	m.url.Blur()
	m.pasted.Blur()
}

func (m Model) IsActive() bool {
	return m.active
}

func (m Model) Focused() Field {
	return m.focus
}

func (m *Model) focusField(f Field) tea.Cmd {
	m.focus = f
	m.pattern.Blur()
	m.url.Blur()
	m.pasted.Blur()
	switch f {
	case FieldURL:
		return m.url.Focus()
	case FieldPasted:
		return m.pasted.Focus()
	default:
		return m.pattern.Focus()
	}
}

// Request builds a send from the current form values.
func (m Model) Request() session.Request {
	return session.Request{
		Config: model.SearchConfig{
			Pattern:       m.pattern.Value(),
			CaseSensitive: m.caseSensitive,
			WholeLine:     m.wholeLine,
		},
		URL:    m.url.Value(),
		Pasted: m.pasted.Value(),
		Mode:   m.mode,
	}
}

// SetURL replaces the URL field, keeping everything else.
func (m *Model) SetURL(url string) {
	m.url.SetValue(url)
}

// SetPatternError shows err under the pattern field; nil clears it.
func (m *Model) SetPatternError(err error) {
	m.err = err
	m.loading = false
}

func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) submit() (Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	req := m.Request()
	return m, func() tea.Msg { return ui.SubmitMsg{Request: req} }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.UseBookMsg:
		m.url.SetValue(msg.URL)
		return m.submit()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pattern.Width = msg.Width - 4
		m.url.Width = msg.Width - 4
		m.pasted.SetWidth(msg.Width - 2)
		// pattern(2) + url(2) + toggles(3) + labels/margins(4)
		m.pasted.SetHeight(max(msg.Height-11, 3))
		return m, nil

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		switch {
		case key.Matches(msg, ui.Keys.Send):
			return m.submit()
		case key.Matches(msg, ui.Keys.CaseToggle):
			m.caseSensitive = !m.caseSensitive
			return m, nil
		case key.Matches(msg, ui.Keys.WholeLine):
			m.wholeLine = !m.wholeLine
			return m, nil
		case key.Matches(msg, ui.Keys.CycleMode):
			m.mode = m.mode.Next()
			return m, nil
		case key.Matches(msg, ui.Keys.Tab):
			return m, m.focusField((m.focus + 1) % fieldCount)
		case key.Matches(msg, ui.Keys.ShiftTab):
			return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
		case key.Matches(msg, ui.Keys.Back):
			m.Deactivate()
			return m, nil
		case msg.Type == tea.KeyEnter && m.focus != FieldPasted:
			return m.submit()
		}

		var cmd tea.Cmd
		switch m.focus {
		case FieldPattern:
			m.pattern, cmd = m.pattern.Update(msg)
		case FieldURL:
			m.url, cmd = m.url.Update(msg)
		case FieldPasted:
			m.pasted, cmd = m.pasted.Update(msg)
		}
		return m, cmd
	}

	// Cursor blink and other internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.pattern, cmd = m.pattern.Update(msg)
	cmds = append(cmds, cmd)
	m.url, cmd = m.url.Update(msg)
	cmds = append(cmds, cmd)
	m.pasted, cmd = m.pasted.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) label(f Field, text string) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted)
	if m.active && m.focus == f {
		style = style.Foreground(ui.ColorPrimary)
	}
	return "  " + style.Render(text)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.label(FieldPattern, "Pattern") + "\n")
	b.WriteString("  " + m.pattern.View() + "\n")
	if m.err != nil {
		b.WriteString("  " + ui.StyleFailure.Render("Invalid pattern") + "\n")
	}

	b.WriteString(m.label(FieldURL, "Text URL") + "\n")
	b.WriteString("  " + m.url.View() + "\n")

	b.WriteString(fmt.Sprintf("  %s case sensitive   %s whole line   catalog: %s\n",
		ui.CheckBox(m.caseSensitive), ui.CheckBox(m.wholeLine),
		ui.StyleInfo.Render(m.mode.Label())))
	b.WriteString(ui.StyleMuted.Render("  ctrl+r case  ctrl+l line  ctrl+o mode  ctrl+s send") + "\n\n")

	b.WriteString(m.label(FieldPasted, "Pasted text") + "\n")
	b.WriteString(m.pasted.View())

	if m.loading {
		b.WriteString("\n\n  Searching...")
	}
	return b.String()
}
