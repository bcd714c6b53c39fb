package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Enter       key.Binding
	Back        key.Binding
	Send        key.Binding
	CaseToggle  key.Binding
	WholeLine   key.Binding
	CycleMode   key.Binding
	Suggestions key.Binding
	Open        key.Binding
	PageSize    key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	Filter      key.Binding
	Info        key.Binding
	Refresh     key.Binding
	Delete      key.Binding
	ClearAll    key.Binding
	Sort        key.Binding
	Select      key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

var Keys = KeyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	ShiftTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev field")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Send:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	CaseToggle:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "case sensitive")),
	WholeLine:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "whole line")),
	CycleMode:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "catalog mode")),
	Suggestions: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "suggestions")),
	Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	PageSize:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),
	NextPage:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/->", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/<-", "prev page")),
	NextMatch:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
	PrevMatch:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
	Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Info:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	ClearAll:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:         key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:      key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
}
