package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/bookgrep/internal/api"
	"github.com/altinukshini/bookgrep/internal/model"
)

func TestRenderSegmentsWithPlainStyleRebuildsLine(t *testing.T) {
	segs := []model.Segment{
		{Text: "", Highlighted: true},
		{Text: "He who "},
		{Text: "saw", Highlighted: true},
		{Text: " the deep"},
	}
	got := RenderSegments(segs, lipgloss.NewStyle())
	if got != "He who saw the deep" {
		t.Errorf("RenderSegments() = %q", got)
	}
}

func TestErrorTextPrefersUserMessage(t *testing.T) {
	err := fmt.Errorf("send: %w", &api.SourceUnavailableError{URL: "https://x", StatusCode: 404, Err: errors.New("404")})
	got := ErrorText(err)
	if !strings.Contains(got, "Could not load the URL") {
		t.Errorf("ErrorText() = %q, want user message", got)
	}

	got = ErrorText(errors.New("plain failure"))
	if !strings.Contains(got, "plain failure") {
		t.Errorf("ErrorText() = %q, want error text", got)
	}
}
