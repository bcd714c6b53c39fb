package search

import (
	"testing"

	"github.com/altinukshini/bookgrep/internal/model"
)

func TestHighlightSegments(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    []model.Segment
	}{
		{
			name:    "middle match",
			pattern: "cat",
			line:    "the cat sat",
			want: []model.Segment{
				{Text: "the "},
				{Text: "cat", Highlighted: true},
				{Text: " sat"},
			},
		},
		{
			name:    "adjacent matches",
			pattern: "ab",
			line:    "abab",
			want: []model.Segment{
				{Text: "ab", Highlighted: true},
				{Text: "ab", Highlighted: true},
			},
		},
		{
			name:    "whole line",
			pattern: ".*",
			line:    "xyz",
			want: []model.Segment{
				{Text: "xyz", Highlighted: true},
				{Text: "", Highlighted: true},
			},
		},
		{
			name:    "zero length after a match",
			pattern: "a*",
			line:    "baaac",
			want: []model.Segment{
				{Text: "", Highlighted: true},
				{Text: "b"},
				{Text: "aaa", Highlighted: true},
				{Text: "", Highlighted: true},
				{Text: "c"},
				{Text: "", Highlighted: true},
			},
		},
		{
			name:    "zero length at start",
			pattern: "^",
			line:    "abc",
			want: []model.Segment{
				{Text: "", Highlighted: true},
				{Text: "abc"},
			},
		},
		{
			name:    "zero length at end",
			pattern: "$",
			line:    "ab",
			want: []model.Segment{
				{Text: "ab"},
				{Text: "", Highlighted: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern, true, false)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got := Highlight(p, tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("Highlight() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegmentsWithoutSpansKeepsLine(t *testing.T) {
	got := Segments("plain", nil)
	if len(got) != 1 || got[0].Text != "plain" || got[0].Highlighted {
		t.Errorf("Segments() = %+v, want one plain segment", got)
	}
}

// stuckMatcher reports the same empty match forever, like an evaluator
// that never advances past a zero-length match.
type stuckMatcher struct{}

func (stuckMatcher) MatchString(string) bool { return true }

func (stuckMatcher) FindAllStringIndex(s string, n int) [][]int {
	locs := make([][]int, n)
	for i := range locs {
		locs[i] = []int{0, 0}
	}
	return locs
}

func TestFindAllTerminatesOnStuckMatcher(t *testing.T) {
	p := NewPattern("stuck", stuckMatcher{})
	spans := p.FindAll("abc")
	if len(spans) != 1 {
		t.Fatalf("FindAll() returned %d spans, want 1", len(spans))
	}
	if !spans[0].Empty() {
		t.Errorf("span %+v should be empty", spans[0])
	}
}

// overlappingMatcher reports overlapping and out-of-range matches.
type overlappingMatcher struct{}

func (overlappingMatcher) MatchString(string) bool { return true }

func (overlappingMatcher) FindAllStringIndex(string, int) [][]int {
	return [][]int{{0, 2}, {1, 3}, {2, 3}, {3, 9}}
}

func TestFindAllDropsOverlappingSpans(t *testing.T) {
	p := NewPattern("overlap", overlappingMatcher{})
	spans := p.FindAll("abcd")
	want := []Span{{0, 2}, {2, 3}}
	if len(spans) != len(want) {
		t.Fatalf("FindAll() = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestFindAllBoundedByLineLength(t *testing.T) {
	p, err := Compile("", true, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, line := range []string{"", "a", "hello world", "ünïcödé"} {
		spans := p.FindAll(line)
		if limit := len([]rune(line)) + 1; len(spans) > limit {
			t.Errorf("FindAll(%q) = %d spans, want <= %d", line, len(spans), limit)
		}
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a\nb", []string{"a", "b"}},
		{"a\nb\n", []string{"a", "b", ""}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\rb", []string{"a\rb"}},
		{"end\r", []string{"end\r"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
