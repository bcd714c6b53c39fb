package search

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// InvalidPatternError is returned when the regex evaluator rejects a pattern.
// It is user-correctable: the search produces no results for that pattern.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Matcher is the slice of a regex evaluator the scanner relies on.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
	FindAllStringIndex(s string, n int) [][]int
}

// Span is a half-open byte range [Start, End) of a match within a line.
type Span struct {
	Start int
	End   int
}

func (s Span) Empty() bool { return s.Start == s.End }

// Pattern is a compiled search pattern.
type Pattern struct {
	source  string
	matcher Matcher
	// after matches the expression one character into its input, which
	// gives FindAll a context-aware match at an arbitrary offset.
	after *regexp.Regexp
}

// Compile builds the effective expression for a pattern and its modifiers.
// wholeLine anchors the pattern to the full line; caseSensitive=false adds
// the (?i) flag without touching the pattern text.
func Compile(pattern string, caseSensitive, wholeLine bool) (*Pattern, error) {
	// Validate the raw pattern first: wrapping can turn an unbalanced
	// pattern like "a)(b" into a valid expression.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}

	expr := pattern
	if wholeLine {
		expr = "^(?:" + expr + ")$"
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	after, err := regexp.Compile(`\A(?s:.)(?:` + expr + `)`)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return &Pattern{source: expr, matcher: re, after: after}, nil
}

// NewPattern wraps an existing matcher.
func NewPattern(source string, m Matcher) *Pattern {
	return &Pattern{source: source, matcher: m}
}

// String returns the effective expression.
func (p *Pattern) String() string {
	return p.source
}

func (p *Pattern) MatchString(line string) bool {
	return p.matcher.MatchString(line)
}

// FindAll returns the successive non-overlapping matches in line.
//
// Each match is searched for from the end of the previous one, so a
// zero-length match right after a non-empty match is kept ("a*" on "baaac"
// yields four spans). After a zero-length match the scan resumes one
// character further on, so the result never holds more than
// RuneCount(line)+1 spans whatever the pattern. Spans the matcher reports
// out of order are dropped.
func (p *Pattern) FindAll(line string) []Span {
	limit := utf8.RuneCountInString(line) + 1
	locs := p.matcher.FindAllStringIndex(line, limit)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	pos := 0        // earliest offset the next match may start at
	lastEmpty := -1 // offset of the previous zero-length match
	for _, loc := range locs {
		if len(spans) == limit {
			break
		}
		start, end := loc[0], loc[1]
		if start < pos || end < start || end > len(line) {
			continue
		}
		if start == end {
			if start == lastEmpty {
				continue
			}
			lastEmpty = start
			spans = append(spans, Span{Start: start, End: end})
			pos = nextRune(line, start)
			continue
		}
		spans = append(spans, Span{Start: start, End: end})
		pos = end
		if len(spans) < limit && p.emptyMatchAt(line, end) {
			lastEmpty = end
			spans = append(spans, Span{Start: end, End: end})
			pos = nextRune(line, end)
		}
	}
	return spans
}

// emptyMatchAt reports whether the preferred match starting at offset i is
// zero-length. regexp skips such a match when it directly follows another.
func (p *Pattern) emptyMatchAt(line string, i int) bool {
	if p.after == nil || i == 0 || i > len(line) {
		return false
	}
	_, w := utf8.DecodeLastRuneInString(line[:i])
	loc := p.after.FindStringIndex(line[i-w:])
	return loc != nil && loc[1] == w
}

// nextRune returns the offset one character past i.
func nextRune(s string, i int) int {
	if i >= len(s) {
		return len(s) + 1
	}
	_, w := utf8.DecodeRuneInString(s[i:])
	return i + w
}
