package model

// SearchConfig is one user search: a pattern plus its modifiers.
type SearchConfig struct {
	Pattern       string
	CaseSensitive bool
	WholeLine     bool
}

// Segment is a contiguous piece of a line. Concatenating the Text of a
// line's segments in order yields the original line.
type Segment struct {
	Text        string
	Highlighted bool
}

type LineResult struct {
	Number      int // 1-based
	Segments    []Segment
	Occurrences int
}

// Text rebuilds the original line from its segments.
func (l LineResult) Text() string {
	n := 0
	for _, s := range l.Segments {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range l.Segments {
		b = append(b, s.Text...)
	}
	return string(b)
}

type SearchStats struct {
	TotalLines       int
	MatchedLines     int
	TotalOccurrences int
}

type SearchResults struct {
	Config SearchConfig
	Lines  []LineResult
	Stats  SearchStats
}
