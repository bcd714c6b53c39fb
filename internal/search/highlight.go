package search

import "github.com/altinukshini/bookgrep/internal/model"

// Segments splits line into plain and highlighted pieces around spans.
// Spans must be ordered and non-overlapping, as FindAll returns them.
// A zero-length span becomes an empty highlighted segment so the match
// position is kept while the text still reconstructs exactly.
func Segments(line string, spans []Span) []model.Segment {
	if len(spans) == 0 {
		return []model.Segment{{Text: line}}
	}

	segs := make([]model.Segment, 0, 2*len(spans)+1)
	last := 0
	for _, sp := range spans {
		if sp.Start > last {
			segs = append(segs, model.Segment{Text: line[last:sp.Start]})
		}
		segs = append(segs, model.Segment{Text: line[sp.Start:sp.End], Highlighted: true})
		last = sp.End
	}
	if last < len(line) {
		segs = append(segs, model.Segment{Text: line[last:]})
	}
	return segs
}

// Highlight segments a single line with a compiled pattern.
func Highlight(pattern *Pattern, line string) []model.Segment {
	return Segments(line, pattern.FindAll(line))
}
