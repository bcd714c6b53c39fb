package search

import (
	"github.com/altinukshini/bookgrep/internal/model"
)

// Engine evaluates patterns against texts. It holds no state between calls.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// Search compiles cfg and evaluates it against text. The only error is
// *InvalidPatternError, in which case no results are produced.
func (e *Engine) Search(text string, cfg model.SearchConfig) (*model.SearchResults, error) {
	pattern, err := Compile(cfg.Pattern, cfg.CaseSensitive, cfg.WholeLine)
	if err != nil {
		return nil, err
	}
	return e.SearchLines(SplitLines(text), cfg, pattern), nil
}

// SearchLines evaluates an already compiled pattern against split lines.
func (e *Engine) SearchLines(lines []string, cfg model.SearchConfig, pattern *Pattern) *model.SearchResults {
	results, stats := Evaluate(pattern, lines)
	return &model.SearchResults{
		Config: cfg,
		Lines:  results,
		Stats:  stats,
	}
}

// Evaluate runs pattern over every line in order. Lines that do not match
// are omitted; the rest come back in ascending line order.
func Evaluate(pattern *Pattern, lines []string) ([]model.LineResult, model.SearchStats) {
	stats := model.SearchStats{TotalLines: len(lines)}
	var results []model.LineResult

	for i, line := range lines {
		if !pattern.MatchString(line) {
			continue
		}
		stats.MatchedLines++

		spans := pattern.FindAll(line)
		// A line that tested positive counts at least once.
		count := max(len(spans), 1)
		stats.TotalOccurrences += count

		results = append(results, model.LineResult{
			Number:      i + 1,
			Segments:    Segments(line, spans),
			Occurrences: count,
		})
	}
	return results, stats
}
