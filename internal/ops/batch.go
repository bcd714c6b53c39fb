package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/search"
)

type BookFilter struct {
	Title    string
	Author   string
	HasCover bool
}

// FilterBooks keeps the books whose title and author contain the filter
// values, ignoring case.
func FilterBooks(books []model.Book, filter BookFilter) []model.Book {
	var matched []model.Book
	title := strings.ToLower(filter.Title)
	author := strings.ToLower(filter.Author)

	for _, b := range books {
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		if filter.HasCover && b.ImageURL == "" {
			continue
		}
		matched = append(matched, b)
	}
	return matched
}

type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// SourceResult is the outcome of searching one URL of a batch.
type SourceResult struct {
	URL     string
	Results *model.SearchResults
	Err     error
}

type BatchResult struct {
	Sources   []SourceResult
	Completed int
	Failed    int
	Errors    []error
	Stats     model.SearchStats // summed over completed sources
}

// BatchGrep fetches each URL in turn and searches it with cfg. A source
// that cannot be fetched is recorded and skipped. An invalid pattern is
// returned before anything is fetched.
func BatchGrep(ctx context.Context, fetcher TextFetcher, urls []string, cfg model.SearchConfig, onProgress func(completed, total int)) (*BatchResult, error) {
	pattern, err := search.Compile(cfg.Pattern, cfg.CaseSensitive, cfg.WholeLine)
	if err != nil {
		return nil, err
	}

	engine := search.New()
	result := &BatchResult{}
	total := len(urls)

	for i, url := range urls {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		text, err := fetcher.FetchText(ctx, url)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", url, err))
			result.Sources = append(result.Sources, SourceResult{URL: url, Err: err})
		} else {
			res := engine.SearchLines(search.SplitLines(text), cfg, pattern)
			result.Completed++
			result.Stats.TotalLines += res.Stats.TotalLines
			result.Stats.MatchedLines += res.Stats.MatchedLines
			result.Stats.TotalOccurrences += res.Stats.TotalOccurrences
			result.Sources = append(result.Sources, SourceResult{URL: url, Results: res})
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	return result, nil
}
