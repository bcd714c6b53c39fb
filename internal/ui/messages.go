package ui

import (
	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/session"
)

// SubmitMsg asks the app to run a send with the form's current values.
type SubmitMsg struct {
	Request session.Request
}

type SearchDoneMsg struct {
	Outcome *session.Outcome
}

// SuggestionsLoadedMsg carries the sequence number of the send that was
// current when the suggestions were requested.
type SuggestionsLoadedMsg struct {
	Seq   int
	Books []model.Book
	Err   error
}

// Text cache management messages
type TextCacheLoadedMsg struct {
	Entries   []cache.CacheEntry
	TotalSize int64
	Err       error
}

type TextCacheDeletedMsg struct {
	Count int
	Err   error
}

// UseBookMsg asks the form to load a catalog book's text.
type UseBookMsg struct {
	URL string
}

type StatusMsg struct {
	Text string
}
