// Package session runs one "send": it loads the source text, searches it
// and queries the catalog, keeping each failure confined to its own part of
// the outcome.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/altinukshini/bookgrep/internal/api"
	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/search"
)

// Source labels shown when a text has no better description.
const (
	TitleNotFound = "Title not found"
	PastedText    = "Pasted text"
)

// ErrNoPriorSearch is returned by Suggestions before any catalog search
// has succeeded.
var ErrNoPriorSearch = errors.New("run a search before asking for suggestions")

type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

type Catalog interface {
	Search(ctx context.Context, mode model.SearchMode, pattern string) ([]model.Book, error)
	Suggest(ctx context.Context, topN int) ([]model.Book, error)
}

// TextStore is the subset of *cache.TextCache a session uses.
type TextStore interface {
	Get(url string) (string, bool, error)
	Store(text string, meta cache.CacheMeta) error
}

// Request is everything the user submitted with one send.
type Request struct {
	Config model.SearchConfig
	URL    string
	Pasted string
	Mode   model.SearchMode
}

// Outcome is the result of one send. Errors are reported per part; a nil
// Results with a non-nil PatternErr means the pattern did not compile.
type Outcome struct {
	Seq        int
	Source     model.SourceMeta
	Text       string
	FromCache  bool
	Results    *model.SearchResults
	Books      []model.Book
	SourceErr  error
	PatternErr error
	CatalogErr error
}

// Session holds the state that outlives a single send.
type Session struct {
	fetcher TextFetcher
	catalog Catalog
	store   TextStore
	engine  *search.Engine

	mu       sync.Mutex
	seq      int
	searched bool
}

// New creates a session. Any collaborator may be nil: without a fetcher
// URLs are never loaded, without a catalog no books are returned, and
// without a store nothing is cached.
func New(fetcher TextFetcher, catalog Catalog, store TextStore) *Session {
	return &Session{
		fetcher: fetcher,
		catalog: catalog,
		store:   store,
		engine:  search.New(),
	}
}

// Seq returns the sequence number of the most recent send.
func (s *Session) Seq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// IsCurrent reports whether seq belongs to the latest send.
func (s *Session) IsCurrent(seq int) bool {
	return s.Seq() == seq
}

// HasSearched reports whether the latest send's catalog search succeeded.
func (s *Session) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searched
}

// Send loads the text and queries the catalog concurrently, then searches
// the text. It never returns a bare error; see the Outcome error fields.
func (s *Session) Send(ctx context.Context, req Request) *Outcome {
	s.mu.Lock()
	s.seq++
	s.searched = false
	out := &Outcome{Seq: s.seq}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.loadSource(gctx, req, out)
		return nil
	})
	if s.catalog != nil {
		g.Go(func() error {
			books, err := s.catalog.Search(gctx, req.Mode, req.Config.Pattern)
			if err != nil {
				log.Printf("catalog search %q: %v", req.Config.Pattern, err)
				out.CatalogErr = err
				return nil
			}
			out.Books = books
			return nil
		})
	}
	_ = g.Wait()

	if out.CatalogErr == nil && s.catalog != nil {
		s.mu.Lock()
		if s.seq == out.Seq {
			s.searched = true
		}
		s.mu.Unlock()
	}

	res, err := s.engine.Search(out.Text, req.Config)
	if err != nil {
		out.PatternErr = err
	} else {
		out.Results = res
	}
	return out
}

// loadSource fills the text and source fields of out. A URL that cannot be
// loaded falls back to the pasted text.
func (s *Session) loadSource(ctx context.Context, req Request, out *Outcome) {
	url := strings.TrimSpace(req.URL)
	if !api.IsRemote(url) || s.fetcher == nil {
		usePasted(req.Pasted, out)
		return
	}

	if s.store != nil {
		text, ok, err := s.store.Get(url)
		if err != nil {
			log.Printf("text cache read %s: %v", url, err)
		}
		if ok {
			out.Text = text
			out.FromCache = true
			out.Source = describeFetched(url, text)
			return
		}
	}

	text, err := s.fetcher.FetchText(ctx, url)
	if err != nil {
		log.Printf("fetch %s: %v", url, err)
		out.SourceErr = err
		usePasted(req.Pasted, out)
		return
	}
	out.Text = text
	out.Source = describeFetched(url, text)

	if s.store != nil {
		meta := cache.CacheMeta{URL: url, Title: out.Source.Title, BookID: out.Source.BookID}
		if err := s.store.Store(text, meta); err != nil {
			log.Printf("text cache write %s: %v", url, err)
		}
	}
}

func usePasted(text string, out *Outcome) {
	out.Text = text
	out.Source = model.SourceMeta{}
	if text != "" {
		out.Source = model.SourceMeta{Title: PastedText, Pasted: true}
	}
}

func describeFetched(url, text string) model.SourceMeta {
	meta := model.SourceMeta{URL: url, Title: TitleNotFound}
	if title, ok := metadata.ExtractTitle(text); ok {
		meta.Title = title
	}
	if id, ok := metadata.ExtractBookID(url); ok {
		meta.BookID = id
		meta.CoverURL = metadata.CoverURL(id)
	}
	return meta
}

// Suggestions returns topN books related to the last catalog search.
func (s *Session) Suggestions(ctx context.Context, topN int) ([]model.Book, error) {
	if s.catalog == nil || !s.HasSearched() {
		return nil, ErrNoPriorSearch
	}
	return s.catalog.Suggest(ctx, topN)
}
