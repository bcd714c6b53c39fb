package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxTextBytes caps the size of a fetched text.
const MaxTextBytes = 32 << 20

var errTextTooLarge = errors.New("text exceeds size limit")

// Fetcher downloads plain texts such as Project Gutenberg books.
type Fetcher struct {
	http     *http.Client
	maxBytes int64
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{http: &http.Client{Timeout: timeout}, maxBytes: MaxTextBytes}
}

func NewFetcherWithHTTP(hc *http.Client, maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = MaxTextBytes
	}
	return &Fetcher{http: hc, maxBytes: maxBytes}
}

// IsRemote reports whether s is something FetchText will download.
func IsRemote(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FetchText GETs rawURL and returns the body. Every failure, including a
// non-2xx status, is a *SourceUnavailableError.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !IsRemote(rawURL) {
		return "", &SourceUnavailableError{URL: rawURL, Err: fmt.Errorf("not an http(s) URL")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &SourceUnavailableError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", &SourceUnavailableError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SourceUnavailableError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", &SourceUnavailableError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return "", &SourceUnavailableError{URL: rawURL, Err: errTextTooLarge}
	}
	return string(data), nil
}
