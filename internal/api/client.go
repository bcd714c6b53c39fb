package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"

	"github.com/altinukshini/bookgrep/internal/model"
)

// Client talks to the book catalog service.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewClientWithHTTP lets callers supply their own transport.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) searchPath(endpoint string) string {
	return fmt.Sprintf("%s/api/v1/search/%s", c.baseURL, endpoint)
}

// Post sends body as JSON and decodes a JSON array response into result.
// Any other JSON value leaves result untouched.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchPath(endpoint), reader)
	if err != nil {
		return &CatalogError{Kind: CatalogBadRequest, Endpoint: endpoint, BaseURL: c.baseURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newCatalogError(c.baseURL, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newCatalogError(c.baseURL, endpoint, ghAPI.HandleHTTPError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newCatalogError(c.baseURL, endpoint, err)
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &CatalogError{Kind: CatalogOther, Endpoint: endpoint, BaseURL: c.baseURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return &CatalogError{Kind: CatalogOther, Endpoint: endpoint, BaseURL: c.baseURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// SearchRequest is the body of the catalog search endpoints.
type SearchRequest struct {
	Pattern   string `json:"pattern"`
	MaxWords  int    `json:"maxWords,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
}

// Word-generation bounds sent with each mode.
const (
	TitleContentMaxWords  = 100
	TitleContentMaxLength = 500
	ClassMaxWords         = 1000
	ClassMaxLength        = 5000
)

func (c *Client) SearchByTitle(ctx context.Context, pattern string) ([]model.Book, error) {
	var books []model.Book
	if err := c.Post(ctx, "searchByTitle", SearchRequest{Pattern: pattern}, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) SearchByTitleContent(ctx context.Context, pattern string, maxWords, maxLength int) ([]model.Book, error) {
	var books []model.Book
	req := SearchRequest{Pattern: pattern, MaxWords: maxWords, MaxLength: maxLength}
	if err := c.Post(ctx, "searchByTC", req, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) ClassSearch(ctx context.Context, pattern string, maxWords, maxLength int) ([]model.Book, error) {
	var books []model.Book
	req := SearchRequest{Pattern: pattern, MaxWords: maxWords, MaxLength: maxLength}
	if err := c.Post(ctx, "classSearch", req, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Search dispatches to the endpoint for mode with its default bounds.
func (c *Client) Search(ctx context.Context, mode model.SearchMode, pattern string) ([]model.Book, error) {
	switch mode {
	case model.ModeTitleContent:
		return c.SearchByTitleContent(ctx, pattern, TitleContentMaxWords, TitleContentMaxLength)
	case model.ModeClass:
		return c.ClassSearch(ctx, pattern, ClassMaxWords, ClassMaxLength)
	default:
		return c.SearchByTitle(ctx, pattern)
	}
}

// Suggest asks for topN books related to the last search the service saw.
func (c *Client) Suggest(ctx context.Context, topN int) ([]model.Book, error) {
	v := url.Values{}
	v.Set("top_n", strconv.Itoa(topN))
	var books []model.Book
	if err := c.Post(ctx, "suggestionSearch?"+v.Encode(), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}
