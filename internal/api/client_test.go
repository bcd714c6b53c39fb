package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/bookgrep/internal/model"
)

func TestSearchPath(t *testing.T) {
	c := NewClient("http://localhost:8080/", time.Second)
	assert.Equal(t, "http://localhost:8080/api/v1/search/searchByTitle", c.searchPath("searchByTitle"))
}

func TestSearchModesHitTheirEndpoints(t *testing.T) {
	tests := []struct {
		mode     model.SearchMode
		path     string
		wantBody SearchRequest
	}{
		{model.ModeTitle, "/api/v1/search/searchByTitle", SearchRequest{Pattern: "sargon"}},
		{model.ModeTitleContent, "/api/v1/search/searchByTC", SearchRequest{Pattern: "sargon", MaxWords: 100, MaxLength: 500}},
		{model.ModeClass, "/api/v1/search/classSearch", SearchRequest{Pattern: "sargon", MaxWords: 1000, MaxLength: 5000}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body SearchRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantBody, body)

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[{"id":1,"title":"Gilgamesh","author":"Unknown","imgUrl":"https://img/1.jpg"}]`))
			}))
			defer srv.Close()

			books, err := NewClient(srv.URL, time.Second).Search(context.Background(), tt.mode, "sargon")
			require.NoError(t, err)
			require.Len(t, books, 1)
			assert.Equal(t, model.Book{ID: 1, Title: "Gilgamesh", Author: "Unknown", ImageURL: "https://img/1.jpg"}, books[0])
		})
	}
}

func TestSuggestSendsTopN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/search/suggestionSearch", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("top_n"))
		w.Write([]byte(`[{"id":7,"title":"Ulysses","author":"Joyce"},{"id":8,"title":"Dubliners","author":"Joyce"}]`))
	}))
	defer srv.Close()

	books, err := NewClient(srv.URL, time.Second).Suggest(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestNonArrayResponseIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"no books"}`))
	}))
	defer srv.Close()

	books, err := NewClient(srv.URL, time.Second).SearchByTitle(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCatalogErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   CatalogErrorKind
	}{
		{http.StatusNotFound, CatalogNotFound},
		{http.StatusBadRequest, CatalogBadRequest},
		{http.StatusInternalServerError, CatalogServer},
		{http.StatusBadGateway, CatalogServer},
		{http.StatusForbidden, CatalogOther},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).SearchByTitle(context.Background(), "x")
			require.Error(t, err)

			var ce *CatalogError
			require.True(t, errors.As(err, &ce), "want *CatalogError, got %T", err)
			assert.Equal(t, tt.want, ce.Kind)
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.NotEmpty(t, ce.UserMessage())
		})
	}
}

func TestCatalogConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Suggest(context.Background(), 5)

	var ce *CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, CatalogConnection, ce.Kind)
	assert.Contains(t, ce.UserMessage(), url)
}

func TestCatalogMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).SearchByTitle(context.Background(), "x")

	var ce *CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, CatalogOther, ce.Kind)
}
