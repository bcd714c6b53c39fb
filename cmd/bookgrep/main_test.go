package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/model"
)

const gilgamesh = "Title: The Epic of Gilgamesh\nhe who saw the deep\nthe deep sea\n"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"bookgrep", "--config="}, args...))
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected an exit error, got %v", err)
	return coder.ExitCode()
}

func writeText(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "text.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestGrepFile(t *testing.T) {
	path := writeText(t, gilgamesh)

	out, _, err := run(t, "grep", "--color=never", "--file", path, "deep")
	require.NoError(t, err)
	assert.Equal(t, "2:he who saw the deep\n3:the deep sea\n", out)
}

func TestGrepCountAndStats(t *testing.T) {
	path := writeText(t, gilgamesh)

	out, errOut, err := run(t, "grep", "--count", "--stats", "--file", path, "the")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Equal(t, "4 lines, 3 matched, 3 occurrences\n", errOut)
}

func TestGrepWholeLineAndCase(t *testing.T) {
	path := writeText(t, gilgamesh)

	out, _, err := run(t, "grep", "-x", "--color=never", "--file", path, "THE DEEP SEA")
	require.NoError(t, err)
	assert.Equal(t, "3:the deep sea\n", out)

	_, _, err = run(t, "grep", "-x", "-s", "--file", path, "THE DEEP SEA")
	assert.Equal(t, 1, exitCode(t, err))
}

func TestGrepExitCodes(t *testing.T) {
	path := writeText(t, gilgamesh)

	_, _, err := run(t, "grep", "--file", path, "unicorn")
	assert.Equal(t, 1, exitCode(t, err))

	_, _, err = run(t, "grep", "--file", path, "(")
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), "invalid pattern")

	_, _, err = run(t, "grep", "--file", path)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestGrepURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.txt" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, gilgamesh)
	}))
	defer srv.Close()

	good := srv.URL + "/11000.txt"
	out, errOut, err := run(t, "--no-cache", "grep", "--color=never",
		"--url", good, "--url", srv.URL+"/missing.txt", "saw")
	require.NoError(t, err)
	assert.Equal(t, good+":2:he who saw the deep\n", out)
	assert.Contains(t, errOut, "missing.txt: Could not load the URL")
}

func catalogServer(t *testing.T, books, suggestions []model.Book) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/search/searchByTitle":
			_ = json.NewEncoder(w).Encode(books)
		case "/api/v1/search/suggestionSearch":
			_ = json.NewEncoder(w).Encode(suggestions)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBooksCommand(t *testing.T) {
	books := []model.Book{
		{ID: 11000, Title: "The Epic of Gilgamesh", Author: "Unknown"},
		{ID: 1661, Title: "The Adventures of Sherlock Holmes", Author: "Arthur Conan Doyle"},
	}
	srv := catalogServer(t, books, []model.Book{{ID: 2814, Title: "Dubliners", Author: "James Joyce"}})

	out, _, err := run(t, "--catalog", srv.URL, "books", "epic")
	require.NoError(t, err)
	assert.Contains(t, out, "11000")
	assert.Contains(t, out, "The Epic of Gilgamesh")

	out, _, err = run(t, "--catalog", srv.URL, "books", "--author", "doyle", "epic")
	require.NoError(t, err)
	assert.Contains(t, out, "1661")
	assert.NotContains(t, out, "Gilgamesh")

	out, _, err = run(t, "--catalog", srv.URL, "books", "--suggest", "epic")
	require.NoError(t, err)
	assert.Contains(t, out, "Dubliners")
}

func TestBooksCatalogDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := run(t, "--catalog", srv.URL, "books", "epic")
	assert.Equal(t, 2, exitCode(t, err))
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("[cache]\ndir = %q\n", dir)), 0o644))

	texts, err := cache.NewTextCache(dir, 10, time.Hour)
	require.NoError(t, err)
	const url = "https://www.gutenberg.org/cache/epub/11000/pg11000.txt"
	require.NoError(t, texts.Store(gilgamesh, cache.CacheMeta{URL: url, Title: "The Epic of Gilgamesh", BookID: "11000"}))

	out, errOut, err := run(t, "--config", cfgPath, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The Epic of Gilgamesh")
	assert.True(t, strings.HasPrefix(errOut, "1 texts"), errOut)

	_, _, err = run(t, "--config", cfgPath, "cache", "rm", url)
	require.NoError(t, err)
	entries, err := texts.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, texts.Store(gilgamesh, cache.CacheMeta{URL: url}))
	_, errOut, err = run(t, "--config", cfgPath, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Text cache cleared\n", errOut)
}
