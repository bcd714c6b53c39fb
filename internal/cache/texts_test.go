package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gilgameshURL = "https://www.gutenberg.org/cache/epub/11000/pg11000.txt"

func newTestCache(t *testing.T, sizeMB int, ttl time.Duration) *TextCache {
	t.Helper()
	tc, err := NewTextCache(t.TempDir(), sizeMB, ttl)
	require.NoError(t, err)
	return tc
}

func TestStoreAndGet(t *testing.T) {
	tc := newTestCache(t, 10, time.Hour)

	assert.False(t, tc.Has(gilgameshURL))
	_, ok, err := tc.Get(gilgameshURL)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tc.Store("Title: Gilgamesh\nHe who saw the deep\n", CacheMeta{
		URL:    gilgameshURL,
		Title:  "Gilgamesh",
		BookID: "11000",
	}))

	assert.True(t, tc.Has(gilgameshURL))
	text, ok, err := tc.Get(gilgameshURL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Title: Gilgamesh\nHe who saw the deep\n", text)

	entries, err := tc.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Key(gilgameshURL), entries[0].Key)
	assert.Equal(t, "Gilgamesh", entries[0].Title)
	assert.Equal(t, "11000", entries[0].BookID)
	assert.Equal(t, 37, entries[0].Bytes)
	assert.False(t, entries[0].StoredAt.IsZero())
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key(gilgameshURL), Key(gilgameshURL))
	assert.NotEqual(t, Key(gilgameshURL), Key(gilgameshURL+"?x"))
}

func TestGetIgnoresMismatchedMeta(t *testing.T) {
	tc := newTestCache(t, 10, time.Hour)
	require.NoError(t, tc.Store("text", CacheMeta{URL: gilgameshURL}))

	// Rewrite meta to claim a different URL under the same key.
	metaPath := filepath.Join(tc.entryDir(Key(gilgameshURL)), metaFile)
	require.NoError(t, os.WriteFile(metaPath, []byte(`{"url":"https://other"}`), 0o644))

	_, ok, err := tc.Get(gilgameshURL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	tc := newTestCache(t, 10, time.Minute)
	require.NoError(t, tc.Store("old", CacheMeta{URL: gilgameshURL}))

	old := time.Now().Add(-time.Hour)
	textPath := filepath.Join(tc.entryDir(Key(gilgameshURL)), textFile)
	require.NoError(t, os.Chtimes(textPath, old, old))

	assert.False(t, tc.Has(gilgameshURL))
}

func TestEvictExpired(t *testing.T) {
	tc := newTestCache(t, 10, time.Minute)
	require.NoError(t, tc.Store("old", CacheMeta{URL: "https://a/1.txt"}))
	require.NoError(t, tc.Store("new", CacheMeta{URL: "https://a/2.txt"}))

	old := time.Now().Add(-time.Hour)
	dir := tc.entryDir(Key("https://a/1.txt"))
	for _, f := range []string{textFile, metaFile} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, f), old, old))
	}

	require.NoError(t, tc.Evict())

	entries, err := tc.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://a/2.txt", entries[0].URL)
}

func TestEvictOverSize(t *testing.T) {
	tc := newTestCache(t, 1, time.Hour)
	big := strings.Repeat("x", 700*1024)

	require.NoError(t, tc.Store(big, CacheMeta{URL: "https://a/old.txt"}))
	older := time.Now().Add(-10 * time.Minute)
	dir := tc.entryDir(Key("https://a/old.txt"))
	for _, f := range []string{textFile, metaFile} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, f), older, older))
	}
	require.NoError(t, tc.Store(big, CacheMeta{URL: "https://a/new.txt"}))

	require.NoError(t, tc.Evict())

	assert.False(t, tc.Has("https://a/old.txt"))
	assert.True(t, tc.Has("https://a/new.txt"))
}

func TestDeleteEntryAndAll(t *testing.T) {
	tc := newTestCache(t, 10, time.Hour)
	require.NoError(t, tc.Store("a", CacheMeta{URL: "https://a/1.txt"}))
	require.NoError(t, tc.Store("b", CacheMeta{URL: "https://a/2.txt"}))

	require.NoError(t, tc.DeleteEntry("https://a/1.txt"))
	assert.False(t, tc.Has("https://a/1.txt"))
	assert.True(t, tc.Has("https://a/2.txt"))

	size, err := tc.TotalSize()
	require.NoError(t, err)
	assert.Positive(t, size)

	require.NoError(t, tc.DeleteAll())
	entries, err := tc.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	size, err = tc.TotalSize()
	require.NoError(t, err)
	assert.Zero(t, size)
}
