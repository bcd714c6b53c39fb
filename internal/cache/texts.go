package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	textFile = "text.txt"
	metaFile = "meta.json"
)

// TextCache keeps fetched texts on disk so repeated searches against the
// same URL do not download it again.
type TextCache struct {
	dir     string
	maxSize int64         // max total cache size in bytes
	ttl     time.Duration // cache entry TTL
}

// CacheMeta stores metadata about a cached text.
type CacheMeta struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	BookID   string    `json:"book_id"`
	Bytes    int       `json:"bytes"`
	StoredAt time.Time `json:"stored_at"`
}

// CacheEntry represents a single cached text with computed fields.
type CacheEntry struct {
	CacheMeta
	Key          string
	LastAccessed time.Time
	Size         int64
	Path         string
}

func NewTextCache(dir string, maxSizeMB int, ttl time.Duration) (*TextCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create text cache dir: %w", err)
	}
	return &TextCache{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
	}, nil
}

// Key is the directory name for url.
func Key(url string) string {
	return strconv.FormatUint(xxhash.Sum64String(url), 16)
}

func (tc *TextCache) entryDir(key string) string {
	return filepath.Join(tc.dir, key)
}

func (tc *TextCache) Has(url string) bool {
	info, err := os.Stat(filepath.Join(tc.entryDir(Key(url)), textFile))
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < tc.ttl
}

// Get returns the cached text for url. A missing or expired entry reports
// ok=false.
func (tc *TextCache) Get(url string) (text string, ok bool, err error) {
	if !tc.Has(url) {
		return "", false, nil
	}
	dir := tc.entryDir(Key(url))
	if meta, err := tc.readMeta(dir); err == nil && meta.URL != url {
		// Hash collision with another URL.
		return "", false, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, textFile))
	if err != nil {
		return "", false, fmt.Errorf("read cached text: %w", err)
	}
	return string(data), true, nil
}

// Store writes text and its metadata, replacing any previous entry.
func (tc *TextCache) Store(text string, meta CacheMeta) error {
	dir := tc.entryDir(Key(meta.URL))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache entry dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, textFile), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write cached text: %w", err)
	}
	if meta.StoredAt.IsZero() {
		meta.StoredAt = time.Now()
	}
	meta.Bytes = len(text)
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metaFile), data, 0o644)
}

func (tc *TextCache) readMeta(dir string) (*CacheMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}
	var meta CacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Evict removes expired entries, then the oldest ones until the cache fits
// its size cap.
func (tc *TextCache) Evict() error {
	entries, err := tc.ListEntries()
	if err != nil {
		return err
	}

	var totalSize int64
	now := time.Now()
	remaining := entries[:0]
	for _, e := range entries {
		if now.Sub(e.LastAccessed) > tc.ttl {
			os.RemoveAll(e.Path)
			continue
		}
		totalSize += e.Size
		remaining = append(remaining, e)
	}
	entries = remaining

	if totalSize > tc.maxSize {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].LastAccessed.Before(entries[j].LastAccessed)
		})
		for _, e := range entries {
			if totalSize <= tc.maxSize {
				break
			}
			os.RemoveAll(e.Path)
			totalSize -= e.Size
		}
	}
	return nil
}

// ListEntries scans the cache directory and returns all entries, newest
// first.
func (tc *TextCache) ListEntries() ([]CacheEntry, error) {
	entries, err := os.ReadDir(tc.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var result []CacheEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirPath := filepath.Join(tc.dir, e.Name())
		entry := CacheEntry{Key: e.Name(), Path: dirPath}
		if meta, err := tc.readMeta(dirPath); err == nil {
			entry.CacheMeta = *meta
		}
		entry.Size = dirSize(dirPath)
		entry.LastAccessed = dirLastAccessed(dirPath)
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].LastAccessed.After(result[j].LastAccessed)
	})
	return result, nil
}

// DeleteEntry removes the entry for url.
func (tc *TextCache) DeleteEntry(url string) error {
	return os.RemoveAll(tc.entryDir(Key(url)))
}

// DeleteAll removes all cache entries.
func (tc *TextCache) DeleteAll() error {
	entries, err := os.ReadDir(tc.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := os.RemoveAll(filepath.Join(tc.dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// TotalSize returns total cache size in bytes.
func (tc *TextCache) TotalSize() (int64, error) {
	var total int64
	err := filepath.Walk(tc.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}
	return total, nil
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func dirLastAccessed(path string) time.Time {
	var latest time.Time
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest
}
