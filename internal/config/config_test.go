package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/bookgrep/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[catalog]
base_url = "https://books.example.com"
timeout = "3s"

[search]
case_sensitive = true
mode = "class"

[cache]
ttl = "1h"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://books.example.com", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout.Duration)
	assert.Equal(t, 10, cfg.Catalog.Suggestions, "unset keys keep their defaults")
	assert.True(t, cfg.Search.CaseSensitive)
	assert.Equal(t, model.ModeClass, cfg.SearchMode())
	assert.Equal(t, 5, cfg.Search.BooksPerPage)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, 200, cfg.Cache.SizeMB)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nttl = \"soon\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative catalog url", func(c *Config) { c.Catalog.BaseURL = "localhost:8080" }},
		{"ftp catalog url", func(c *Config) { c.Catalog.BaseURL = "ftp://books" }},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = Duration{} }},
		{"unknown mode", func(c *Config) { c.Search.Mode = "fuzzy" }},
		{"zero page size", func(c *Config) { c.Search.BooksPerPage = 0 }},
		{"zero cache size", func(c *Config) { c.Cache.SizeMB = 0 }},
		{"zero suggestions", func(c *Config) { c.Catalog.Suggestions = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCacheDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join(os.TempDir(), "bookgrep", "texts"), cfg.CacheDir())

	cfg.Cache.Dir = "/var/cache/bookgrep"
	assert.Equal(t, "/var/cache/bookgrep", cfg.CacheDir())
}
