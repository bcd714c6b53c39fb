package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/altinukshini/bookgrep/internal/model"
)

type Config struct {
	Catalog Catalog `toml:"catalog"`
	Search  Search  `toml:"search"`
	Cache   Cache   `toml:"cache"`
}

type Catalog struct {
	BaseURL     string   `toml:"base_url"`
	Timeout     Duration `toml:"timeout"`
	Suggestions int      `toml:"suggestions"` // top_n for suggestion searches
}

type Search struct {
	CaseSensitive bool   `toml:"case_sensitive"`
	WholeLine     bool   `toml:"whole_line"`
	Mode          string `toml:"mode"`
	BooksPerPage  int    `toml:"books_per_page"`
}

type Cache struct {
	Dir    string   `toml:"dir"`
	SizeMB int      `toml:"size_mb"`
	TTL    Duration `toml:"ttl"`
}

// Duration decodes TOML strings such as "15s" or "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default() Config {
	return Config{
		Catalog: Catalog{
			BaseURL:     "http://localhost:8080",
			Timeout:     Duration{15 * time.Second},
			Suggestions: 10,
		},
		Search: Search{
			Mode:         string(model.ModeTitle),
			BooksPerPage: 5,
		},
		Cache: Cache{
			SizeMB: 200,
			TTL:    Duration{24 * time.Hour},
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/bookgrep/config.toml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bookgrep", "config.toml")
}

// Load overlays the TOML file at path on the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// CacheDir resolves the fetched-text cache directory.
func (c Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(os.TempDir(), "bookgrep", "texts")
}

func (c Config) SearchMode() model.SearchMode {
	mode, err := model.ParseSearchMode(c.Search.Mode)
	if err != nil {
		return model.ModeTitle
	}
	return mode
}

func (c Config) Validate() error {
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("catalog base_url must be an http(s) URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Timeout.Duration <= 0 {
		return fmt.Errorf("catalog timeout must be positive")
	}
	if c.Catalog.Suggestions <= 0 {
		return fmt.Errorf("catalog suggestions must be positive")
	}
	if _, err := model.ParseSearchMode(c.Search.Mode); err != nil {
		return err
	}
	if c.Search.BooksPerPage <= 0 {
		return fmt.Errorf("books_per_page must be positive")
	}
	if c.Cache.SizeMB <= 0 {
		return fmt.Errorf("cache size_mb must be positive")
	}
	if c.Cache.TTL.Duration <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	return nil
}
