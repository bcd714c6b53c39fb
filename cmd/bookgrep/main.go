package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/bookgrep/internal/api"
	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/config"
	"github.com/altinukshini/bookgrep/internal/metadata"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/session"
	"github.com/altinukshini/bookgrep/internal/tui"
	"github.com/altinukshini/bookgrep/internal/tui/searchview"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

// debugLog is the file opened when BOOKGREP_DEBUG is set.
var debugLog *os.File

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "case-sensitive",
			Aliases: []string{"s"},
			Usage:   "Match letter case exactly",
		},
		&cli.BoolFlag{
			Name:    "whole-line",
			Aliases: []string{"x"},
			Usage:   "Only match when the pattern covers the entire line",
		},
	}
}

func newApp() *cli.App {
	tuiFlags := append(searchFlags(),
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Usage:   "Text to fetch and search",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Local file loaded as pasted text",
		},
		&cli.StringFlag{
			Name:    "pattern",
			Aliases: []string{"p"},
			Usage:   "Initial pattern",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Catalog search mode: title, tc or class",
		},
	)

	return &cli.App{
		Name:                   "bookgrep",
		Usage:                  "Search book texts with regular expressions and browse a book catalog",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Catalog service base URL (overrides config)",
				EnvVars: []string{"BOOKGREP_CATALOG"},
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not read or write the fetched-text cache",
			},
		}, tuiFlags...),
		Before: setupLogging,
		After: func(*cli.Context) error {
			if debugLog != nil {
				return debugLog.Close()
			}
			return nil
		},
		Action: runTUI,
		Commands: []*cli.Command{
			grepCommand(),
			booksCommand(),
			cacheCommand(),
		},
	}
}

// setupLogging sends the standard logger to a file when BOOKGREP_DEBUG is
// set. Otherwise log output would corrupt the terminal UI.
func setupLogging(*cli.Context) error {
	path := os.Getenv("BOOKGREP_DEBUG")
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	if path == "1" || path == "true" {
		path = "bookgrep-debug.log"
	}
	f, err := tea.LogToFile(path, "bookgrep")
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	debugLog = f
	return nil
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if u := c.String("catalog"); u != "" {
		cfg.Catalog.BaseURL = u
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openCache returns nil when caching is disabled or unavailable.
func openCache(c *cli.Context, cfg config.Config) *cache.TextCache {
	if c.Bool("no-cache") {
		return nil
	}
	texts, err := cache.NewTextCache(cfg.CacheDir(), cfg.Cache.SizeMB, cfg.Cache.TTL.Duration)
	if err != nil {
		log.Printf("text cache disabled: %v", err)
		return nil
	}
	if err := texts.Evict(); err != nil {
		log.Printf("text cache eviction: %v", err)
	}
	return texts
}

func searchMode(c *cli.Context, cfg config.Config) (model.SearchMode, error) {
	if m := c.String("mode"); m != "" {
		return model.ParseSearchMode(m)
	}
	return cfg.SearchMode(), nil
}

// newSession wires the fetcher, catalog and optional cache together.
func newSession(cfg config.Config, texts *cache.TextCache) *session.Session {
	client := api.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout.Duration)
	fetcher := api.NewFetcher(cfg.Catalog.Timeout.Duration)
	// A nil *TextCache must not become a non-nil interface.
	var store session.TextStore
	if texts != nil {
		store = texts
	}
	return session.New(fetcher, client, store)
}

func runTUI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	mode, err := searchMode(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	values := searchview.Values{
		Pattern:       c.String("pattern"),
		URL:           c.String("url"),
		CaseSensitive: c.Bool("case-sensitive") || cfg.Search.CaseSensitive,
		WholeLine:     c.Bool("whole-line") || cfg.Search.WholeLine,
		Mode:          mode,
	}
	if values.Pattern == "" {
		values.Pattern = c.Args().First()
	}
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("read %s: %v", path, err), 2)
		}
		values.Pasted = string(data)
	}

	texts := openCache(c, cfg)
	sess := newSession(cfg, texts)
	b := browser.New("", io.Discard, io.Discard)

	app := tui.NewApp(cfg, sess, texts, b, values)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(c.Context))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// cachedFetcher serves texts from the cache before going to the network
// and keeps every successful download.
type cachedFetcher struct {
	fetcher *api.Fetcher
	texts   *cache.TextCache
}

func (f cachedFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if f.texts != nil {
		if text, ok, err := f.texts.Get(url); err == nil && ok {
			return text, nil
		}
	}
	text, err := f.fetcher.FetchText(ctx, url)
	if err != nil {
		return "", err
	}
	if f.texts != nil {
		meta := cache.CacheMeta{URL: url}
		meta.Title, _ = metadata.ExtractTitle(text)
		meta.BookID, _ = metadata.ExtractBookID(url)
		if err := f.texts.Store(text, meta); err != nil {
			log.Printf("text cache write %s: %v", url, err)
		}
	}
	return text, nil
}
