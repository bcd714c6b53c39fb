package main

import (
	"fmt"
	"io"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/bookgrep/internal/cache"
	"github.com/altinukshini/bookgrep/internal/tui/cacheview"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or empty the fetched-text cache",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List cached texts, most recently used first",
				Action: runCacheList,
			},
			{
				Name:      "rm",
				Usage:     "Remove the cached copy of each URL",
				ArgsUsage: "URL...",
				Action:    runCacheRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached text",
				Action: runCacheClear,
			},
		},
	}
}

func requireCache(c *cli.Context) (*cache.TextCache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	texts, err := cache.NewTextCache(cfg.CacheDir(), cfg.Cache.SizeMB, cfg.Cache.TTL.Duration)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("open cache %s: %v", cfg.CacheDir(), err), 2)
	}
	return texts, nil
}

func runCacheList(c *cli.Context) error {
	texts, err := requireCache(c)
	if err != nil {
		return err
	}
	entries, err := texts.ListEntries()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	if err := printEntries(c.App.Writer, t.IsTerminalOutput(), width, entries); err != nil {
		return err
	}
	total, err := texts.TotalSize()
	if err == nil {
		fmt.Fprintf(c.App.ErrWriter, "%d texts, %s\n", len(entries), cacheview.FormatSize(total))
	}
	return nil
}

func printEntries(w io.Writer, isTTY bool, width int, entries []cache.CacheEntry) error {
	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"TITLE", "BOOK", "SIZE", "LAST USED", "URL"})
	for _, e := range entries {
		tp.AddField(e.Title)
		tp.AddField(e.BookID)
		tp.AddField(cacheview.FormatSize(e.Size))
		tp.AddField(cacheview.RelativeTime(e.LastAccessed))
		tp.AddField(e.URL)
		tp.EndRow()
	}
	return tp.Render()
}

func runCacheRemove(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one URL is required", 2)
	}
	texts, err := requireCache(c)
	if err != nil {
		return err
	}
	for _, url := range c.Args().Slice() {
		if err := texts.DeleteEntry(url); err != nil {
			return cli.Exit(fmt.Sprintf("remove %s: %v", url, err), 2)
		}
	}
	fmt.Fprintf(c.App.ErrWriter, "Removed %d texts\n", c.NArg())
	return nil
}

func runCacheClear(c *cli.Context) error {
	texts, err := requireCache(c)
	if err != nil {
		return err
	}
	if err := texts.DeleteAll(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	fmt.Fprintln(c.App.ErrWriter, "Text cache cleared")
	return nil
}
