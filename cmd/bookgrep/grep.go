package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/bookgrep/internal/api"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/ops"
	"github.com/altinukshini/bookgrep/internal/search"
	"github.com/altinukshini/bookgrep/internal/ui"
)

func grepCommand() *cli.Command {
	return &cli.Command{
		Name:      "grep",
		Aliases:   []string{"g"},
		Usage:     "Print the lines of one or more texts that match PATTERN",
		ArgsUsage: "PATTERN",
		Flags: append(searchFlags(),
			&cli.StringSliceFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Text to fetch and search (repeatable)",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Local file to search (default: standard input)",
			},
			&cli.BoolFlag{
				Name:  "count",
				Usage: "Only print the number of matched lines per text",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print line, match and occurrence totals to stderr",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Highlight matches: auto, always or never",
				Value: "auto",
			},
		),
		Action: runGrep,
	}
}

// grepPrinter writes matched lines in "[source:]line:text" form.
type grepPrinter struct {
	w      io.Writer
	color  bool
	count  bool
	prefix bool
}

func (p grepPrinter) print(source string, res *model.SearchResults) {
	lead := ""
	if p.prefix {
		lead = source + ":"
	}
	if p.count {
		fmt.Fprintf(p.w, "%s%d\n", lead, res.Stats.MatchedLines)
		return
	}
	for _, line := range res.Lines {
		text := line.Text()
		if p.color {
			text = ui.RenderSegments(line.Segments, ui.StyleMatch)
		}
		fmt.Fprintf(p.w, "%s%d:%s\n", lead, line.Number, text)
	}
}

func useColor(mode string) (bool, error) {
	switch mode {
	case "always":
		// Piped output has no detectable color support.
		lipgloss.SetColorProfile(termenv.ANSI256)
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		return term.FromEnv().IsTerminalOutput(), nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
}

func runGrep(c *cli.Context) error {
	pattern := c.Args().First()
	if pattern == "" {
		return cli.Exit("a PATTERN is required", 2)
	}
	color, err := useColor(c.String("color"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	cfg := model.SearchConfig{
		Pattern:       pattern,
		CaseSensitive: c.Bool("case-sensitive"),
		WholeLine:     c.Bool("whole-line"),
	}
	urls := c.StringSlice("url")
	printer := grepPrinter{w: c.App.Writer, color: color, count: c.Bool("count"), prefix: len(urls) > 1}

	var stats model.SearchStats
	if len(urls) > 0 {
		appCfg, err := loadConfig(c)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		fetcher := cachedFetcher{
			fetcher: api.NewFetcher(appCfg.Catalog.Timeout.Duration),
			texts:   openCache(c, appCfg),
		}
		batch, err := ops.BatchGrep(c.Context, fetcher, urls, cfg, nil)
		if err != nil {
			return grepError(err)
		}
		for _, src := range batch.Sources {
			if src.Err != nil {
				fmt.Fprintf(c.App.ErrWriter, "bookgrep: %s: %s\n", src.URL, userMessage(src.Err))
				continue
			}
			printer.print(src.URL, src.Results)
		}
		if batch.Completed == 0 {
			return cli.Exit("", 2)
		}
		stats = batch.Stats
	} else {
		text, err := readInput(c.String("file"), os.Stdin)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		res, err := search.New().Search(text, cfg)
		if err != nil {
			return grepError(err)
		}
		printer.print(c.String("file"), res)
		stats = res.Stats
	}

	if c.Bool("stats") {
		fmt.Fprintf(c.App.ErrWriter, "%d lines, %d matched, %d occurrences\n",
			stats.TotalLines, stats.MatchedLines, stats.TotalOccurrences)
	}
	if stats.MatchedLines == 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func grepError(err error) error {
	var invalid *search.InvalidPatternError
	if errors.As(err, &invalid) {
		return cli.Exit(fmt.Sprintf("invalid pattern: %v", invalid.Err), 2)
	}
	return cli.Exit(err.Error(), 2)
}

// userMessage prefers the friendly text carried by api errors.
func userMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
