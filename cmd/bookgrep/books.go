package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/urfave/cli/v2"

	"github.com/altinukshini/bookgrep/internal/api"
	"github.com/altinukshini/bookgrep/internal/model"
	"github.com/altinukshini/bookgrep/internal/ops"
	"github.com/altinukshini/bookgrep/internal/pager"
	"github.com/altinukshini/bookgrep/internal/session"
)

func booksCommand() *cli.Command {
	return &cli.Command{
		Name:      "books",
		Aliases:   []string{"b"},
		Usage:     "Search the book catalog for PATTERN",
		ArgsUsage: "PATTERN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Catalog search mode: title, tc or class",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page of results to print",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "per-page",
				Usage: "Books per page (default from config)",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Only keep books whose author contains this text",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Only keep books whose title contains this text",
			},
			&cli.BoolFlag{
				Name:  "with-cover",
				Usage: "Only keep books with a cover image",
			},
			&cli.BoolFlag{
				Name:  "suggest",
				Usage: "Print suggestions related to the search instead of its results",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of suggestions (default from config)",
			},
		},
		Action: runBooks,
	}
}

func runBooks(c *cli.Context) error {
	pattern := c.Args().First()
	if pattern == "" {
		return cli.Exit("a PATTERN is required", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	mode, err := searchMode(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	// Only the catalog is needed; the session enforces the suggestion gate.
	sess := session.New(nil, api.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout.Duration), nil)
	out := sess.Send(c.Context, session.Request{
		Config: model.SearchConfig{Pattern: pattern},
		Mode:   mode,
	})
	if out.CatalogErr != nil {
		return cli.Exit(userMessage(out.CatalogErr), 2)
	}

	books := out.Books
	if c.Bool("suggest") {
		topN := c.Int("top")
		if topN <= 0 {
			topN = cfg.Catalog.Suggestions
		}
		books, err = sess.Suggestions(c.Context, topN)
		if err != nil {
			return cli.Exit(userMessage(err), 2)
		}
	}

	books = ops.FilterBooks(books, ops.BookFilter{
		Title:    c.String("title"),
		Author:   c.String("author"),
		HasCover: c.Bool("with-cover"),
	})

	perPage := c.Int("per-page")
	if perPage <= 0 {
		perPage = cfg.Search.BooksPerPage
	}
	page := pager.Clamp(c.Int("page"), len(books), perPage)

	t := term.FromEnv()
	width, _, err := t.Size()
	if err != nil || width <= 0 {
		width = 80
	}
	if err := printBooks(c.App.Writer, t.IsTerminalOutput(), width, pager.Page(books, page, perPage)); err != nil {
		return err
	}
	if total := pager.TotalPages(len(books), perPage); total > 1 {
		fmt.Fprintf(c.App.ErrWriter, "Page %d/%d (%d books)\n", page, total, len(books))
	}
	if len(books) == 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func printBooks(w io.Writer, isTTY bool, width int, books []model.Book) error {
	tp := tableprinter.New(w, isTTY, width)
	tp.AddHeader([]string{"ID", "TITLE", "AUTHOR", "TEXT"})
	for _, b := range books {
		tp.AddField(strconv.FormatInt(b.ID, 10))
		tp.AddField(b.Title)
		tp.AddField(b.Author)
		tp.AddField(b.SourceURL)
		tp.EndRow()
	}
	return tp.Render()
}
