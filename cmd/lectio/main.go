// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command lectio is the terminal client of the Bible reader.
//
// It shares configuration and storage with the API server: the same STORAGE_BACKEND
// holds the reading position, settings and annotations, so a chapter opened here is
// where the next session resumes. Logs go to stderr; results go to stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/taibuivan/lectio/internal/platform/config"
	"github.com/taibuivan/lectio/internal/platform/constants"
)

// CLI is the command tree.
type CLI struct {
	Translations TranslationsCmd `cmd:"" help:"List the translations offered by the content service."`
	Books        BooksCmd        `cmd:"" help:"List the books of the canon or of a translation."`
	Chapters     ChaptersCmd     `cmd:"" help:"List the chapter numbers of a book."`
	Read         ReadCmd         `cmd:"" help:"Open a chapter, or reopen the last one."`
	Next         NextCmd         `cmd:"" help:"Open the next chapter of the current book."`
	Prev         PrevCmd         `cmd:"" help:"Open the previous chapter of the current book."`
	Search       SearchCmd       `cmd:"" help:"Search the open chapter."`
	Bookmark     BookmarkCmd     `cmd:"" help:"Manage bookmarks."`
	Highlight    HighlightCmd    `cmd:"" help:"Manage highlights."`
	Settings     SettingsCmd     `cmd:"" help:"Show or change reading settings."`
	Daily        DailyCmd        `cmd:"" help:"Show the verse of the day."`
	Plan         PlanCmd         `cmd:"" help:"Show the chapters of a reading plan day."`
	Share        ShareCmd        `cmd:"" help:"Share a verse of the open chapter."`
	Warm         WarmCmd         `cmd:"" help:"Prefetch every chapter of a book."`
	Cache        CacheCmd        `cmd:"" help:"Inspect or clear the content cache."`
	Export       ExportCmd       `cmd:"" help:"Export settings and annotations."`
	Import       ImportCmd       `cmd:"" help:"Import settings and annotations."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	session, err := newApp(ctx, cfg, os.Stdout, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := run(os.Args[1:], session, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		session.Close()
		os.Exit(1)
	}
}

// run parses args and executes the selected command against session.
func run(args []string, session *app, out io.Writer) error {
	parser, err := kong.New(&CLI{},
		kong.Name(constants.AppName),
		kong.Description("Read, annotate and share the Bible from the terminal."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(out, out),
		kong.Bind(session),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run()
}
