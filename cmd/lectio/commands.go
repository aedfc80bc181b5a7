// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/lectio/internal/bible/reader"
	"github.com/taibuivan/lectio/internal/bible/remote"
	"github.com/taibuivan/lectio/internal/bible/share"
	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/constants"
)

// # Content

type TranslationsCmd struct{}

func (cmd *TranslationsCmd) Run(session *app) error {
	translations, err := session.client.FetchTranslations(session.ctx)
	if err != nil {
		return err
	}
	for _, translation := range translations {
		session.printf("%-10s %-8s %s\n", translation.Key(), translation.Abbreviation, translation.Name)
	}
	return nil
}

type BooksCmd struct {
	Translation string `help:"List the books a translation offers instead of the canon." short:"t"`
}

func (cmd *BooksCmd) Run(session *app) error {
	if cmd.Translation != "" {
		books, err := session.client.FetchBooks(session.ctx, cmd.Translation)
		if err != nil {
			return err
		}
		for _, book := range books {
			session.printf("%s\n", book)
		}
		return nil
	}

	for _, book := range session.lookup.Books() {
		session.printf("%-16s %-4s %3d chapters\n", book.Name, book.Testament, book.Chapters)
	}
	return nil
}

type ChaptersCmd struct {
	Book string `arg:"" help:"Book name, abbreviation or alias."`
}

func (cmd *ChaptersCmd) Run(session *app) error {
	chapters := session.lookup.ChaptersForName(cmd.Book)
	if len(chapters) == 0 {
		return fmt.Errorf("unknown book %q", cmd.Book)
	}

	numbers := make([]string, len(chapters))
	for i, chapter := range chapters {
		numbers[i] = strconv.Itoa(chapter)
	}
	session.printf("%s\n", strings.Join(numbers, " "))
	return nil
}

type WarmCmd struct {
	Book        string `arg:"" help:"Book to prefetch."`
	Translation string `help:"Translation to prefetch (defaults to the current one)." short:"t"`
	Concurrency int    `help:"Parallel chapter requests." default:"4"`
}

func (cmd *WarmCmd) Run(session *app) error {
	index, found := session.lookup.BookIndex(cmd.Book)
	if !found {
		return fmt.Errorf("unknown book %q", cmd.Book)
	}
	book, _ := session.lookup.Book(index)

	translation := cmd.Translation
	if translation == "" {
		if err := session.restore(); err != nil {
			return err
		}
		translation = session.reader.Snapshot().Translation
	}

	chapters := session.lookup.ChaptersFor(index)
	if err := session.client.WarmBook(session.ctx, translation, book.Name, chapters, cmd.Concurrency); err != nil {
		return err
	}
	session.printf("Cached %d chapters of %s (%s).\n", len(chapters), book.Name, translation)
	return nil
}

// # Reading

type ReadCmd struct {
	Book        string `arg:"" optional:"" help:"Book to open."`
	Chapter     int    `arg:"" optional:"" help:"Chapter to open (defaults to 1)."`
	Translation string `help:"Switch translation before reading." short:"t"`
}

func (cmd *ReadCmd) Run(session *app) error {
	pending, err := session.reader.Restore(session.ctx)
	if err != nil {
		return err
	}

	if cmd.Translation != "" {
		if pending, err = session.reader.SelectTranslation(session.ctx, cmd.Translation); err != nil {
			return err
		}
	}

	if cmd.Book != "" {
		if err := session.reader.SelectBook(session.ctx, cmd.Book); err != nil {
			return err
		}
		if pending, err = session.reader.SelectChapter(session.ctx, max(cmd.Chapter, 1)); err != nil {
			return err
		}
	}

	if err := session.settle(pending, nil); err != nil {
		return err
	}
	session.printChapter()
	return nil
}

type NextCmd struct{}

func (cmd *NextCmd) Run(session *app) error {
	if err := session.restore(); err != nil {
		return err
	}
	if err := session.settle(session.reader.NextChapter(session.ctx)); err != nil {
		return err
	}
	session.printChapter()
	return nil
}

type PrevCmd struct{}

func (cmd *PrevCmd) Run(session *app) error {
	if err := session.restore(); err != nil {
		return err
	}
	if err := session.settle(session.reader.PreviousChapter(session.ctx)); err != nil {
		return err
	}
	session.printChapter()
	return nil
}

type SearchCmd struct {
	Query []string `arg:"" help:"Words to look for."`
}

func (cmd *SearchCmd) Run(session *app) error {
	view, err := session.loaded()
	if err != nil {
		return err
	}

	results := session.reader.Search(strings.Join(cmd.Query, " "))
	if len(results) == 0 {
		session.printf("No matches in %s %d.\n", view.Book, view.Chapter)
		return nil
	}
	for _, verse := range results {
		session.printf("%s  %s\n", structure.FormatReference(view.Book, view.Chapter, verse.Verse), remote.PlainText(verse.Text))
	}
	return nil
}

// # Bookmarks

type BookmarkCmd struct {
	Add    BookmarkAddCmd    `cmd:"" help:"Bookmark a verse of the open chapter."`
	List   BookmarkListCmd   `cmd:"" default:"1" help:"List bookmarks."`
	Remove BookmarkRemoveCmd `cmd:"" help:"Delete a bookmark."`
	Open   BookmarkOpenCmd   `cmd:"" help:"Open the chapter of a bookmark."`
}

type BookmarkAddCmd struct {
	Verse int    `arg:"" help:"Verse number."`
	Note  string `help:"Optional note." short:"n"`
}

func (cmd *BookmarkAddCmd) Run(session *app) error {
	if _, err := session.loaded(); err != nil {
		return err
	}

	bookmark, err := session.reader.AddBookmark(session.ctx, cmd.Verse, cmd.Note)
	if err != nil {
		return err
	}
	session.printf("Bookmarked %s [%s]\n", structure.FormatReference(bookmark.Book, bookmark.Chapter, bookmark.Verse), bookmark.ID)
	return nil
}

type BookmarkListCmd struct{}

func (cmd *BookmarkListCmd) Run(session *app) error {
	bookmarks := session.reader.Bookmarks(session.ctx)
	if len(bookmarks) == 0 {
		session.printf("No bookmarks.\n")
		return nil
	}
	for _, bookmark := range bookmarks {
		session.printf("%s  %-20s %-6s %s  %s\n",
			bookmark.ID,
			structure.FormatReference(bookmark.Book, bookmark.Chapter, bookmark.Verse),
			bookmark.Translation,
			time.UnixMilli(bookmark.Timestamp).Format(time.DateOnly),
			bookmark.Note,
		)
	}
	return nil
}

type BookmarkRemoveCmd struct {
	ID string `arg:"" help:"Bookmark id."`
}

func (cmd *BookmarkRemoveCmd) Run(session *app) error {
	if !session.reader.RemoveBookmark(session.ctx, cmd.ID) {
		return reader.ErrBookmarkNotFound
	}
	session.printf("Removed bookmark %s.\n", cmd.ID)
	return nil
}

type BookmarkOpenCmd struct {
	ID string `arg:"" help:"Bookmark id."`
}

func (cmd *BookmarkOpenCmd) Run(session *app) error {
	if err := session.settle(session.reader.OpenBookmark(session.ctx, cmd.ID)); err != nil {
		return err
	}
	session.printChapter()
	return nil
}

// # Highlights

type HighlightCmd struct {
	Add    HighlightAddCmd    `cmd:"" help:"Highlight a verse of the open chapter."`
	List   HighlightListCmd   `cmd:"" default:"1" help:"List highlights."`
	Remove HighlightRemoveCmd `cmd:"" help:"Delete a highlight."`
}

type HighlightAddCmd struct {
	Verse int    `arg:"" help:"Verse number."`
	Color string `help:"Hex color (defaults to the highlight color setting)." short:"c"`
	Note  string `help:"Optional note." short:"n"`
}

func (cmd *HighlightAddCmd) Run(session *app) error {
	view, err := session.loaded()
	if err != nil {
		return err
	}

	verse, found := session.reader.Verse(cmd.Verse)
	if !found {
		return fmt.Errorf("verse %d is not part of %s %d", cmd.Verse, view.Book, view.Chapter)
	}

	color := cmd.Color
	if color == "" {
		color = session.reader.Settings(session.ctx).HighlightColor
	}

	selection := reader.Selection{VerseID: verse.ID, Text: remote.PlainText(verse.Text)}
	highlight, applied, err := session.reader.AddHighlight(session.ctx, selection, color, cmd.Note)
	if err != nil {
		return err
	}
	if !applied {
		return errors.New("nothing to highlight")
	}
	session.printf("Highlighted %s in %s [%s]\n", structure.FormatReference(view.Book, view.Chapter, verse.Verse), highlight.Color, highlight.ID)
	return nil
}

type HighlightListCmd struct{}

func (cmd *HighlightListCmd) Run(session *app) error {
	highlights := session.reader.Highlights(session.ctx)
	if len(highlights) == 0 {
		session.printf("No highlights.\n")
		return nil
	}
	for _, highlight := range highlights {
		session.printf("%s  %-24s %s  %s\n", highlight.ID, highlight.VerseID, highlight.Color, highlight.Note)
	}
	return nil
}

type HighlightRemoveCmd struct {
	ID string `arg:"" help:"Highlight id."`
}

func (cmd *HighlightRemoveCmd) Run(session *app) error {
	if !session.reader.RemoveHighlight(session.ctx, cmd.ID) {
		return fmt.Errorf("highlight %s not found", cmd.ID)
	}
	session.printf("Removed highlight %s.\n", cmd.ID)
	return nil
}

// # Settings

type SettingsCmd struct {
	Show  SettingsShowCmd  `cmd:"" default:"1" help:"Print the current settings."`
	Set   SettingsSetCmd   `cmd:"" help:"Change one setting."`
	Reset SettingsResetCmd `cmd:"" help:"Restore the default settings."`
}

type SettingsShowCmd struct{}

func (cmd *SettingsShowCmd) Run(session *app) error {
	settings := session.reader.Settings(session.ctx)
	session.printf("font-size         %d\n", settings.FontSize)
	session.printf("font-family       %s\n", settings.FontFamily)
	session.printf("line-height       %.1f\n", settings.LineHeight)
	session.printf("theme             %s\n", settings.Theme)
	session.printf("highlight-color   %s\n", settings.HighlightColor)
	session.printf("verse-numbers     %t\n", settings.ShowVerseNumbers)
	session.printf("column-layout     %t\n", settings.ColumnLayout)
	session.printf("fullscreen        %t\n", settings.Fullscreen)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" enum:"font-size,font-family,line-height,theme,highlight-color,verse-numbers,column-layout,fullscreen" help:"Setting name."`
	Value string `arg:"" help:"New value."`
}

func (cmd *SettingsSetCmd) Run(session *app) error {
	settings := session.reader.Settings(session.ctx)

	var err error
	switch cmd.Key {
	case "font-size":
		settings.FontSize, err = strconv.Atoi(cmd.Value)
	case "font-family":
		settings.FontFamily = cmd.Value
	case "line-height":
		settings.LineHeight, err = strconv.ParseFloat(cmd.Value, 64)
	case "theme":
		settings.Theme = reader.Theme(cmd.Value)
	case "highlight-color":
		settings.HighlightColor = cmd.Value
	case "verse-numbers":
		settings.ShowVerseNumbers, err = strconv.ParseBool(cmd.Value)
	case "column-layout":
		settings.ColumnLayout, err = strconv.ParseBool(cmd.Value)
	case "fullscreen":
		settings.Fullscreen, err = strconv.ParseBool(cmd.Value)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", cmd.Key, err)
	}

	if err := session.reader.UpdateSettings(session.ctx, settings); err != nil {
		return err
	}
	session.printf("%s = %s\n", cmd.Key, cmd.Value)
	return nil
}

type SettingsResetCmd struct{}

func (cmd *SettingsResetCmd) Run(session *app) error {
	if err := session.reader.UpdateSettings(session.ctx, reader.DefaultSettings()); err != nil {
		return err
	}
	session.printf("Settings restored to defaults.\n")
	return nil
}

// # Devotion

type DailyCmd struct {
	Date string `help:"Date as YYYY-MM-DD (defaults to today)."`
}

func (cmd *DailyCmd) Run(session *app) error {
	date := session.clock()
	if cmd.Date != "" {
		parsed, err := time.Parse(time.DateOnly, cmd.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", cmd.Date, err)
		}
		date = parsed
	}

	verse := session.feed.Today(session.ctx, date)
	session.printf("%q\n%s\n", verse.Text, verse.Reference)
	if verse.Theme != "" {
		session.printf("Theme: %s\n", verse.Theme)
	}
	return nil
}

type PlanCmd struct {
	Day string `arg:"" optional:"" default:"today" help:"Plan day (1-365) or \"today\"."`
}

func (cmd *PlanCmd) Run(session *app) error {
	day := min(session.clock().YearDay(), 365)
	if cmd.Day != "today" {
		parsed, err := strconv.Atoi(cmd.Day)
		if err != nil {
			return fmt.Errorf("invalid day %q", cmd.Day)
		}
		day = parsed
	}

	planDay, err := session.plan.Day(day)
	if err != nil {
		return err
	}
	session.printf("Day %d (%s): %s\n", planDay.Day, planDay.Section, strings.Join(planDay.Passages, "; "))
	return nil
}

// # Share

type ShareCmd struct {
	Verse int `arg:"" help:"Verse number of the open chapter."`
}

func (cmd *ShareCmd) Run(session *app) error {
	if _, err := session.loaded(); err != nil {
		return err
	}

	payload, err := share.PayloadFor(session.reader, cmd.Verse)
	if err != nil {
		return err
	}

	result, err := session.cascade.Share(session.ctx, payload)
	if err != nil {
		return err
	}
	if result.Mechanism != share.NameClipboard {
		session.printf("Shared %s via %s.\n", payload.Reference, result.Mechanism)
	}
	return nil
}

// # Cache

type CacheCmd struct {
	Stats CacheStatsCmd `cmd:"" default:"1" help:"Show cache statistics."`
	Clear CacheClearCmd `cmd:"" help:"Drop every cached response."`
}

type CacheStatsCmd struct{}

func (cmd *CacheStatsCmd) Run(session *app) error {
	keys, err := session.store.Keys(session.ctx, constants.CacheKeyPrefix)
	if err != nil {
		return err
	}
	session.printf("cached responses  %d\n", len(keys))
	session.printf("structure entries %d\n", session.warmStore.Len())
	session.printf("ttl               %s\n", session.responses.TTL())
	return nil
}

type CacheClearCmd struct{}

func (cmd *CacheClearCmd) Run(session *app) error {
	removed := session.responses.Purge(session.ctx) + session.warmStore.Len()
	session.warmStore.Clear(session.ctx)
	session.printf("Removed %d cache entries.\n", removed)
	return nil
}

// # Export

type ExportCmd struct {
	Format string `enum:"json,yaml" default:"json" help:"Output format (json or yaml)." short:"f"`
	Output string `help:"Write to a file instead of stdout." short:"o" type:"path"`
}

func (cmd *ExportCmd) Run(session *app) error {
	data, err := reader.MarshalExport(session.reader.Export(session.ctx), cmd.Format)
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		session.printf("%s\n", data)
		return nil
	}
	if err := os.WriteFile(cmd.Output, data, 0o644); err != nil {
		return err
	}
	session.printf("Exported to %s.\n", cmd.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" type:"existingfile" help:"Export file to import."`
	Format string `enum:"json,yaml" default:"json" help:"Input format (json or yaml)." short:"f"`
}

func (cmd *ImportCmd) Run(session *app) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	export, err := reader.UnmarshalExport(data, cmd.Format)
	if err != nil {
		return err
	}
	if err := session.reader.ImportExport(session.ctx, export); err != nil {
		return err
	}
	session.printf("Imported %d bookmarks and %d highlights.\n", len(export.Bookmarks), len(export.Highlights))
	return nil
}
