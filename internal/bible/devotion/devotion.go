// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package devotion provides daily reading aids: a verse of the day and a one-year
reading plan over the whole canon.

The verse of the day rotates through a fixed list by day of year. When a feed URL is
configured, [FeedSource] prefers the first entry of that feed and falls back to the
rotation on any failure.
*/
package devotion

import (
	"time"
)

// Sources of a daily verse.
const (
	SourceRotation = "rotation"
	SourceFeed     = "feed"
)

// Verse is a verse of the day.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Theme     string `json:"theme,omitempty"`
	Date      string `json:"date"`
	Source    string `json:"source"`
}

var rotation = []Verse{
	{
		Reference: "Jeremiah 29:11",
		Text:      "For I know the plans I have for you, declares the Lord, plans to prosper you and not to harm you, to give you hope and a future.",
		Theme:     "Hope & Future",
	},
	{
		Reference: "Proverbs 3:5-6",
		Text:      "Trust in the Lord with all your heart and lean not on your own understanding; in all your ways submit to him, and he will make your paths straight.",
		Theme:     "Trust & Guidance",
	},
	{
		Reference: "Romans 8:28",
		Text:      "And we know that in all things God works for the good of those who love him, who have been called according to his purpose.",
		Theme:     "God's Purpose",
	},
	{
		Reference: "Joshua 1:9",
		Text:      "Be strong and courageous. Do not be afraid; do not be discouraged, for the Lord your God will be with you wherever you go.",
		Theme:     "Strength & Courage",
	},
	{
		Reference: "Psalms 23:1-3",
		Text:      "The Lord is my shepherd, I lack nothing. He makes me lie down in green pastures, he leads me beside quiet waters, he refreshes my soul.",
		Theme:     "Peace & Rest",
	},
}

// DailyVerse returns the rotation verse for a date: day of year modulo the list length.
func DailyVerse(date time.Time) Verse {
	verse := rotation[date.YearDay()%len(rotation)]
	verse.Date = date.Format(time.DateOnly)
	verse.Source = SourceRotation
	return verse
}
