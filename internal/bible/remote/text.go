// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText strips inline markup from verse text. Footnote markers inside <sup> and
// <note> elements are dropped, entities are decoded and whitespace is collapsed.
func PlainText(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return strings.Join(strings.Fields(text), " ")
	}

	tokenizer := html.NewTokenizer(strings.NewReader(text))

	var builder strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(builder.String()), " ")

		case html.StartTagToken:
			token := tokenizer.Token()
			if skipped(token) {
				skipDepth++
			} else if token.DataAtom == atom.Br {
				builder.WriteByte(' ')
			}

		case html.EndTagToken:
			if skipDepth > 0 && skipped(tokenizer.Token()) {
				skipDepth--
			}

		case html.SelfClosingTagToken:
			// <br/> separates words
			builder.WriteByte(' ')

		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
			}
		}
	}
}

func skipped(token html.Token) bool {
	return token.DataAtom == atom.Sup || token.Data == "note"
}

// Plain returns a copy of verses with markup stripped from every text.
func Plain(verses []Verse) []Verse {
	plain := make([]Verse, len(verses))
	for i, verse := range verses {
		verse.Text = PlainText(verse.Text)
		plain[i] = verse
	}
	return plain
}
