// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"github.com/taibuivan/lectio/internal/platform/validate"
)

// Theme is the color scheme of the reading view.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeSepia Theme = "sepia"
)

// FontFamilies lists the accepted font family identifiers.
var FontFamilies = []string{
	"inter", "georgia", "times", "arial", "helvetica",
	"roboto", "opensans", "lato", "merriweather", "playfair",
}

// Bounds of the numeric settings.
const (
	MinFontSize   = 12
	MaxFontSize   = 32
	MinLineHeight = 1.2
	MaxLineHeight = 2.5
)

// Settings holds the presentation preferences of a reader.
type Settings struct {
	FontSize         int     `json:"fontSize" yaml:"fontSize"`
	FontFamily       string  `json:"fontFamily" yaml:"fontFamily"`
	LineHeight       float64 `json:"lineHeight" yaml:"lineHeight"`
	Theme            Theme   `json:"theme" yaml:"theme"`
	HighlightColor   string  `json:"highlightColor" yaml:"highlightColor"`
	ShowVerseNumbers bool    `json:"showVerseNumbers" yaml:"showVerseNumbers"`
	ColumnLayout     bool    `json:"columnLayout" yaml:"columnLayout"`
	Fullscreen       bool    `json:"fullscreen" yaml:"fullscreen"`
}

// DefaultSettings returns the settings of a fresh reader.
func DefaultSettings() Settings {
	return Settings{
		FontSize:         18,
		FontFamily:       "inter",
		LineHeight:       1.6,
		Theme:            ThemeLight,
		HighlightColor:   "#ffeb3b",
		ShowVerseNumbers: true,
	}
}

// Validate reports every out-of-range field as a VALIDATION_ERROR.
func (settings Settings) Validate() error {
	validator := &validate.Validator{}

	validator.
		Range("fontSize", settings.FontSize, MinFontSize, MaxFontSize).
		FloatRange("lineHeight", settings.LineHeight, MinLineHeight, MaxLineHeight).
		OneOf("theme", string(settings.Theme), string(ThemeLight), string(ThemeDark), string(ThemeSepia)).
		OneOf("fontFamily", settings.FontFamily, FontFamilies...).
		HexColor("highlightColor", settings.HighlightColor)

	return validator.Err()
}
