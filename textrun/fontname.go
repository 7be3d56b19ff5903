// seehuhn.de/go/pdf2dom - convert PDF drawing events into styled box trees
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package textrun

import (
	"strings"
	"unicode"

	"github.com/xdg-go/stringprep"
)

// fontVariants maps substrings of font names to CSS font weight and style.
// The first matching entry is used.
var fontVariants = []struct {
	key, weight, style string
}{
	{"bolditalic", Bold, Italic},
	{"boldoblique", Bold, Italic},
	{"bold", Bold, Normal},
	{"italic", Normal, Italic},
	{"oblique", Normal, Italic},
	{"roman", Normal, Normal},
	{"normal", Normal, Normal},
}

// KnownFamilies lists font families which are assumed to be available in
// the browser.  Text in these fonts refers to the family name instead of
// an embedded font.
var KnownFamilies = []string{
	"Times New Roman",
	"Times",
	"Garamond",
	"Helvetica",
	"Arial Narrow",
	"Arial",
	"Verdana",
	"Courier New",
	"MS Sans Serif",
}

// foldFontName normalizes a PDF font name for substring matching.
func foldFontName(name string) string {
	folded, err := stringprep.SASLprep.Prepare(name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(folded)
}

// fontVariant guesses the CSS font weight and style from a font name.
func fontVariant(name string) (weight, style string) {
	key := foldFontName(name)
	for _, v := range fontVariants {
		if strings.Contains(key, v.key) {
			return v.weight, v.style
		}
	}
	return Normal, Normal
}

// knownFamily returns the entry of [KnownFamilies] which occurs in the
// font name, or "" if there is none.
func knownFamily(name string) string {
	key := foldFontName(name)
	for _, family := range KnownFamilies {
		if strings.Contains(key, stripSpace(strings.ToLower(family))) {
			return family
		}
	}
	return ""
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
