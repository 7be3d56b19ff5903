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
	"testing"

	"seehuhn.de/go/pdf2dom/color"
)

func TestStyleCSS(t *testing.T) {
	s := NewStyle()
	s.FontFamily = "Times"
	s.FontSize = 12
	s.Left = 10
	s.Top = 20.5
	s.LineHeight = 14

	want := "top:20.5pt;left:10pt;line-height:14pt;font-family:Times;font-size:12pt;"
	if got := s.CSS(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.FontWeight = Bold
	s.FontStyle = Italic
	s.Color = color.RGB(1, 0, 0)
	s.StrokeColor = color.RGB(1, 0, 1)
	want = "top:20.5pt;left:10pt;line-height:14pt;font-family:Times;font-size:12pt;" +
		"font-weight:bold;font-style:italic;color:#ff0000;" +
		"-webkit-text-stroke:#ff00ff 1px;" +
		"text-shadow:-1px -1px 0 #ff00ff, 1px -1px 0 #ff00ff, -1px 1px 0 #ff00ff, 1px 1px 0 #ff00ff;"
	if got := s.CSS(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStyleEqual(t *testing.T) {
	a := NewStyle()
	a.FontFamily = "Arial"
	b := a
	b.Left = 100
	b.Top = 7
	b.LineHeight = 3
	if !a.Equal(&b) {
		t.Error("position affects equality")
	}
	b.LetterSpacing = 1
	if a.Equal(&b) {
		t.Error("letter spacing ignored")
	}
}

func TestFontVariant(t *testing.T) {
	cases := []struct {
		name, weight, style string
	}{
		{"Helvetica", Normal, Normal},
		{"Helvetica-Bold", Bold, Normal},
		{"Helvetica-BoldOblique", Bold, Italic},
		{"TimesNewRomanPS-BoldItalicMT", Bold, Italic},
		{"Times-Italic", Normal, Italic},
		{"Times-Roman", Normal, Normal},
	}
	for _, c := range cases {
		w, s := fontVariant(c.name)
		if w != c.weight || s != c.style {
			t.Errorf("%s: got %s/%s, want %s/%s", c.name, w, s, c.weight, c.style)
		}
	}
}

func TestKnownFamily(t *testing.T) {
	cases := map[string]string{
		"TimesNewRomanPS-BoldMT": "Times New Roman",
		"Times-Roman":            "Times",
		"ArialNarrow-Bold":       "Arial Narrow",
		"Arial,Bold":             "Arial",
		"CourierNewPSMT":         "Courier New",
		"LMRoman10-Regular":      "",
	}
	for name, want := range cases {
		if got := knownFamily(name); got != want {
			t.Errorf("knownFamily(%q) = %q, want %q", name, got, want)
		}
	}
}
