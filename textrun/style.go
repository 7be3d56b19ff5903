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

// Package textrun groups positioned glyphs into runs of text which share
// one style.
//
// Glyphs are added in content stream order.  A new run is started whenever
// the style changes, the text direction changes, or the next glyph is not
// placed where the previous one ended.  Each finished run is handed to a
// callback together with its style and metrics.
package textrun

import (
	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/css"
)

// Font weights and styles.
const (
	Normal = "normal"
	Bold   = "bold"
	Italic = "italic"
)

// Style describes the visual appearance of a run of text.
type Style struct {
	FontFamily    string
	FontSize      float64
	FontWeight    string
	FontStyle     string
	WordSpacing   float64
	LetterSpacing float64
	Color         color.Color
	StrokeColor   color.Color

	// These fields are set when a run is finished.  They are ignored
	// by [Style.Equal].
	Left       float64
	Top        float64
	LineHeight float64
}

// NewStyle returns the style used before any text state is known.
func NewStyle() Style {
	return Style{
		FontWeight:  Normal,
		FontStyle:   Normal,
		Color:       color.Black,
		StrokeColor: color.Transparent,
	}
}

// Equal reports whether two styles render text in the same way.
// Position and line height are not compared.
func (s *Style) Equal(other *Style) bool {
	return s.FontFamily == other.FontFamily &&
		s.FontSize == other.FontSize &&
		s.FontWeight == other.FontWeight &&
		s.FontStyle == other.FontStyle &&
		s.WordSpacing == other.WordSpacing &&
		s.LetterSpacing == other.LetterSpacing &&
		s.Color == other.Color &&
		s.StrokeColor == other.StrokeColor
}

// Declarations returns the inline CSS declarations for the style.
// Declarations which match the CSS defaults are omitted.
func (s *Style) Declarations() css.Declarations {
	var d css.Declarations
	d.AddLength("top", s.Top)
	d.AddLength("left", s.Left)
	d.AddLength("line-height", s.LineHeight)
	if s.FontFamily != "" {
		d.Add("font-family", s.FontFamily)
	}
	if s.FontSize != 0 {
		d.AddLength("font-size", s.FontSize)
	}
	if s.FontWeight != "" && s.FontWeight != Normal {
		d.Add("font-weight", s.FontWeight)
	}
	if s.FontStyle != "" && s.FontStyle != Normal {
		d.Add("font-style", s.FontStyle)
	}
	if s.WordSpacing != 0 {
		d.AddLength("word-spacing", s.WordSpacing)
	}
	if s.LetterSpacing != 0 {
		d.AddLength("letter-spacing", s.LetterSpacing)
	}
	if c := s.Color.CSS(); c != color.Black.CSS() {
		d.Add("color", c)
	}
	if !s.StrokeColor.IsTransparent() {
		c := s.StrokeColor.CSS()
		d.Add("-webkit-text-stroke", c+" 1px")
		d.Add("text-shadow", "-1px -1px 0 "+c+", 1px -1px 0 "+c+", -1px 1px 0 "+c+", 1px 1px 0 "+c)
	}
	return d
}

// CSS returns the style as the value of an HTML style attribute.
func (s *Style) CSS() string {
	return s.Declarations().String()
}
