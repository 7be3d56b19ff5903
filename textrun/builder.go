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
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/fonttable"
)

// Glyph is a single positioned glyph, in output coordinates.
type Glyph struct {
	X, Y   float64 // origin of the glyph; Y is the baseline
	Width  float64
	Height float64
	Text   string

	Font       fonttable.Identity
	Descriptor fonttable.Descriptor
	FontSize   float64 // font size in points

	// Scale is the vertical size used to convert the font metrics.
	// If zero, FontSize is used.
	Scale float64

	// Diacritic is set for glyphs which are meant to be combined with
	// the following glyph.
	Diacritic bool
}

func (g *Glyph) scale() float64 {
	if g.Scale != 0 {
		return g.Scale
	}
	return g.FontSize
}

// RenderingMode is a PDF text rendering mode (the Tr operator).
type RenderingMode int

// Fills reports whether glyphs are filled in this mode.
func (m RenderingMode) Fills() bool {
	switch m {
	case 0, 2, 4, 6:
		return true
	}
	return false
}

// Strokes reports whether glyph outlines are stroked in this mode.
func (m RenderingMode) Strokes() bool {
	switch m {
	case 1, 2, 5, 6:
		return true
	}
	return false
}

// State is the part of the graphics state which affects text styling.
// Lengths are in output units.
type State struct {
	FillColor     color.Color
	StrokeColor   color.Color
	RenderingMode RenderingMode
	WordSpacing   float64
	LetterSpacing float64
}

// Thresholds control when consecutive glyphs are placed in separate runs.
type Thresholds struct {
	// GapMax is the largest horizontal gap between two glyphs which
	// still joins them into one run.
	GapMax float64

	// GapMin is the most negative horizontal gap (i.e. overlap) which
	// still joins two glyphs.
	GapMin float64

	// BaselineMax is the largest baseline difference within a run.
	BaselineMax float64
}

// DefaultThresholds are the thresholds used by [NewBuilder].
var DefaultThresholds = Thresholds{
	GapMax:      1,
	GapMin:      -6,
	BaselineMax: 1,
}

// Run is a finished run of text.
type Run struct {
	Text    string
	Style   Style
	Metrics Metrics
}

// FontResolver maps fonts to the family names used in the output.
// This is implemented by [fonttable.Table].
type FontResolver interface {
	Resolve(id fonttable.Identity) (string, bool)
}

// Builder collects glyphs into runs.
// A Builder is not safe for concurrent use.
type Builder struct {
	Thresholds Thresholds

	emit  func(*Run)
	fonts FontResolver

	pending Style
	run     *Run
	metrics *Metrics
	text    strings.Builder

	last      Glyph
	lastRTL   bool
	diacritic *Glyph
}

// NewBuilder creates a new Builder.  Finished runs are passed to emit.
// The font resolver may be nil.
func NewBuilder(emit func(*Run), fonts FontResolver) *Builder {
	return &Builder{
		Thresholds: DefaultThresholds,
		emit:       emit,
		fonts:      fonts,
		pending:    NewStyle(),
	}
}

// Add processes the next glyph.  The state st describes the graphics
// state at the time the glyph is drawn.
func (b *Builder) Add(g Glyph, st *State) {
	if g.Diacritic {
		b.diacritic = &g
		return
	}
	if strings.TrimSpace(g.Text) == "" {
		return
	}
	if b.diacritic != nil {
		g.Text = mergeDiacritic(g.Text, b.diacritic.Text)
		b.diacritic = nil
	}

	b.updateStyle(&g, st)
	rtl := isRTL(g.Text)

	split := b.run == nil
	if !split {
		t := &b.Thresholds
		gap := g.X - (b.last.X + b.last.Width)
		dy := g.Y - b.last.Y
		split = gap > t.GapMax || gap < t.GapMin ||
			math.Abs(dy) > t.BaselineMax ||
			rtl != b.lastRTL ||
			!b.pending.Equal(&b.run.Style)
	}

	if split {
		b.finish()
		b.run = &Run{Style: b.pending}
		b.metrics = newMetrics(&g)
	} else {
		b.metrics.add(&g)
	}
	b.text.WriteString(g.Text)
	b.last = g
	b.lastRTL = rtl
}

// Flush finishes the current run, if any.  This must be called at the end
// of every page.
func (b *Builder) Flush() {
	if b.diacritic != nil && b.run != nil {
		b.text.WriteString(b.diacritic.Text)
	}
	b.diacritic = nil
	b.finish()
	b.last = Glyph{}
	b.lastRTL = false
}

func (b *Builder) finish() {
	run := b.run
	if run == nil {
		return
	}
	b.run = nil

	text := b.text.String()
	b.text.Reset()
	if text == "" {
		return
	}
	if isRTL(text) {
		text = reverseClusters(text)
	}

	run.Text = text
	run.Metrics = *b.metrics
	run.Style.Left = b.metrics.X
	run.Style.Top = b.metrics.Top()
	run.Style.LineHeight = b.metrics.LineHeight()
	b.metrics = nil

	if b.emit != nil {
		b.emit(run)
	}
}

func (b *Builder) updateStyle(g *Glyph, st *State) {
	s := &b.pending
	s.FontSize = g.FontSize

	if name := g.Font.Name; name != "" {
		s.FontWeight, s.FontStyle = fontVariant(name)
		s.FontFamily = b.family(g.Font)
	}

	if st == nil {
		return
	}
	s.WordSpacing = st.WordSpacing
	s.LetterSpacing = st.LetterSpacing
	if st.RenderingMode.Fills() {
		s.Color = st.FillColor
	} else {
		s.Color = color.Transparent
	}
	if st.RenderingMode.Strokes() {
		s.StrokeColor = st.StrokeColor
	} else {
		s.StrokeColor = color.Transparent
	}
}

// family returns the CSS font family for the given font.
func (b *Builder) family(id fonttable.Identity) string {
	if f := knownFamily(id.Name); f != "" {
		return f
	}
	if b.fonts != nil {
		if alias, ok := b.fonts.Resolve(id); ok {
			return alias
		}
	}
	return id.Name
}

// isRTL reports whether the first character of s belongs to a
// right-to-left script.
func isRTL(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.R, bidi.AL, bidi.RLE, bidi.RLO:
		return true
	}
	return false
}

// reverseClusters reverses the order of the characters in s.  Combining
// marks stay attached to their base character.
func reverseClusters(s string) string {
	var clusters [][]rune
	for _, r := range s {
		if len(clusters) > 0 && unicode.Is(unicode.Mn, r) {
			last := len(clusters) - 1
			clusters[last] = append(clusters[last], r)
			continue
		}
		clusters = append(clusters, []rune{r})
	}
	slices.Reverse(clusters)

	var out strings.Builder
	out.Grow(len(s))
	for _, c := range clusters {
		for _, r := range c {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// combiningMarks maps spacing diacritics to the corresponding combining
// characters.
var combiningMarks = map[rune]rune{
	'\u00b4': '\u0301', // acute
	'`':      '\u0300', // grave
	'\u00a8': '\u0308', // diaeresis
	'^':      '\u0302', // circumflex
	'\u02c6': '\u0302', // modifier circumflex
	'~':      '\u0303', // tilde
	'\u02dc': '\u0303', // small tilde
	'\u00b8': '\u0327', // cedilla
	'\u02c7': '\u030c', // caron
	'\u02d8': '\u0306', // breve
	'\u02d9': '\u0307', // dot above
	'\u02da': '\u030a', // ring above
	'\u02dd': '\u030b', // double acute
	'\u02db': '\u0328', // ogonek
	'\u00af': '\u0304', // macron
}

// mergeDiacritic combines a base character with a diacritic and returns
// the composed form, where one exists.
func mergeDiacritic(base, dia string) string {
	var marks strings.Builder
	for _, r := range dia {
		if m, ok := combiningMarks[r]; ok {
			r = m
		}
		if unicode.IsSpace(r) {
			continue
		}
		marks.WriteRune(r)
	}
	return norm.NFC.String(base + marks.String())
}
