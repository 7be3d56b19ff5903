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


// Package cssbox builds layout boxes for a CSS layout engine.
//
// The [Builder] receives the same content as [boxtree.Builder], but instead
// of an HTML document it produces a flat list of absolutely positioned
// boxes per page.  Each box carries its bounding rectangle in output
// coordinates together with the CSS declarations which a renderer needs to
// style it.
package cssbox

import (
	"cmp"
	"log/slog"
	"strings"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/boxtree"
	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/css"
	"seehuhn.de/go/pdf2dom/fonttable"
	"seehuhn.de/go/pdf2dom/resource"
	"seehuhn.de/go/pdf2dom/shape"
	"seehuhn.de/go/pdf2dom/textrun"
	"seehuhn.de/go/pdf2dom/transform"
)

// UnknownFontScale is applied to the width of text boxes whose font is
// neither embedded nor one of [textrun.KnownFamilies].  The fallback font
// chosen by the layout engine is usually wider than the original.
const UnknownFontScale = 0.95

// Box is a positioned box on a page.
//
// Bounds uses output coordinates, with y growing downwards: LLy is the top
// edge and URy the bottom edge of the box.
type Box struct {
	ID     int
	Kind   boxtree.Kind
	Bounds rect.Rect
	Style  css.Declarations

	Text  string             // for boxtree.KindText
	Image *resource.Resource // for boxtree.KindImage, may be nil

	family string
}

// Page holds the boxes of one page, in content stream order.
type Page struct {
	ID            int
	Width, Height float64 // zero if the page geometry is unknown
	Boxes         []*Box
}

// Builder collects boxes.
// A Builder is not safe for concurrent use.
type Builder struct {
	// Logger receives warnings.  If this is nil, warnings are discarded.
	Logger *slog.Logger

	Title string
	Pages []*Page

	page  *Page
	order int
}

// NewBuilder allocates a new Builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{Logger: logger}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// WantFonts always returns true: the font table is needed to decide which
// text boxes use an unknown font.
func (b *Builder) WantFonts() bool {
	return true
}

// StartDocument discards all previous output.
func (b *Builder) StartDocument() {
	b.Title = boxtree.DefaultTitle
	b.Pages = nil
	b.page = nil
	b.order = 0
}

func (b *Builder) nextOrder() int {
	b.order++
	return b.order
}

// StartPage starts a new page.
func (b *Builder) StartPage(geom *transform.Geometry) {
	b.FinishPage()
	p := &Page{ID: b.nextOrder()}
	if !geom.IsZero() {
		p.Width, p.Height = geom.Size()
	} else {
		b.logger().Warn("no page geometry", "page", len(b.Pages))
	}
	b.page = p
	b.Pages = append(b.Pages, p)
}

// FinishPage closes the current page.
func (b *Builder) FinishPage() {
	b.page = nil
}

func (b *Builder) add(box *Box) {
	if b.page == nil {
		b.logger().Warn("content outside of page", "kind", box.Kind)
		return
	}
	box.ID = b.nextOrder()
	b.page.Boxes = append(b.page.Boxes, box)
}

// AddText adds a text box.  The width of the box is finalized in
// [Builder.FinishDocument], once all fonts are known.
func (b *Builder) AddText(run *textrun.Run) {
	left, top := run.Style.Left, run.Style.Top
	b.add(&Box{
		Kind: boxtree.KindText,
		Bounds: rect.Rect{
			LLx: left,
			LLy: top,
			URx: left + run.Metrics.Width,
			URy: top + run.Style.LineHeight,
		},
		Style:  run.Style.Declarations(),
		Text:   run.Text,
		family: run.Style.FontFamily,
	})
}

// AddRectangle adds a rectangle.
func (b *Builder) AddRectangle(r *shape.Rectangle, fill, stroke color.Color) {
	left, top, w, h := r.Box()
	b.add(&Box{
		Kind:   boxtree.KindRect,
		Bounds: rect.Rect{LLx: left, LLy: top, URx: left + w, URy: top + h},
		Style:  boxtree.RectangleStyle(r, fill, stroke),
	})
}

// AddLine adds a line.
func (b *Builder) AddLine(l *shape.Line, stroke color.Color) {
	dl := boxtree.NewDivLine(l)
	bounds := l.Bounds()
	half := dl.StrokeWidth() / 2
	if bounds.Dx() < bounds.Dy() {
		bounds.LLx -= half
		bounds.URx += half
	} else {
		bounds.LLy -= half
		bounds.URy += half
	}
	b.add(&Box{
		Kind:   boxtree.KindLine,
		Bounds: bounds,
		Style:  dl.Declarations(stroke),
	})
}

// AddImage adds an image box.  The image data is kept unchanged.
func (b *Builder) AddImage(bounds rect.Rect, img *resource.Resource) {
	b.add(&Box{
		Kind:   boxtree.KindImage,
		Bounds: bounds,
		Style:  boxtree.ImageStyle(bounds),
		Image:  img,
	})
}

// FinishDocument sets the document title and fixes the widths of all
// text boxes.
func (b *Builder) FinishDocument(fonts *fonttable.Table, title string) {
	b.FinishPage()
	if strings.TrimSpace(title) != "" {
		b.Title = title
	}

	known := make(map[string]bool)
	for _, family := range textrun.KnownFamilies {
		known[family] = true
	}
	if fonts != nil {
		for _, e := range fonts.ValidEntries() {
			known[e.Alias] = true
		}
	}

	for _, p := range b.Pages {
		for _, box := range p.Boxes {
			if box.Kind != boxtree.KindText {
				continue
			}
			if box.family == "" || !known[box.family] {
				box.Bounds.URx = box.Bounds.LLx + box.Bounds.Dx()*UnknownFontScale
			}
			box.Style.AddLength("width", box.Bounds.Dx())
		}
	}
}

// ReadingOrder returns the boxes of the page sorted from top to bottom.
// Boxes are grouped into lines by their vertical centres: a line starts at
// the topmost remaining centre and contains all centres less than one unit
// below it.  Within a line, boxes are sorted from left to right.  The
// result does not depend on the order of p.Boxes, except for boxes with
// identical keys.
func (p *Page) ReadingOrder() []*Box {
	centre := func(b *Box) float64 {
		return (b.Bounds.LLy + b.Bounds.URy) / 2
	}

	res := slices.Clone(p.Boxes)
	slices.SortStableFunc(res, func(a, b *Box) int {
		return cmp.Compare(centre(a), centre(b))
	})

	line := make(map[*Box]int, len(res))
	n, top := 0, 0.0
	for i, box := range res {
		y := centre(box)
		if i == 0 || y-top >= 1 {
			n++
			top = y
		}
		line[box] = n
	}

	slices.SortStableFunc(res, func(a, b *Box) int {
		if c := cmp.Compare(line[a], line[b]); c != 0 {
			return c
		}
		return cmp.Compare(a.Bounds.LLx, b.Bounds.LLx)
	})
	return res
}

// Line is a group of text boxes which share a baseline region.
type Line struct {
	Bounds rect.Rect
	Boxes  []*Box
}

// TextLines groups the text boxes of a page into lines.  Two boxes are
// joined if they overlap vertically by more than half the line height and
// the horizontal gap between them is less than four line heights.
func (p *Page) TextLines() []*Line {
	var lines []*Line
	var cur *Line
	for _, box := range p.ReadingOrder() {
		if box.Kind != boxtree.KindText {
			continue
		}
		if cur != nil && sameLine(cur.Bounds, box.Bounds) {
			cur.Boxes = append(cur.Boxes, box)
			cur.Bounds = union(cur.Bounds, box.Bounds)
			continue
		}
		cur = &Line{Bounds: box.Bounds, Boxes: []*Box{box}}
		lines = append(lines, cur)
	}
	return lines
}

func sameLine(cur, next rect.Rect) bool {
	space := cur.Dy()
	gap := next.LLx - cur.URx

	var overlap float64
	if next.LLy >= cur.LLy && next.LLy <= cur.URy {
		overlap = cur.URy - next.LLy
	} else if next.URy >= cur.LLy && next.URy <= cur.URy {
		overlap = next.URy - cur.LLy
	}
	return overlap > 0.5*space && gap > -0.5*space && gap < 4*space
}

func union(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}
