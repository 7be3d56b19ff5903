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

package boxtree

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/css"
	"seehuhn.de/go/pdf2dom/docinfo"
	"seehuhn.de/go/pdf2dom/fonttable"
	"seehuhn.de/go/pdf2dom/resource"
	"seehuhn.de/go/pdf2dom/shape"
)

// DefaultTitle is the title of documents which do not specify one.
const DefaultTitle = docinfo.DefaultTitle

// DefaultStyle is appended to the global style sheet of every document.
// The text-shadow fallback for stroked text is disabled in browsers which
// support -webkit-text-stroke.
const DefaultStyle = ".page{position:relative; border:1px solid blue;margin:0.5em}\n" +
	".p,.r{position:absolute;}\n" +
	"@supports(-webkit-text-stroke: 1px black) {" +
	".p{text-shadow:none !important;}" +
	"}"

const nbsp = "\u00a0"

// minLineWidth is the smallest border width used for lines.
const minLineWidth = 0.5

// RectangleStyle returns the declarations for a rectangle box.
func RectangleStyle(r *shape.Rectangle, fill, stroke color.Color) css.Declarations {
	left, top, width, height := r.Box()

	var d css.Declarations
	d.AddLength("left", left)
	d.AddLength("top", top)
	d.AddLength("width", width)
	d.AddLength("height", height)
	if r.Stroke {
		d.Add("border", css.Length(r.LineWidth)+" solid "+stroke.CSS())
	}
	if r.Fill {
		d.Add("background-color", fill.CSS())
	}
	return d
}

// ImageStyle returns the declarations for an image covering bounds.
func ImageStyle(bounds rect.Rect) css.Declarations {
	var d css.Declarations
	d.Add("position", "absolute")
	d.AddLength("left", bounds.LLx)
	d.AddLength("top", bounds.LLy)
	d.AddLength("width", bounds.Dx())
	d.AddLength("height", bounds.Dy())
	return d
}

// DivLine represents a line as the border of an HTML box.
//
// Lines which are close to horizontal or vertical are drawn using the
// bottom or right border of a box with zero height or width.  Other lines
// use the bottom border of a box which is then rotated about its centre.
type DivLine struct {
	X1, Y1, X2, Y2 float64
	LineWidth      float64

	horizontal, vertical bool
}

// NewDivLine returns the box representation of l.
func NewDivLine(l *shape.Line) *DivLine {
	dx := math.Abs(l.X2 - l.X1)
	dy := math.Abs(l.Y2 - l.Y1)
	return &DivLine{
		X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2,
		LineWidth:  l.LineWidth,
		horizontal: dy < 0.5,
		vertical:   dx < 0.5,
	}
}

// Width returns the width of the box.
func (l *DivLine) Width() float64 {
	switch {
	case l.vertical:
		return 0
	case l.horizontal:
		return math.Abs(l.X2 - l.X1)
	default:
		return math.Hypot(l.X2-l.X1, l.Y2-l.Y1)
	}
}

// Height returns the height of the box.
func (l *DivLine) Height() float64 {
	if l.vertical {
		return math.Abs(l.Y2 - l.Y1)
	}
	return 0
}

// Left returns the x coordinate of the box before rotation.
func (l *DivLine) Left() float64 {
	if l.horizontal || l.vertical {
		return min(l.X1, l.X2)
	}
	return math.Abs((l.X1+l.X2)/2) - l.Width()/2
}

// Top returns the y coordinate of the box before rotation.
func (l *DivLine) Top() float64 {
	if l.horizontal || l.vertical {
		return min(l.Y1, l.Y2)
	}
	return math.Abs((l.Y1+l.Y2)/2) - (l.StrokeWidth()+l.Height())/2
}

// Angle returns the rotation of the box in degrees.
func (l *DivLine) Angle() float64 {
	if l.horizontal || l.vertical {
		return 0
	}
	return math.Atan((l.Y2-l.Y1)/(l.X2-l.X1)) * 180 / math.Pi
}

// StrokeWidth returns the border width.
func (l *DivLine) StrokeWidth() float64 {
	return max(l.LineWidth, minLineWidth)
}

// BorderSide returns the CSS property used to draw the line.
func (l *DivLine) BorderSide() string {
	if l.vertical {
		return "border-right"
	}
	return "border-bottom"
}

// Declarations returns the CSS declarations for the line box.
func (l *DivLine) Declarations(stroke color.Color) css.Declarations {
	var d css.Declarations
	d.AddLength("left", l.Left())
	d.AddLength("top", l.Top())
	d.AddLength("width", l.Width())
	d.AddLength("height", l.Height())
	d.Add(l.BorderSide(), css.Length(l.StrokeWidth())+" solid "+stroke.CSS())
	if a := l.Angle(); a != 0 {
		d.Add("transform", "rotate("+css.Number(a)+"deg)")
	}
	return d
}

// fontFaces returns one @font-face rule for every usable font.
func (b *Builder) fontFaces(fonts *fonttable.Table) string {
	if fonts == nil || !b.WantFonts() {
		return ""
	}

	h := b.fontHandler()
	var out strings.Builder
	for _, e := range fonts.ValidEntries() {
		p, err := fonts.Materialize(e)
		if err != nil {
			continue
		}
		src, err := h.Handle(&resource.Resource{
			Name:     e.Alias,
			Data:     p.Data,
			MIMEType: p.MIMEType,
			Ext:      p.Ext,
		})
		if err != nil {
			b.logger().Warn("font not stored", "font", e.Name, "err", err)
			src = ""
		}
		out.WriteString("@font-face {font-family:\"")
		out.WriteString(e.Alias)
		out.WriteString("\";src:url('")
		out.WriteString(src)
		out.WriteString("');}\n")
	}
	return out.String()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
