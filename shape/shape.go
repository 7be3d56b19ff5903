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

// Package shape reconstructs rectangles and lines from PDF path operators.
//
// Path construction operators are collected by an [Accumulator].  When the
// path is painted, the collected segments are classified as a single
// [Rectangle], as a list of axis-parallel [Line] objects, or, if neither is
// possible, as an [OpaquePath] which must be rendered as an image.
package shape

import (
	"image/color"

	"seehuhn.de/go/geom/rect"
)

// Segment is a directed straight line in output coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// IsHorizontal reports whether both end points have the same y-coordinate.
func (s Segment) IsHorizontal() bool {
	return s.Y1 == s.Y2
}

// IsVertical reports whether both end points have the same x-coordinate.
func (s Segment) IsVertical() bool {
	return s.X1 == s.X2
}

// IsAxisAligned reports whether the segment is horizontal or vertical.
func (s Segment) IsAxisAligned() bool {
	return s.IsHorizontal() || s.IsVertical()
}

// Paint describes how a path is painted.
type Paint uint8

// These are the paint modes.  The close-and-paint PDF operators are
// represented by a ClosePath call followed by the corresponding paint.
const (
	Fill Paint = 1 << iota
	Stroke

	FillStroke = Fill | Stroke
)

// Fills reports whether the interior of the path is painted.
func (p Paint) Fills() bool { return p&Fill != 0 }

// Strokes reports whether the outline of the path is painted.
func (p Paint) Strokes() bool { return p&Stroke != 0 }

// Shape is one of [*Rectangle], [*Line] or [*OpaquePath].
type Shape interface {
	// Bounds returns the bounding box of the shape in output coordinates.
	Bounds() rect.Rect
}

// Rectangle is an axis-parallel rectangle.
// X and Y give the top-left corner.
type Rectangle struct {
	X, Y, W, H float64

	Stroke, Fill bool

	// LineWidth is the stroke width in output units.
	LineWidth float64
}

// Bounds implements the [Shape] interface.
func (r *Rectangle) Bounds() rect.Rect {
	return rect.Rect{LLx: r.X, LLy: r.Y, URx: r.X + r.W, URy: r.Y + r.H}
}

// Box returns the position and size of a CSS box with border width
// LineWidth (if stroked) which covers the rectangle.
// A dimension which would become negative is set to 1.
func (r *Rectangle) Box() (left, top, width, height float64) {
	var wcor float64
	if r.Stroke {
		wcor = r.LineWidth
	}
	width = r.W - wcor
	if width <= 0 {
		width = 1
	}
	height = r.H - wcor
	if height <= 0 {
		height = 1
	}
	return r.X - wcor/2, r.Y - wcor/2, width, height
}

// Line is an axis-parallel stroked line.
type Line struct {
	X1, Y1, X2, Y2 float64

	// LineWidth is the stroke width in output units.
	LineWidth float64
}

// Bounds implements the [Shape] interface.
func (l *Line) Bounds() rect.Rect {
	return rect.Rect{
		LLx: min(l.X1, l.X2), LLy: min(l.Y1, l.Y2),
		URx: max(l.X1, l.X2), URy: max(l.Y1, l.Y2),
	}
}

// OpaquePath is a path which cannot be represented by boxes.
type OpaquePath struct {
	Segments []Segment

	Stroke, Fill bool

	// LineWidth is the stroke width in output units.
	LineWidth float64

	// Clip, if non-zero, is the visible part of the page in output
	// coordinates.  Parts of the path outside Clip need not be drawn.
	Clip rect.Rect
}

// Bounds implements the [Shape] interface.
// The bounding box covers the segment end points; the stroke width is not
// included.
func (p *OpaquePath) Bounds() rect.Rect {
	var res rect.Rect
	for i, s := range p.Segments {
		if i == 0 {
			res = rect.Rect{
				LLx: min(s.X1, s.X2), LLy: min(s.Y1, s.Y2),
				URx: max(s.X1, s.X2), URy: max(s.Y1, s.Y2),
			}
			continue
		}
		res.LLx = min(res.LLx, s.X1, s.X2)
		res.LLy = min(res.LLy, s.Y1, s.Y2)
		res.URx = max(res.URx, s.X1, s.X2)
		res.URy = max(res.URy, s.Y1, s.Y2)
	}
	return res
}

// Raster is a rendered [OpaquePath].
type Raster struct {
	// Bounds is the area covered by the image, in output coordinates.
	Bounds rect.Rect

	// PNG holds the encoded image.
	PNG []byte
}

// Rasterizer renders paths which cannot be represented by boxes.
// Unpainted channels are given as nil colors.
type Rasterizer interface {
	Rasterize(p *OpaquePath, fill, stroke color.Color) (*Raster, error)
}
