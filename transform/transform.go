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

// Package transform maps PDF user space coordinates to output coordinates.
//
// PDF uses a coordinate system with the origin in the bottom-left corner
// and the y-axis pointing upwards.  The output of the converter uses the
// origin in the top-left corner of the (rotated) crop box, with the y-axis
// pointing downwards.  All matrices use the PDF convention of row vectors:
// a point (x, y) is mapped to [x y 1] × M.
package transform

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Geometry describes the visible area of a page.
type Geometry struct {
	// CropBox is the visible region of the page, in default user space.
	CropBox rect.Rect

	// Rotate is the number of degrees by which the page is rotated
	// clockwise when displayed.  Values which are not a multiple of 90 are
	// rounded to the nearest multiple.
	Rotate int
}

// IsZero reports whether the page has no usable crop box.
func (g *Geometry) IsZero() bool {
	return g == nil || g.CropBox.IsZero() || g.CropBox.Dx() <= 0 || g.CropBox.Dy() <= 0
}

// Rotation returns the page rotation, normalized to 0, 90, 180 or 270.
func (g *Geometry) Rotation() int {
	r := int(math.Round(float64(g.Rotate)/90)) * 90
	r %= 360
	if r < 0 {
		r += 360
	}
	return r
}

// Size returns the width and height of the page as it is displayed,
// i.e. with width and height swapped for pages rotated by 90 or 270
// degrees.
func (g *Geometry) Size() (width, height float64) {
	w, h := g.CropBox.Dx(), g.CropBox.Dy()
	switch g.Rotation() {
	case 90, 270:
		return h, w
	default:
		return w, h
	}
}

// Matrix returns the transformation from default user space to output
// space.
//
// The crop box origin is first moved to (0, 0), then the y-axis is flipped
// so that the top edge of the crop box lies on y=0.  Finally the page is
// rotated clockwise about the origin and shifted back into the first
// quadrant.
func (g *Geometry) Matrix() matrix.Matrix {
	w, h := g.CropBox.Dx(), g.CropBox.Dy()

	M := matrix.Translate(-g.CropBox.LLx, -g.CropBox.LLy)
	M = M.Mul(matrix.Scale(1, -1))
	M = M.Mul(matrix.Translate(0, h))

	switch g.Rotation() {
	case 90:
		M = M.Mul(quarterTurns(1)).Mul(matrix.Translate(h, 0))
	case 180:
		M = M.Mul(quarterTurns(2)).Mul(matrix.Translate(w, h))
	case 270:
		M = M.Mul(quarterTurns(3)).Mul(matrix.Translate(0, w))
	}
	return M
}

// quarterTurns returns an exact rotation by n×90 degrees, clockwise in a
// coordinate system where y points down.
func quarterTurns(n int) matrix.Matrix {
	switch n % 4 {
	case 1:
		return matrix.Matrix{0, 1, -1, 0, 0, 0}
	case 2:
		return matrix.Matrix{-1, 0, 0, -1, 0, 0}
	case 3:
		return matrix.Matrix{0, -1, 1, 0, 0, 0}
	default:
		return matrix.Identity
	}
}

// Point maps the point (x, y) from user space to output space.
// The current transformation matrix ctm is applied first, followed by the
// page matrix (see [Geometry.Matrix]).
func Point(x, y float64, ctm, page matrix.Matrix) vec.Vec2 {
	px, py := ctm.Mul(page).Apply(x, y)
	return vec.Vec2{X: px, Y: py}
}

// Length maps a scalar length, for example a line width, from user space
// to output space.  The result is the length of the image of the vector
// (w, 0) under the linear part of ctm.  The sign of w is kept.
func Length(w float64, ctm matrix.Matrix) float64 {
	return w * math.Hypot(ctm[0], ctm[1])
}

// BBox returns the smallest axis-parallel rectangle which contains the
// image of the rectangle r under M.
func BBox(r rect.Rect, M matrix.Matrix) rect.Rect {
	corners := [4]vec.Vec2{
		{X: r.LLx, Y: r.LLy},
		{X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy},
		{X: r.LLx, Y: r.URy},
	}
	var res rect.Rect
	for i, c := range corners {
		x, y := M.Apply(c.X, c.Y)
		if i == 0 {
			res = rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
			continue
		}
		res.LLx = min(res.LLx, x)
		res.LLy = min(res.LLy, y)
		res.URx = max(res.URx, x)
		res.URy = max(res.URy, y)
	}
	return res
}
