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

package shape

import (
	"log/slog"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf2dom/transform"
)

// Accumulator collects the segments of the current path.
//
// Coordinates passed to the path construction methods are in user space.
// They are mapped to output space using the current transformation matrix
// CTM and the page matrix Page at the time of the call.
type Accumulator struct {
	CTM  matrix.Matrix
	Page matrix.Matrix

	// Logger receives warnings about segments which cannot be represented.
	// If this is nil, warnings are discarded.
	Logger *slog.Logger

	segments []Segment
	open     bool

	curX, curY     float64
	startX, startY float64
}

// NewAccumulator returns an empty accumulator with identity matrices.
func NewAccumulator(logger *slog.Logger) *Accumulator {
	return &Accumulator{
		CTM:    matrix.Identity,
		Page:   matrix.Identity,
		Logger: logger,
	}
}

func (a *Accumulator) point(x, y float64) (float64, float64) {
	p := transform.Point(x, y, a.CTM, a.Page)
	return p.X, p.Y
}

// MoveTo starts a new subpath.
func (a *Accumulator) MoveTo(x, y float64) {
	a.curX, a.curY = a.point(x, y)
	a.startX, a.startY = a.curX, a.curY
	a.open = true
}

// LineTo appends a straight line from the current point.
// Without a current point, the call acts like MoveTo.
func (a *Accumulator) LineTo(x, y float64) {
	if !a.open {
		a.MoveTo(x, y)
		return
	}
	px, py := a.point(x, y)
	a.segments = append(a.segments, Segment{a.curX, a.curY, px, py})
	a.curX, a.curY = px, py
}

// ClosePath appends a line from the current point back to the start of
// the current subpath.  Nothing is appended if the current point already
// is the start of the subpath.
func (a *Accumulator) ClosePath() {
	if !a.open || a.curX == a.startX && a.curY == a.startY {
		return
	}
	a.segments = append(a.segments, Segment{a.curX, a.curY, a.startX, a.startY})
	a.curX, a.curY = a.startX, a.startY
}

// Rect appends a closed rectangle with corner (x, y), width w and height h
// as four segments, in the order in which the PDF "re" operator visits the
// corners.
func (a *Accumulator) Rect(x, y, w, h float64) {
	x0, y0 := a.point(x, y)
	x1, y1 := a.point(x+w, y)
	x2, y2 := a.point(x+w, y+h)
	x3, y3 := a.point(x, y+h)
	a.segments = append(a.segments,
		Segment{x0, y0, x1, y1},
		Segment{x1, y1, x2, y2},
		Segment{x2, y2, x3, y3},
		Segment{x3, y3, x0, y0},
	)
	a.curX, a.curY = x0, y0
	a.startX, a.startY = x0, y0
	a.open = true
}

// curveSteps is the number of line segments used for one Bézier curve.
const curveSteps = 8

// CurveTo appends a cubic Bézier curve from the current point to (x3, y3),
// with control points (x1, y1) and (x2, y2).  The curve is approximated by
// straight line segments.
func (a *Accumulator) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !a.open {
		a.MoveTo(x1, y1)
	}
	p1x, p1y := a.point(x1, y1)
	p2x, p2y := a.point(x2, y2)
	p3x, p3y := a.point(x3, y3)
	a.curve(p1x, p1y, p2x, p2y, p3x, p3y)
}

// CurveToV appends a Bézier curve whose first control point is the
// current point (the PDF "v" operator).
func (a *Accumulator) CurveToV(x2, y2, x3, y3 float64) {
	if !a.open {
		a.MoveTo(x2, y2)
	}
	p2x, p2y := a.point(x2, y2)
	p3x, p3y := a.point(x3, y3)
	a.curve(a.curX, a.curY, p2x, p2y, p3x, p3y)
}

// CurveToY appends a Bézier curve whose second control point is the end
// point (the PDF "y" operator).
func (a *Accumulator) CurveToY(x1, y1, x3, y3 float64) {
	if !a.open {
		a.MoveTo(x1, y1)
	}
	p1x, p1y := a.point(x1, y1)
	p3x, p3y := a.point(x3, y3)
	a.curve(p1x, p1y, p3x, p3y, p3x, p3y)
}

// curve flattens a Bézier curve given in output coordinates.
func (a *Accumulator) curve(p1x, p1y, p2x, p2y, p3x, p3y float64) {
	p0x, p0y := a.curX, a.curY
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		s := 1 - t
		x := s*s*s*p0x + 3*s*s*t*p1x + 3*s*t*t*p2x + t*t*t*p3x
		y := s*s*s*p0y + 3*s*s*t*p1y + 3*s*t*t*p2y + t*t*t*p3y
		a.segments = append(a.segments, Segment{a.curX, a.curY, x, y})
		a.curX, a.curY = x, y
	}
}

// Segments returns the segments collected so far.
func (a *Accumulator) Segments() []Segment {
	return a.segments
}

// EndPath discards the current path without painting it.
func (a *Accumulator) EndPath() {
	a.segments = nil
	a.open = false
}

// Paint classifies the current path and then clears it.
// The line width is given in output units.
// The result is nil if the path has no segments.
func (a *Accumulator) Paint(op Paint, lineWidth float64) []Shape {
	segs := a.segments
	a.EndPath()
	if len(segs) == 0 {
		return nil
	}
	return Classify(segs, op, lineWidth, a.Logger)
}

// Classify turns a painted path into shapes.
//
// Four segments spanning exactly two x and two y values form a
// [Rectangle].  Otherwise, stroked paths are turned into one [Line] per
// axis-parallel segment; other segments are skipped.  A path which is only
// filled, or a stroked path without any axis-parallel segment, becomes a
// single [OpaquePath].
func Classify(segs []Segment, op Paint, lineWidth float64, logger *slog.Logger) []Shape {
	if r, ok := toRectangle(segs); ok {
		r.Stroke = op.Strokes()
		r.Fill = op.Fills()
		r.LineWidth = lineWidth
		return []Shape{r}
	}

	if op.Strokes() {
		var lines []Shape
		skipped := 0
		for _, s := range segs {
			if !s.IsAxisAligned() {
				skipped++
				continue
			}
			lines = append(lines, &Line{
				X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2,
				LineWidth: lineWidth,
			})
		}
		if len(lines) > 0 {
			if skipped > 0 && logger != nil {
				logger.Warn("skipped non-orthogonal path segments", "count", skipped)
			}
			return lines
		}
	}

	p := &OpaquePath{
		Segments:  append([]Segment(nil), segs...),
		Stroke:    op.Strokes(),
		Fill:      op.Fills(),
		LineWidth: lineWidth,
	}
	return []Shape{p}
}

func toRectangle(segs []Segment) (*Rectangle, bool) {
	if len(segs) != 4 {
		return nil, false
	}
	var xs, ys []float64
	add := func(list []float64, v float64) []float64 {
		for _, w := range list {
			if w == v {
				return list
			}
		}
		return append(list, v)
	}
	for _, s := range segs {
		xs = add(add(xs, s.X1), s.X2)
		ys = add(add(ys, s.Y1), s.Y2)
	}
	if len(xs) != 2 || len(ys) != 2 {
		return nil, false
	}
	x0, x1 := min(xs[0], xs[1]), max(xs[0], xs[1])
	y0, y1 := min(ys[0], ys[1]), max(ys[0], ys[1])
	return &Rectangle{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}
