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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/transform"
)

func newPage() *Accumulator {
	a := NewAccumulator(nil)
	g := &transform.Geometry{CropBox: rect.Rect{URx: 200, URy: 100}}
	a.Page = g.Matrix()
	return a
}

func TestRectFillStroke(t *testing.T) {
	a := newPage()
	a.Rect(10, 10, 20, 30)
	got := a.Paint(FillStroke, 2)

	want := []Shape{&Rectangle{X: 10, Y: 60, W: 20, H: 30, Stroke: true, Fill: true, LineWidth: 2}}
	if d := cmp.Diff(got, want); d != "" {
		t.Errorf("Paint (-got +want):\n%s", d)
	}
	if len(a.Segments()) != 0 {
		t.Errorf("path not cleared after paint: %d segments", len(a.Segments()))
	}
}

func TestRectClosed(t *testing.T) {
	a := newPage()
	a.Rect(10, 10, 20, 30)
	a.ClosePath()
	got := a.Paint(FillStroke, 2)

	want := []Shape{&Rectangle{X: 10, Y: 60, W: 20, H: 30, Stroke: true, Fill: true, LineWidth: 2}}
	if d := cmp.Diff(got, want); d != "" {
		t.Errorf("Paint (-got +want):\n%s", d)
	}
}

func TestRectangleOrderInvariant(t *testing.T) {
	corners := [][2]float64{{1, 2}, {5, 2}, {5, 9}, {1, 9}}
	want := &Rectangle{X: 1, Y: 2, W: 4, H: 7, Fill: true, LineWidth: 1}

	for _, reverse := range []bool{false, true} {
		for start := range 4 {
			var segs []Segment
			for i := range 4 {
				j, k := (start+i)%4, (start+i+1)%4
				if reverse {
					j, k = (start+4-i)%4, (start+3-i)%4
				}
				p, q := corners[j], corners[k]
				segs = append(segs, Segment{p[0], p[1], q[0], q[1]})
			}
			got := Classify(segs, Fill, 1, nil)
			if d := cmp.Diff(got, []Shape{want}); d != "" {
				t.Errorf("start %d, reverse %t (-got +want):\n%s", start, reverse, d)
			}
		}
	}
}

func TestDiagonalStroke(t *testing.T) {
	a := NewAccumulator(nil)
	a.MoveTo(0, 0)
	a.LineTo(10, 10)
	a.LineTo(20, 0)
	got := a.Paint(Stroke, 1)

	want := []Shape{&OpaquePath{
		Segments:  []Segment{{0, 0, 10, 10}, {10, 10, 20, 0}},
		Stroke:    true,
		LineWidth: 1,
	}}
	if d := cmp.Diff(got, want); d != "" {
		t.Errorf("Paint (-got +want):\n%s", d)
	}
}

func TestStrokedLines(t *testing.T) {
	a := NewAccumulator(nil)
	a.MoveTo(0, 0)
	a.LineTo(10, 0)
	a.LineTo(20, 5)
	a.LineTo(20, 15)
	got := a.Paint(Stroke, 0.5)

	want := []Shape{
		&Line{X1: 0, Y1: 0, X2: 10, Y2: 0, LineWidth: 0.5},
		&Line{X1: 20, Y1: 5, X2: 20, Y2: 15, LineWidth: 0.5},
	}
	if d := cmp.Diff(got, want); d != "" {
		t.Errorf("Paint (-got +want):\n%s", d)
	}
}

func TestFilledTriangle(t *testing.T) {
	a := NewAccumulator(nil)
	a.MoveTo(0, 0)
	a.LineTo(10, 0)
	a.LineTo(10, 10)
	a.ClosePath()
	got := a.Paint(Fill, 1)
	if len(got) != 1 {
		t.Fatalf("got %d shapes, want 1", len(got))
	}
	p, ok := got[0].(*OpaquePath)
	if !ok {
		t.Fatalf("got %T, want *OpaquePath", got[0])
	}
	if len(p.Segments) != 3 {
		t.Errorf("got %d segments, want 3", len(p.Segments))
	}
	wantBox := rect.Rect{URx: 10, URy: 10}
	if d := cmp.Diff(p.Bounds(), wantBox); d != "" {
		t.Errorf("Bounds (-got +want):\n%s", d)
	}
}

func TestEndPath(t *testing.T) {
	a := NewAccumulator(nil)
	a.Rect(0, 0, 5, 5)
	a.EndPath()
	if got := a.Paint(Fill, 1); got != nil {
		t.Errorf("Paint after EndPath: got %v, want nil", got)
	}
}

func TestRectangleBox(t *testing.T) {
	cases := []struct {
		r                 Rectangle
		left, top, wd, ht float64
	}{
		{Rectangle{X: 10, Y: 20, W: 30, H: 40, Fill: true, LineWidth: 2}, 10, 20, 30, 40},
		{Rectangle{X: 10, Y: 20, W: 30, H: 40, Stroke: true, LineWidth: 2}, 9, 19, 28, 38},
		{Rectangle{X: 10, Y: 20, W: 1, H: 0, Stroke: true, LineWidth: 2}, 9, 19, 1, 1},
		{Rectangle{X: 10, Y: 20, W: 2, H: 2, Stroke: true, LineWidth: 2}, 9, 19, 1, 1},
		{Rectangle{X: 10, Y: 20, W: 2, H: 5, Stroke: true, LineWidth: 2}, 9, 19, 1, 3},
	}
	for i, c := range cases {
		l, tp, w, h := c.r.Box()
		if l != c.left || tp != c.top || w != c.wd || h != c.ht {
			t.Errorf("%d: got %g %g %g %g, want %g %g %g %g", i, l, tp, w, h, c.left, c.top, c.wd, c.ht)
		}
	}
}

func TestCurve(t *testing.T) {
	a := newPage()
	a.MoveTo(0, 0)
	a.CurveTo(0, 50, 50, 50, 50, 0)
	segs := a.Segments()
	if len(segs) != curveSteps {
		t.Fatalf("got %d segments, want %d", len(segs), curveSteps)
	}
	last := segs[len(segs)-1]
	if last.X2 != 50 || last.Y2 != 100 {
		t.Errorf("curve ends at (%g, %g), want (50, 100)", last.X2, last.Y2)
	}

	shapes := a.Paint(Fill, 1)
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	if _, ok := shapes[0].(*OpaquePath); !ok {
		t.Errorf("got %T, want *OpaquePath", shapes[0])
	}
}
