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

package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf2dom/shape"
)

func triangle() *shape.OpaquePath {
	return &shape.OpaquePath{
		Segments: []shape.Segment{
			{X1: 10, Y1: 10, X2: 30, Y2: 10},
			{X1: 30, Y1: 10, X2: 10, Y2: 30},
			{X1: 10, Y1: 30, X2: 10, Y2: 10},
		},
		Fill: true,
	}
}

func TestFilledTriangle(t *testing.T) {
	r := &Renderer{Resolution: 1, Oversample: 2}
	red := color.NRGBA{R: 255, A: 255}
	out, err := r.Rasterize(triangle(), red, nil)
	if err != nil {
		t.Fatal(err)
	}

	// the path bounds, padded by one unit
	if out.Bounds.LLx != 9 || out.Bounds.LLy != 9 || out.Bounds.URx != 31 || out.Bounds.URy != 31 {
		t.Errorf("unexpected bounds %v", out.Bounds)
	}

	img, err := png.Decode(bytes.NewReader(out.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 22 || b.Dy() != 22 {
		t.Fatalf("unexpected image size %v", b)
	}

	// inside the triangle, near the right angle
	_, _, _, a := img.At(5, 5).RGBA()
	if a < 0xf000 {
		t.Errorf("interior pixel has alpha %x", a)
	}
	// outside, beyond the hypotenuse
	_, _, _, a = img.At(19, 19).RGBA()
	if a != 0 {
		t.Errorf("exterior pixel has alpha %x", a)
	}
}

func TestStrokedPath(t *testing.T) {
	p := triangle()
	p.Fill = false
	p.Stroke = true
	p.LineWidth = 2

	r := &Renderer{Resolution: 1, Oversample: 1}
	out, err := r.Rasterize(p, nil, color.Black)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds.LLx != 8 || out.Bounds.URx != 32 {
		t.Errorf("unexpected bounds %v", out.Bounds)
	}

	img, err := png.Decode(bytes.NewReader(out.PNG))
	if err != nil {
		t.Fatal(err)
	}
	// on the top edge, y=10 in output space
	_, _, _, a := img.At(12, 2).RGBA()
	if a == 0 {
		t.Error("stroke not drawn")
	}
	// interior is not filled
	_, _, _, a = img.At(6, 6).RGBA()
	if a != 0 {
		t.Errorf("interior pixel has alpha %x", a)
	}
}

func TestEmptyPath(t *testing.T) {
	r := &Renderer{}
	_, err := r.Rasterize(&shape.OpaquePath{Fill: true}, color.Black, nil)
	if err == nil {
		t.Error("empty path accepted")
	}
}

func hugeTriangle() *shape.OpaquePath {
	return &shape.OpaquePath{
		Segments: []shape.Segment{
			{X1: -20000, Y1: -20000, X2: 40000, Y2: -20000},
			{X1: 40000, Y1: -20000, X2: -20000, Y2: 40000},
			{X1: -20000, Y1: 40000, X2: -20000, Y2: -20000},
		},
		Fill: true,
	}
}

func TestClipToPage(t *testing.T) {
	p := hugeTriangle()
	p.Clip = rect.Rect{URx: 100, URy: 50}

	r := &Renderer{}
	out, err := r.Rasterize(p, color.Black, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds != p.Clip {
		t.Errorf("unexpected bounds %v", out.Bounds)
	}
	img, err := png.Decode(bytes.NewReader(out.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("unexpected image size %v", b)
	}
	_, _, _, a := img.At(100, 50).RGBA()
	if a < 0xf000 {
		t.Errorf("interior pixel has alpha %x", a)
	}
}

func TestTooLarge(t *testing.T) {
	r := &Renderer{}
	_, err := r.Rasterize(hugeTriangle(), color.Black, nil)
	if !errors.Is(err, errTooLarge) {
		t.Errorf("got error %v, want %v", err, errTooLarge)
	}

	r = &Renderer{Resolution: 1, Oversample: 1, MaxPixels: 100}
	_, err = r.Rasterize(triangle(), color.Black, nil)
	if !errors.Is(err, errTooLarge) {
		t.Errorf("got error %v, want %v", err, errTooLarge)
	}
}

func TestOutsidePage(t *testing.T) {
	p := triangle()
	p.Clip = rect.Rect{LLx: 100, LLy: 100, URx: 200, URy: 200}

	r := &Renderer{}
	_, err := r.Rasterize(p, color.Black, nil)
	if !errors.Is(err, errOutside) {
		t.Errorf("got error %v, want %v", err, errOutside)
	}
}
