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

// Package raster renders paths which cannot be represented by HTML boxes
// into PNG images.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	goimage "image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf2dom/shape"
)

// Default settings of the [Renderer].
const (
	DefaultResolution = 2 // pixels per output unit
	DefaultOversample = 2
	DefaultMaxPixels  = 1 << 23
)

// minHalfWidth is the smallest half stroke width, in pixels.
const minHalfWidth = 0.5

// Renderer draws an [shape.OpaquePath] onto a transparent image.
// The zero value is ready to use.
type Renderer struct {
	// Resolution is the number of image pixels per output unit.
	Resolution float64

	// Oversample is the factor by which the path is rendered at a higher
	// resolution before being scaled down.
	Oversample int

	// MaxPixels limits the size of the oversampled bitmap.  Paths which
	// need a larger bitmap are not rendered.
	MaxPixels int
}

// Rasterize implements the [shape.Rasterizer] interface.
func (r *Renderer) Rasterize(p *shape.OpaquePath, fill, stroke color.Color) (*shape.Raster, error) {
	if len(p.Segments) == 0 {
		return nil, errEmpty
	}

	res := r.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	over := r.Oversample
	if over <= 0 {
		over = DefaultOversample
	}

	bounds := p.Bounds()
	pad := 1.0
	if p.Stroke && stroke != nil {
		pad += max(p.LineWidth/2, minHalfWidth/res)
	}
	bounds = rect.Rect{
		LLx: bounds.LLx - pad,
		LLy: bounds.LLy - pad,
		URx: bounds.URx + pad,
		URy: bounds.URy + pad,
	}
	if !p.Clip.IsZero() {
		bounds = intersect(bounds, p.Clip)
		if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
			return nil, errOutside
		}
	}

	maxPixels := r.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	fw := math.Ceil(bounds.Dx()*res) * float64(over)
	fh := math.Ceil(bounds.Dy()*res) * float64(over)
	if !(fw*fh <= float64(maxPixels)) {
		return nil, fmt.Errorf("%w (%gx%g pixels)", errTooLarge, fw, fh)
	}
	width := int(math.Ceil(bounds.Dx() * res))
	height := int(math.Ceil(bounds.Dy() * res))
	if width <= 0 || height <= 0 {
		return nil, errEmpty
	}

	d := &device{
		scale: res * float64(over),
		x0:    bounds.LLx,
		y0:    bounds.LLy,
	}
	big := goimage.NewRGBA(goimage.Rect(0, 0, width*over, height*over))
	z := vector.NewRasterizer(width*over, height*over)

	if p.Fill && fill != nil {
		d.fill(z, p.Segments)
		z.Draw(big, big.Bounds(), goimage.NewUniform(fill), goimage.Point{})
		z.Reset(width*over, height*over)
	}
	if p.Stroke && stroke != nil {
		d.stroke(z, p.Segments, p.LineWidth)
		z.Draw(big, big.Bounds(), goimage.NewUniform(stroke), goimage.Point{})
	}

	img := big
	if over > 1 {
		img = goimage.NewRGBA(goimage.Rect(0, 0, width, height))
		q := 1 / float64(over)
		xdraw.BiLinear.Transform(img, f64.Aff3{q, 0, 0, 0, q, 0}, big, big.Bounds(), draw.Over, nil)
	}

	buf := &bytes.Buffer{}
	err := png.Encode(buf, img)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}

	return &shape.Raster{
		Bounds: rect.Rect{
			LLx: bounds.LLx,
			LLy: bounds.LLy,
			URx: bounds.LLx + float64(width)/res,
			URy: bounds.LLy + float64(height)/res,
		},
		PNG: buf.Bytes(),
	}, nil
}

var (
	errEmpty    = errors.New("raster: empty path")
	errOutside  = errors.New("raster: path outside the page")
	errTooLarge = errors.New("raster: image too large")
)

func intersect(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: max(a.LLx, b.LLx),
		LLy: max(a.LLy, b.LLy),
		URx: min(a.URx, b.URx),
		URy: min(a.URy, b.URy),
	}
}

// device maps output coordinates to pixel coordinates.
type device struct {
	scale  float64
	x0, y0 float64
}

func (d *device) coords(x, y float64) (float32, float32) {
	return float32((x - d.x0) * d.scale), float32((y - d.y0) * d.scale)
}

// fill adds the closed outline of the segments to the rasterizer.  A new
// subpath starts wherever a segment does not continue the previous one.
func (d *device) fill(z *vector.Rasterizer, segs []shape.Segment) {
	open := false
	var lastX, lastY float64
	for _, s := range segs {
		if !open || s.X1 != lastX || s.Y1 != lastY {
			if open {
				z.ClosePath()
			}
			z.MoveTo(d.coords(s.X1, s.Y1))
			open = true
		}
		z.LineTo(d.coords(s.X2, s.Y2))
		lastX, lastY = s.X2, s.Y2
	}
	if open {
		z.ClosePath()
	}
}

// stroke adds one quadrilateral per segment to the rasterizer.  Line joins
// and caps are not drawn.
func (d *device) stroke(z *vector.Rasterizer, segs []shape.Segment, lineWidth float64) {
	w := lineWidth * d.scale / 2
	if w < minHalfWidth {
		w = minHalfWidth
	}
	for _, s := range segs {
		x1, y1 := d.coords(s.X1, s.Y1)
		x2, y2 := d.coords(s.X2, s.Y2)
		vx, vy := float64(x2-x1), float64(y2-y1)
		vl := math.Hypot(vx, vy)
		if vl == 0 {
			continue
		}
		nx, ny := float32(-vy/vl*w), float32(vx/vl*w)

		z.MoveTo(x1+nx, y1+ny)
		z.LineTo(x2+nx, y2+ny)
		z.LineTo(x2-nx, y2-ny)
		z.LineTo(x1-nx, y1-ny)
		z.ClosePath()
	}
}
