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
	"seehuhn.de/go/pdf2dom/fonttable"
)

// Metrics describes the extent of a run of text, in output coordinates.
type Metrics struct {
	X         float64
	Baseline  float64
	Width     float64
	Height    float64
	PointSize float64

	Ascent      float64
	Descent     float64 // zero or negative
	BBoxAscent  float64
	BBoxDescent float64
}

func newMetrics(g *Glyph) *Metrics {
	scale := g.scale()
	m := &Metrics{
		X:         g.X,
		Baseline:  g.Y,
		Width:     g.Width,
		Height:    g.Height,
		PointSize: g.FontSize,
		Ascent:    ascent(g.Descriptor, scale),
		Descent:   descent(g.Descriptor, scale),
	}
	m.BBoxAscent = g.Descriptor.BBox.URy / 1000 * scale
	m.BBoxDescent = g.Descriptor.BBox.LLy / 1000 * scale
	return m
}

// add extends the metrics to cover the glyph g.
func (m *Metrics) add(g *Glyph) {
	scale := g.scale()
	m.Width += g.X - (m.X + m.Width) + g.Width
	m.Height = max(m.Height, g.Height)
	m.Ascent = max(m.Ascent, ascent(g.Descriptor, scale))
	m.Descent = min(m.Descent, descent(g.Descriptor, scale))
}

// Top returns the y coordinate of the top edge of the run.
func (m *Metrics) Top() float64 {
	if m.Ascent != 0 {
		return m.Baseline - m.Ascent
	}
	return m.Baseline - m.BBoxAscent
}

// Bottom returns the y coordinate of the bottom edge of the run.
func (m *Metrics) Bottom() float64 {
	if m.Descent != 0 {
		return m.Baseline - m.Descent
	}
	return m.Baseline - m.BBoxDescent
}

// LineHeight returns the distance between top and bottom edge.
func (m *Metrics) LineHeight() float64 {
	return m.Bottom() - m.Top()
}

func ascent(d fonttable.Descriptor, scale float64) float64 {
	return d.Ascent / 1000 * scale
}

func descent(d fonttable.Descriptor, scale float64) float64 {
	v := d.Descent / 1000 * scale
	if v > 0 {
		v = -v
	}
	return v
}
