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

// Package color converts PDF color values into CSS color strings.
package color

import (
	"errors"
	"fmt"
	imgcolor "image/color"
	"math"

	"seehuhn.de/go/icc"
)

// Color is an sRGB color.  The zero value is the transparent color.
type Color struct {
	R, G, B uint8
	Opaque  bool
}

var (
	// Black is the initial fill and stroke color of a PDF graphics state.
	Black = Color{Opaque: true}

	// Transparent is used for paint channels which are not drawn.
	Transparent = Color{}
)

// TransparentCSS is the CSS representation of [Transparent].
const TransparentCSS = "rgba(0,0,0,0)"

// RGB returns an opaque color with the given components in the range
// [0, 1].  Values outside this range are clamped.  Fractional byte values
// are truncated.
func RGB(r, g, b float64) Color {
	return Color{R: toByte(r), G: toByte(g), B: toByte(b), Opaque: true}
}

// Gray returns an opaque gray value.  0 is black, 1 is white.
func Gray(g float64) Color {
	return RGB(g, g, g)
}

// CMYK returns an opaque color using the naive CMYK to RGB conversion.
func CMYK(c, m, y, k float64) Color {
	return RGB(1-min(1, c+k), 1-min(1, m+k), 1-min(1, y+k))
}

// FromComponents interprets the given color components by their number:
// one component is gray, three are RGB and four are CMYK.
func FromComponents(v ...float64) (Color, error) {
	switch len(v) {
	case 1:
		return Gray(v[0]), nil
	case 3:
		return RGB(v[0], v[1], v[2]), nil
	case 4:
		return CMYK(v[0], v[1], v[2], v[3]), nil
	default:
		return Black, fmt.Errorf("color: unsupported number of components %d", len(v))
	}
}

// ErrComponents is returned when the number of color components does not
// match the ICC profile.
var ErrComponents = errors.New("color: wrong number of components")

// FromICC interprets the components v in the color space described by the
// ICC profile.  Gray, RGB, CMYK and CIELab profiles are supported.  No
// color management is performed beyond choosing the right formula.
func FromICC(profile []byte, v ...float64) (Color, error) {
	p, err := icc.Decode(profile)
	if err != nil {
		return Black, fmt.Errorf("color: %w", err)
	}
	if n := p.ColorSpace.NumComponents(); n != len(v) {
		return Black, fmt.Errorf("%w: got %d, want %d", ErrComponents, len(v), n)
	}

	switch p.ColorSpace {
	case icc.GraySpace:
		return Gray(v[0]), nil
	case icc.RGBSpace:
		return RGB(v[0], v[1], v[2]), nil
	case icc.CMYKSpace:
		return CMYK(v[0], v[1], v[2], v[3]), nil
	case icc.CIELabSpace:
		return Lab(v[0], v[1], v[2]), nil
	default:
		return Black, fmt.Errorf("color: unsupported ICC color space %v", p.ColorSpace)
	}
}

// Lab converts a CIE L*a*b* color (D50 white point) to sRGB.
func Lab(l, a, b float64) Color {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	finv := func(t float64) float64 {
		if t > 6.0/29 {
			return t * t * t
		}
		return 3 * (6.0 / 29) * (6.0 / 29) * (t - 4.0/29)
	}
	x := 0.9642 * finv(fx)
	y := 1.0000 * finv(fy)
	z := 0.8249 * finv(fz)

	// Bradford-adapted XYZ(D50) to linear sRGB
	r := 3.1339*x - 1.6169*y - 0.4906*z
	g := -0.9788*x + 1.9161*y + 0.0335*z
	bl := 0.0719*x - 0.2290*y + 1.4052*z

	return RGB(gamma(r), gamma(g), gamma(bl))
}

func gamma(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func toByte(x float64) uint8 {
	if !(x > 0) {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(x * 255)
}

// IsTransparent reports whether the color is the transparent sentinel.
func (c Color) IsTransparent() bool {
	return !c.Opaque
}

// CSS returns the color as a CSS value, for example "#ff0000".
func (c Color) CSS() string {
	if !c.Opaque {
		return TransparentCSS
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements the [fmt.Stringer] interface.
func (c Color) String() string {
	return c.CSS()
}

// RGBA converts the color for use with the image packages.
func (c Color) RGBA() imgcolor.NRGBA {
	if !c.Opaque {
		return imgcolor.NRGBA{}
	}
	return imgcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
