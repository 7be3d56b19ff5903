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


package convert

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/shape"
	"seehuhn.de/go/pdf2dom/textrun"
)

// Operand is an operand of a content stream operator.  Numbers can be
// given using any of Go's integer or floating point types, names as
// strings, and arrays as []Operand.
type Operand any

// ErrUnknownOperator is returned by [Engine.Do] for operators which the
// engine does not implement.
var ErrUnknownOperator = errors.New("unknown operator")

// ignoredOps are operators which do not influence the generated boxes.
var ignoredOps = map[string]bool{
	"J": true, "j": true, "M": true, "d": true, "ri": true, "i": true, "gs": true,
	"BT": true, "ET": true, "Tz": true, "TL": true, "Tf": true, "Ts": true,
	"Td": true, "TD": true, "Tm": true, "T*": true,
	"cs": true, "CS": true, "W": true, "W*": true, "sh": true,
	"BMC": true, "BDC": true, "EMC": true, "MP": true, "DP": true,
	"BX": true, "EX": true, "d0": true, "d1": true,
}

// Do processes a content stream operator together with its operands.
// Operators with missing or malformed operands have no effect.
//
// Text showing and XObject operators need font and image data which
// cannot be expressed as operands.  These must be reported through
// [Engine.ShowGlyph] and [Engine.DrawImage] instead.
func (e *Engine) Do(op string, args []Operand) error {
	getNum := func() (float64, bool) {
		if len(args) == 0 {
			return 0, false
		}
		x, ok := getNumber(args[0])
		args = args[1:]
		return x, ok
	}
	getNums := func(n int) ([]float64, bool) {
		res := make([]float64, n)
		for i := range res {
			x, ok := getNum()
			if !ok {
				return nil, false
			}
			res[i] = x
		}
		return res, true
	}
	// getColor collects all numeric operands; a trailing pattern name is
	// ignored.
	getColor := func() (color.Color, bool) {
		var v []float64
		for _, a := range args {
			x, ok := getNumber(a)
			if !ok {
				break
			}
			v = append(v, x)
		}
		c, err := color.FromComponents(v...)
		return c, err == nil
	}

	switch op {

	// == Graphics state ===================================================

	case "w":
		if x, ok := getNum(); ok {
			e.SetLineWidth(x)
		}

	case "q":
		e.Save()

	case "Q":
		e.Restore()

	case "cm":
		if v, ok := getNums(6); ok {
			e.Concat(matrix.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]})
		}

	// == Path construction ================================================

	case "m":
		if v, ok := getNums(2); ok {
			e.MoveTo(v[0], v[1])
		}

	case "l":
		if v, ok := getNums(2); ok {
			e.LineTo(v[0], v[1])
		}

	case "c":
		if v, ok := getNums(6); ok {
			e.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5])
		}

	case "v":
		if v, ok := getNums(4); ok {
			e.path.CTM = e.CTM
			e.path.CurveToV(v[0], v[1], v[2], v[3])
		}

	case "y":
		if v, ok := getNums(4); ok {
			e.path.CTM = e.CTM
			e.path.CurveToY(v[0], v[1], v[2], v[3])
		}

	case "h":
		e.ClosePath()

	case "re":
		if v, ok := getNums(4); ok {
			e.Rect(v[0], v[1], v[2], v[3])
		}

	// == Path painting ====================================================

	case "S":
		e.Paint(shape.Stroke)

	case "s":
		e.ClosePath()
		e.Paint(shape.Stroke)

	case "f", "F", "f*":
		e.Paint(shape.Fill)

	case "B", "B*":
		e.Paint(shape.FillStroke)

	case "b", "b*":
		e.ClosePath()
		e.Paint(shape.FillStroke)

	case "n":
		e.EndPath()

	// == Text state =======================================================

	case "Tc":
		if x, ok := getNum(); ok {
			e.SetLetterSpacing(x)
		}

	case "Tw":
		if x, ok := getNum(); ok {
			e.SetWordSpacing(x)
		}

	case "Tr":
		if x, ok := getNum(); ok && x >= 0 && x <= 7 {
			e.SetTextRenderingMode(textrun.RenderingMode(x))
		}

	// == Color ============================================================

	case "G":
		if x, ok := getNum(); ok {
			e.SetStrokeColor(color.Gray(x))
		}

	case "g":
		if x, ok := getNum(); ok {
			e.SetFillColor(color.Gray(x))
		}

	case "RG":
		if v, ok := getNums(3); ok {
			e.SetStrokeColor(color.RGB(v[0], v[1], v[2]))
		}

	case "rg":
		if v, ok := getNums(3); ok {
			e.SetFillColor(color.RGB(v[0], v[1], v[2]))
		}

	case "K":
		if v, ok := getNums(4); ok {
			e.SetStrokeColor(color.CMYK(v[0], v[1], v[2], v[3]))
		}

	case "k":
		if v, ok := getNums(4); ok {
			e.SetFillColor(color.CMYK(v[0], v[1], v[2], v[3]))
		}

	case "SC", "SCN":
		if c, ok := getColor(); ok {
			e.SetStrokeColor(c)
		}

	case "sc", "scn":
		if c, ok := getColor(); ok {
			e.SetFillColor(c)
		}

	default:
		if !ignoredOps[op] {
			return fmt.Errorf("%w %q", ErrUnknownOperator, op)
		}
	}
	return nil
}

// CurveTo appends a cubic Bézier curve to the current path.
func (e *Engine) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	e.path.CTM = e.CTM
	e.path.CurveTo(x1, y1, x2, y2, x3, y3)
}

func getNumber(x Operand) (float64, bool) {
	switch x := x.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	default:
		return 0, false
	}
}
