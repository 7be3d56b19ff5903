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

// Package css formats inline CSS declarations.
package css

import (
	"strconv"
	"strings"
)

// Unit is the length unit used for all generated lengths.
const Unit = "pt"

// Number formats v as a CSS number.  The value is rounded to single
// precision and printed without trailing zeros.
func Number(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 32)
}

// Length formats v as a CSS length in units of [Unit].
func Length(v float64) string {
	return Number(v) + Unit
}

// Declaration is a single "property:value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Declarations is an ordered list of declarations.
type Declarations []Declaration

// Add appends a declaration.
func (d *Declarations) Add(property, value string) {
	*d = append(*d, Declaration{Property: property, Value: value})
}

// AddLength appends a declaration with a length value.
func (d *Declarations) AddLength(property string, v float64) {
	d.Add(property, Length(v))
}

// Get returns the value of the last declaration for the given property.
func (d Declarations) Get(property string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Property == property {
			return d[i].Value, true
		}
	}
	return "", false
}

// String returns the declarations in the form used by HTML style
// attributes, for example "left:1pt;top:2pt;".
func (d Declarations) String() string {
	var b strings.Builder
	for _, decl := range d {
		b.WriteString(decl.Property)
		b.WriteByte(':')
		b.WriteString(decl.Value)
		b.WriteByte(';')
	}
	return b.String()
}
