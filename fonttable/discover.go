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

package fonttable

// ResourceDict is the font related part of a page or form XObject
// resource dictionary.
type ResourceDict struct {
	Fonts []*Font
	Forms []*ResourceDict
}

// Discover registers all fonts reachable from res, including the fonts used
// by nested form XObjects.  Each dictionary is visited at most once, so
// cyclic references between forms are harmless.
func (t *Table) Discover(res *ResourceDict) {
	seen := make(map[*ResourceDict]bool)
	todo := []*ResourceDict{res}
	for len(todo) > 0 {
		d := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if d == nil || seen[d] {
			continue
		}
		seen[d] = true

		for _, f := range d.Fonts {
			if f != nil {
				t.Register(f)
			}
		}
		for i := len(d.Forms) - 1; i >= 0; i-- {
			todo = append(todo, d.Forms[i])
		}
	}
}
