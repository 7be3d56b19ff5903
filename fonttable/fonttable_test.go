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

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

type fakeConverter struct {
	calls int
	err   error
}

func (c *fakeConverter) Convert(data []byte, kind Kind) (*Payload, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Payload{Data: append([]byte("conv:"), data...), MIMEType: "font/test", Ext: "tst"}, nil
}

func TestFamilyName(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"ABCDEF+Arial-Bold", "ABCDEF Arial-Bold"},
		{"Arial-BoldMT", "Arial BoldMT"},
		{"Helvetica", "Helvetica"},
		{"A+B+C", "A B"},
		{"+Foo", " Foo"},
		{"", ""},
	}
	for _, c := range cases {
		if got := familyName(c.in); got != c.out {
			t.Errorf("familyName(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}

func TestRegister(t *testing.T) {
	tab := New(&fakeConverter{}, nil)

	f1 := &Font{Identity: Identity{"Arial-Bold", "Font", "TrueType"}, Kind: KindTrueType, Data: []byte{1}}
	f2 := &Font{Identity: Identity{"Arial-Bold", "Font", "Type0"}, Kind: KindType0TrueType, Data: []byte{2}}
	f3 := &Font{Identity: Identity{"Arial+Bold", "Font", "TrueType"}, Kind: KindTrueType, Data: []byte{3}}

	e1 := tab.Register(f1)
	e1b := tab.Register(&Font{Identity: f1.Identity})
	e2 := tab.Register(f2)
	e3 := tab.Register(f3)

	if e1 != e1b {
		t.Error("duplicate registration created a new entry")
	}
	if tab.Len() != 3 {
		t.Errorf("got %d entries, want 3", tab.Len())
	}

	var aliases []string
	for _, e := range tab.Entries() {
		aliases = append(aliases, e.Alias)
	}
	want := []string{"Arial Bold", "Arial Bold1", "Arial Bold2"}
	if d := cmp.Diff(want, aliases); d != "" {
		t.Errorf("aliases differ (-want +got):\n%s", d)
	}
	if e2.Order != 1 || e3.Order != 2 {
		t.Errorf("wrong order: %d %d", e2.Order, e3.Order)
	}
	if tab.Lookup(Identity{"Arial-Bold", "Font", "Type1"}) != nil {
		t.Error("lookup of unknown font succeeded")
	}
}

func TestMaterializeOnce(t *testing.T) {
	conv := &fakeConverter{}
	tab := New(conv, nil)
	id := Identity{"F", "Font", "TrueType"}
	tab.Register(&Font{Identity: id, Kind: KindTrueType, Data: []byte("abc")})

	for range 3 {
		alias, ok := tab.Resolve(id)
		if !ok || alias != "F" {
			t.Fatalf("Resolve = %q, %t", alias, ok)
		}
	}
	if conv.calls != 1 {
		t.Errorf("converter called %d times", conv.calls)
	}

	p, err := tab.Materialize(tab.Lookup(id))
	if err != nil {
		t.Fatal(err)
	}
	want := &Payload{Data: []byte("conv:abc"), MIMEType: "font/test", Ext: "tst"}
	if d := cmp.Diff(want, p); d != "" {
		t.Errorf("payload differs (-want +got):\n%s", d)
	}
}

func TestConversionFallback(t *testing.T) {
	tab := New(&fakeConverter{err: errors.New("broken")}, nil)
	id := Identity{"F", "Font", "TrueType"}
	e := tab.Register(&Font{Identity: id, Kind: KindTrueType, Data: []byte("raw")})

	p, err := tab.Materialize(e)
	if err != nil {
		t.Fatal(err)
	}
	want := &Payload{Data: []byte("raw"), MIMEType: MIMETrueType, Ext: "ttf"}
	if d := cmp.Diff(want, p); d != "" {
		t.Errorf("payload differs (-want +got):\n%s", d)
	}
}

func TestInvalidFonts(t *testing.T) {
	tab := New(&fakeConverter{}, nil)
	t1 := tab.Register(&Font{Identity: Identity{"Times", "Font", "Type1"}, Kind: KindType1, Data: []byte("%!PS")})
	empty := tab.Register(&Font{Identity: Identity{"Empty", "Font", "TrueType"}, Kind: KindTrueType})
	none := tab.Register(&Font{Identity: Identity{"None", "Font", "TrueType"}})
	good := tab.Register(&Font{Identity: Identity{"Good", "Font", "TrueType"}, Kind: KindTrueType, Data: []byte{0}})

	_, err := tab.Materialize(t1)
	if !errors.Is(err, ErrUnsupportedFont) {
		t.Errorf("Type 1: got %v", err)
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Kind != KindType1 {
		t.Errorf("Type 1: expected ConversionError, got %v", err)
	}
	if _, err := tab.Materialize(empty); !errors.Is(err, ErrEmptyFont) {
		t.Errorf("empty: got %v", err)
	}
	if _, err := tab.Materialize(none); !errors.Is(err, ErrEmptyFont) {
		t.Errorf("none: got %v", err)
	}
	if _, ok := tab.Resolve(t1.Identity); ok {
		t.Error("Type 1 font resolved")
	}

	valid := tab.ValidEntries()
	if len(valid) != 1 || valid[0] != good {
		t.Errorf("wrong valid entries: %v", valid)
	}
}

func TestDiscover(t *testing.T) {
	fa := &Font{Identity: Identity{Name: "A"}}
	fb := &Font{Identity: Identity{Name: "B"}}
	fc := &Font{Identity: Identity{Name: "C"}}

	inner := &ResourceDict{Fonts: []*Font{fb}}
	outer := &ResourceDict{Fonts: []*Font{fa}, Forms: []*ResourceDict{inner}}
	inner.Forms = []*ResourceDict{outer, {Fonts: []*Font{fc, fa}}}

	tab := New(nil, nil)
	tab.Discover(outer)

	var names []string
	for _, e := range tab.Entries() {
		names = append(names, e.Name)
	}
	if d := cmp.Diff([]string{"A", "B", "C"}, names); d != "" {
		t.Errorf("fonts differ (-want +got):\n%s", d)
	}
}

func TestSFNTConverter(t *testing.T) {
	conv := SFNTConverter{}

	p, err := conv.Convert(goregular.TTF, KindTrueType)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Data) == 0 || p.MIMEType != MIMETrueType || p.Ext != "ttf" {
		t.Errorf("unexpected payload: %d bytes, %q, %q", len(p.Data), p.MIMEType, p.Ext)
	}

	_, err = conv.Convert([]byte("not a font"), KindTrueType)
	if err == nil {
		t.Error("garbage data accepted")
	}

	_, err = conv.Convert(goregular.TTF, KindType1)
	if !errors.Is(err, ErrUnsupportedFont) {
		t.Errorf("Type 1: got %v", err)
	}
}

func TestBareCFFError(t *testing.T) {
	// a CFF header announcing the unsupported version 2
	data := []byte{2, 0, 4, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := SFNTConverter{}.Convert(data, KindOther)
	if err == nil {
		t.Fatal("invalid font accepted")
	}
	if !strings.Contains(err.Error(), "cff: version 2.0 not supported") {
		t.Errorf("CFF error missing from %q", err)
	}
}

func TestDescriptorFromData(t *testing.T) {
	tab := New(nil, nil)
	e := tab.Register(&Font{
		Identity: Identity{"Go-Regular", "Font", "TrueType"},
		Kind:     KindTrueType,
		Data:     goregular.TTF,
	})
	d := e.Descriptor
	if d.Ascent <= 0 || d.Descent >= 0 {
		t.Errorf("unexpected metrics: ascent %g, descent %g", d.Ascent, d.Descent)
	}
	if d.BBox.Dy() <= 0 {
		t.Errorf("empty bounding box: %v", d.BBox)
	}

	given := Descriptor{Ascent: 700, Descent: -200}
	e = tab.Register(&Font{
		Identity:   Identity{"Go-Regular", "Font", "Type0"},
		Descriptor: given,
		Kind:       KindType0TrueType,
		Data:       goregular.TTF,
	})
	if d := cmp.Diff(given, e.Descriptor); d != "" {
		t.Errorf("descriptor was overwritten (-want +got):\n%s", d)
	}
}
