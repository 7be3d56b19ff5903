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


package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"seehuhn.de/go/pdf2dom/boxtree"
	"seehuhn.de/go/pdf2dom/convert"
)

const testTrace = `{"op":"info","title":"Trace Test","lang":["en"]}
{"op":"page","cropbox":[0,0,200,100],"resources":{"fonts":[{"fontname":"ABCDEF+Foo","fontsubtype":"Type1","kind":"type1","program":"JSE="}]}}
{"op":"color","v":[1,0,0]}
{"op":"glyph","x":10,"y":50,"w":5,"text":"H","font":"Helvetica","subtype":"Type1","size":10}
{"op":"glyph","x":15,"y":50,"w":5,"text":"i","font":"Helvetica","subtype":"Type1","size":10}
{"op":"re","args":[10,10,20,30]}
{"op":"f"}
{"op":"frobnicate","args":[1,[2,3]]}
{"op":"endpage"}
{"op":"page","cropbox":[0,0,200,100],"rotate":90}
{"op":"endpage"}
`

func replayString(t *testing.T, data []byte) (*boxtree.Document, *convert.Engine) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tree := boxtree.NewBuilder(logger)
	e := convert.New(tree, &convert.Options{Logger: logger})

	var pages []int
	info, err := replay(e, bytes.NewReader(data), logger, func(n int) { pages = append(pages, n) })
	if err != nil {
		t.Fatal(err)
	}
	e.Finish(info)

	if d := cmp.Diff([]int{1, 2}, pages); d != "" {
		t.Errorf("page hook calls differ (-want +got):\n%s", d)
	}
	return tree.Document(), e
}

func TestReplay(t *testing.T) {
	doc, e := replayString(t, []byte(testTrace))

	if doc.Title != "Trace Test" {
		t.Errorf("title %q", doc.Title)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(doc.Pages))
	}
	if e.Fonts().Len() != 1 {
		t.Errorf("got %d fonts, want 1", e.Fonts().Len())
	}

	var kinds []string
	for _, n := range doc.Pages[0].Children {
		kinds = append(kinds, n.Kind.String()+":"+n.Text)
	}
	want := []string{"rect:\u00a0", "text:Hi"}
	if d := cmp.Diff(want, kinds); d != "" {
		t.Errorf("page content differs (-want +got):\n%s", d)
	}

	w, _ := doc.Pages[1].Style.Get("width")
	h, _ := doc.Pages[1].Style.Get("height")
	if w != "100pt" || h != "200pt" {
		t.Errorf("rotated page size %s x %s", w, h)
	}

	buf := &bytes.Buffer{}
	if err := doc.WriteHTML(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "color:#ff0000") {
		t.Error("text color missing from output")
	}
}

func TestReplayCompressed(t *testing.T) {
	gz := &bytes.Buffer{}
	zw := gzip.NewWriter(gz)
	zw.Write([]byte(testTrace))
	zw.Close()

	zs := &bytes.Buffer{}
	enc, err := zstd.NewWriter(zs)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte(testTrace))
	enc.Close()

	for name, data := range map[string][]byte{"gzip": gz.Bytes(), "zstd": zs.Bytes()} {
		t.Run(name, func(t *testing.T) {
			doc, _ := replayString(t, data)
			if len(doc.Pages) != 2 {
				t.Errorf("got %d pages, want 2", len(doc.Pages))
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]string{
		"TrueType": "TrueType",
		"type0":    "Type0/TrueType",
		"Type1":    "Type1",
		"cff":      "other",
		"":         "none",
	}
	for in, want := range cases {
		if got := parseKind(in).String(); got != want {
			t.Errorf("parseKind(%q) = %q, want %q", in, got, want)
		}
	}
}
