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
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"seehuhn.de/go/pdf2dom/convert"
	"seehuhn.de/go/pdf2dom/resource"
)

const imageTrace = `{"op":"page","cropbox":[0,0,200,100]}
{"op":"cm","args":[50,0,0,20,10,10]}
{"op":"image","name":"Im1","mime":"image/png","ext":"png","data":"iVBORw0K"}
{"op":"endpage"}
`

var srcRegexp = regexp.MustCompile(`src="([^"]*)"`)

func TestSavedResourcesNextToOutput(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		dir  string
		want string
	}{
		{"", "resources/Im1.png"},
		{filepath.Join(root, "assets"), "../assets/Im1.png"},
		{filepath.Join(root, "sub", "img"), "img/Im1.png"},
	}
	for _, c := range cases {
		sub := filepath.Join(root, "sub")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		out := filepath.Join(sub, "doc.html")

		fonts, images := resourceHandlers(out, c.dir, resource.ModeEmbed, resource.ModeSave)
		if _, ok := fonts.(resource.Embed); !ok {
			t.Errorf("unexpected font handler %T", fonts)
		}
		logger := slog.New(slog.DiscardHandler)
		opt := &convert.Options{FontHandler: fonts, ImageHandler: images, Logger: logger}
		err := convertTrace(strings.NewReader(imageTrace), out, opt, nil)
		if err != nil {
			t.Fatal(err)
		}

		html, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		m := srcRegexp.FindSubmatch(html)
		if m == nil {
			t.Fatalf("dir %q: no image in output", c.dir)
		}
		src := string(m[1])
		if src != c.want {
			t.Errorf("dir %q: got src %q, want %q", c.dir, src, c.want)
		}
		if _, err := os.Stat(filepath.Join(sub, filepath.FromSlash(src))); err != nil {
			t.Errorf("dir %q: %v", c.dir, err)
		}
	}
}

func TestResourceDir(t *testing.T) {
	dir, prefix := resourceDir("", "")
	if dir != resource.DefaultDir || prefix != "" {
		t.Errorf("got %q %q", dir, prefix)
	}
	dir, prefix = resourceDir("", "x")
	if dir != "x" || prefix != "" {
		t.Errorf("got %q %q", dir, prefix)
	}
	dir, prefix = resourceDir(filepath.Join("a", "b.html"), "")
	if dir != filepath.Join("a", resource.DefaultDir) || prefix != resource.DefaultDir {
		t.Errorf("got %q %q", dir, prefix)
	}
	dir, prefix = resourceDir(filepath.Join("a", "b.html"), "a")
	if dir != "a" || prefix != "." {
		t.Errorf("got %q %q", dir, prefix)
	}
}

func TestSharedSaveHandler(t *testing.T) {
	fonts, images := resourceHandlers("", t.TempDir(), resource.ModeSave, resource.ModeSave)
	if fonts != images {
		t.Error("fonts and images use different save handlers")
	}
}
