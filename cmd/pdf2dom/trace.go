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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/convert"
	"seehuhn.de/go/pdf2dom/docinfo"
	"seehuhn.de/go/pdf2dom/fonttable"
	"seehuhn.de/go/pdf2dom/resource"
	"seehuhn.de/go/pdf2dom/textrun"
	"seehuhn.de/go/pdf2dom/transform"
)

// event is one line of an event trace.
//
// The "op" field selects the event type.  Events which are not listed
// below are content stream operators, with their operands in "args".
//
//	page     start a new page (cropbox, rotate, resources)
//	endpage  finish the current page
//	glyph    show a glyph (x, y, w, h, text, font, subtype, size, diacritic)
//	image    place an image in the unit square (name, mime, ext, data)
//	color    set the fill or stroke color (stroke, v, icc)
//	mode     set the text rendering mode (mode)
//	font     register a font (the same fields as a resources font entry)
//	info     document information (title, xmp, lang)
type event struct {
	Op   string            `json:"op"`
	Args []convert.Operand `json:"args,omitempty"`

	CropBox   []float64  `json:"cropbox,omitempty"`
	Rotate    int        `json:"rotate,omitempty"`
	Resources *resources `json:"resources,omitempty"`

	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	W         float64 `json:"w,omitempty"`
	H         float64 `json:"h,omitempty"`
	Text      string  `json:"text,omitempty"`
	Font      string  `json:"font,omitempty"`
	Subtype   string  `json:"subtype,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Diacritic bool    `json:"diacritic,omitempty"`

	Name string `json:"name,omitempty"`
	MIME string `json:"mime,omitempty"`
	Ext  string `json:"ext,omitempty"`
	Data []byte `json:"data,omitempty"`

	Stroke bool      `json:"stroke,omitempty"`
	V      []float64 `json:"v,omitempty"`
	ICC    []byte    `json:"icc,omitempty"`
	Mode   int       `json:"mode,omitempty"`

	Title string   `json:"title,omitempty"`
	XMP   []byte   `json:"xmp,omitempty"`
	Lang  []string `json:"lang,omitempty"`

	fontEntry
}

// resources is the font related part of a resource dictionary.
type resources struct {
	Fonts []*fontEntry `json:"fonts,omitempty"`
	Forms []*resources `json:"forms,omitempty"`
}

type fontEntry struct {
	FontName    string    `json:"fontname,omitempty"`
	FontSubtype string    `json:"fontsubtype,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	Program     []byte    `json:"program,omitempty"`
	Ascent      float64   `json:"ascent,omitempty"`
	Descent     float64   `json:"descent,omitempty"`
	BBox        []float64 `json:"bbox,omitempty"`
}

func (f *fontEntry) font() *fonttable.Font {
	res := &fonttable.Font{
		Identity: fonttable.Identity{Name: f.FontName, Type: "Font", Subtype: f.FontSubtype},
		Descriptor: fonttable.Descriptor{
			Ascent:  f.Ascent,
			Descent: f.Descent,
		},
		Kind: parseKind(f.Kind),
		Data: f.Program,
	}
	if r, ok := toRect(f.BBox); ok {
		res.Descriptor.BBox = r
	}
	return res
}

func parseKind(s string) fonttable.Kind {
	switch strings.ToLower(s) {
	case "truetype":
		return fonttable.KindTrueType
	case "type0":
		return fonttable.KindType0TrueType
	case "type1":
		return fonttable.KindType1
	case "":
		return fonttable.KindNone
	default:
		return fonttable.KindOther
	}
}

// resourceDict converts the resources of a trace into the form used by the
// font table.  Shared form dictionaries in the trace are decoded as
// separate values, so cycles cannot occur here.
func (r *resources) resourceDict() *fonttable.ResourceDict {
	if r == nil {
		return nil
	}
	res := &fonttable.ResourceDict{}
	for _, f := range r.Fonts {
		if f != nil {
			res.Fonts = append(res.Fonts, f.font())
		}
	}
	for _, form := range r.Forms {
		res.Forms = append(res.Forms, form.resourceDict())
	}
	return res
}

func toRect(v []float64) (rect.Rect, bool) {
	if len(v) != 4 {
		return rect.Rect{}, false
	}
	return rect.Rect{LLx: v[0], LLy: v[1], URx: v[2], URy: v[3]}, true
}

// Magic numbers of the supported compression formats.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress returns a reader for the uncompressed trace.  Plain, gzip
// and zstd compressed traces are recognized by their first bytes.
func decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	default:
		return io.NopCloser(br), nil
	}
}

// pageHook is called whenever a new page starts.
type pageHook func(pageNo int)

// replay sends the events of a trace to the engine.  The document is not
// finished; replay returns the document information found in the trace.
// Malformed lines are logged and skipped.
func replay(e *convert.Engine, r io.Reader, logger *slog.Logger, hook pageHook) (*docinfo.Info, error) {
	in, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var info *docinfo.Info
	pageNo := 0

	dec := json.NewDecoder(in)
	for line := 1; ; line++ {
		ev := &event{}
		err := dec.Decode(ev)
		if errors.Is(err, io.EOF) {
			break
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return info, fmt.Errorf("event %d: %w", line, err)
		} else if err != nil {
			logger.Warn("malformed event", "event", line, "err", err)
			continue
		}

		switch ev.Op {
		case "page":
			pageNo++
			if hook != nil {
				hook(pageNo)
			}
			var geom *transform.Geometry
			if box, ok := toRect(ev.CropBox); ok {
				geom = &transform.Geometry{CropBox: box, Rotate: ev.Rotate}
			}
			e.StartPage(geom, ev.Resources.resourceDict())

		case "endpage":
			e.EndPage()

		case "glyph":
			e.ShowGlyph(convert.Glyph{
				X:         ev.X,
				Y:         ev.Y,
				Width:     ev.W,
				Height:    ev.H,
				Text:      ev.Text,
				Font:      fonttable.Identity{Name: ev.Font, Type: "Font", Subtype: ev.Subtype},
				FontSize:  ev.Size,
				Diacritic: ev.Diacritic,
			})

		case "image":
			e.DrawImage(&resource.Resource{
				Name:     ev.Name,
				Data:     ev.Data,
				MIMEType: ev.MIME,
				Ext:      ev.Ext,
			})

		case "color":
			c, err := eventColor(ev)
			if err != nil {
				logger.Warn("invalid color", "event", line, "err", err)
				continue
			}
			if ev.Stroke {
				e.SetStrokeColor(c)
			} else {
				e.SetFillColor(c)
			}

		case "mode":
			e.SetTextRenderingMode(textrun.RenderingMode(ev.Mode))

		case "font":
			e.RegisterFont(ev.fontEntry.font())

		case "info":
			info = &docinfo.Info{Title: ev.Title, Metadata: ev.XMP}
			for _, s := range ev.Lang {
				tag, err := language.Parse(s)
				if err != nil {
					logger.Warn("invalid language tag", "lang", s, "err", err)
					continue
				}
				info.Lang = append(info.Lang, tag)
			}

		default:
			err := e.Do(ev.Op, normalizeArgs(ev.Args))
			if err != nil {
				logger.Debug("operator ignored", "event", line, "err", err)
			}
		}
	}
	return info, nil
}

func eventColor(ev *event) (color.Color, error) {
	if len(ev.ICC) > 0 {
		return color.FromICC(ev.ICC, ev.V...)
	}
	return color.FromComponents(ev.V...)
}

// normalizeArgs converts nested JSON arrays to []convert.Operand.
func normalizeArgs(args []convert.Operand) []convert.Operand {
	for i, a := range args {
		if list, ok := a.([]any); ok {
			sub := make([]convert.Operand, len(list))
			for j, x := range list {
				sub[j] = x
			}
			args[i] = normalizeArgs(sub)
		}
	}
	return args
}
