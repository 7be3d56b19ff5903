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
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
)

// MIME types of converted font programs.
const (
	MIMETrueType = "application/x-font-truetype"
	MIMEOpenType = "font/otf"
)

var errNoGlyf = errors.New("TrueType font without glyf outlines")

// SFNTConverter converts embedded font programs into stand-alone
// TrueType or OpenType files, using the seehuhn.de/go/sfnt library.
// Fonts embedded in PDF files often lack tables which browsers require;
// reading and re-writing the font adds these tables.
type SFNTConverter struct{}

// Convert implements the [Converter] interface.
func (SFNTConverter) Convert(data []byte, kind Kind) (*Payload, error) {
	switch kind {
	case KindTrueType, KindType0TrueType:
		info, err := sfnt.Read(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read TrueType font: %w", err)
		}
		if !info.IsGlyf() {
			return nil, errNoGlyf
		}
		return writeTrueType(info)

	case KindOther:
		info, err := sfnt.Read(bytes.NewReader(data))
		if err == nil {
			if info.IsCFF() {
				return writeOpenType(info)
			}
			return writeTrueType(info)
		}

		// FontFile3 streams with subtype Type1C contain a bare CFF font.
		cffFont, cffErr := cff.Read(bytes.NewReader(data))
		if cffErr != nil {
			return nil, fmt.Errorf("read embedded font: %w", errors.Join(err, cffErr))
		}
		return writeOpenType(wrapCFF(cffFont))

	default:
		return nil, ErrUnsupportedFont
	}
}

func writeTrueType(info *sfnt.Font) (*Payload, error) {
	buf := &bytes.Buffer{}
	_, err := info.WriteTrueTypePDF(buf)
	if err != nil {
		return nil, fmt.Errorf("write TrueType font: %w", err)
	}
	return &Payload{Data: buf.Bytes(), MIMEType: MIMETrueType, Ext: "ttf"}, nil
}

func writeOpenType(info *sfnt.Font) (*Payload, error) {
	buf := &bytes.Buffer{}
	err := info.WriteOpenTypeCFFPDF(buf)
	if err != nil {
		return nil, fmt.Errorf("write OpenType font: %w", err)
	}
	return &Payload{Data: buf.Bytes(), MIMEType: MIMEOpenType, Ext: "otf"}, nil
}

// wrapCFF turns a bare CFF font into an OpenType font.
func wrapCFF(f *cff.Font) *sfnt.Font {
	info := &sfnt.Font{
		UnitsPerEm: 1000,
		Outlines:   f.Outlines,
	}
	if fi := f.FontInfo; fi != nil {
		info.FamilyName = fi.FamilyName
		if info.FamilyName == "" {
			info.FamilyName = fi.FontName
		}
		info.FontMatrix = fi.FontMatrix
		if q := fi.FontMatrix[3]; q > 0 {
			info.UnitsPerEm = uint16(math.Round(1 / q))
		}
	}
	return info
}

// parseType1 reads a Type 1 font program, for diagnostic messages only.
// Type 1 fonts cannot be used by web browsers.
func parseType1(data []byte, name string, logger *slog.Logger) {
	if len(data) == 0 {
		return
	}
	psFont, err := type1.Read(bytes.NewReader(data))
	if err != nil {
		logger.Debug("malformed Type 1 font", "font", name, "err", err)
		return
	}
	logger.Debug("Type 1 font", "font", name,
		"postscript", psFont.FontInfo.FontName, "glyphs", len(psFont.Glyphs))
}

// SFNTDescriptor returns the metrics of an sfnt font, in PDF glyph space
// units.
func SFNTDescriptor(info *sfnt.Font) Descriptor {
	if info.UnitsPerEm == 0 {
		return Descriptor{}
	}
	q := 1000 / float64(info.UnitsPerEm)
	return Descriptor{
		Ascent:  info.Ascent.AsFloat(q),
		Descent: info.Descent.AsFloat(q),
		BBox:    scaleRect(info.FontBBox(), q),
	}
}

func scaleRect(b funit.Rect16, q float64) rect.Rect {
	return rect.Rect{
		LLx: b.LLx.AsFloat(q),
		LLy: b.LLy.AsFloat(q),
		URx: b.URx.AsFloat(q),
		URy: b.URy.AsFloat(q),
	}
}

// descriptorFromData tries to recover the font metrics from an embedded
// TrueType or OpenType font program.
func descriptorFromData(f *Font) (Descriptor, bool) {
	switch f.Kind {
	case KindTrueType, KindType0TrueType, KindOther:
	default:
		return Descriptor{}, false
	}
	if len(f.Data) == 0 {
		return Descriptor{}, false
	}
	info, err := sfnt.Read(bytes.NewReader(f.Data))
	if err != nil {
		return Descriptor{}, false
	}
	return SFNTDescriptor(info), true
}
