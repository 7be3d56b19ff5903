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

// Package fonttable keeps track of the fonts used in a document.
//
// Every distinct font is registered once and receives a generated family
// name (the alias) which is safe to use in CSS.  The embedded font program
// is converted into a format usable by web browsers only when it is first
// needed, and the result is cached in the table entry.
package fonttable

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// Identity identifies a font resource.  Different font resources may use
// the same font name, so the font type and subtype are part of the key.
type Identity struct {
	Name    string
	Type    string
	Subtype string
}

func (id Identity) String() string {
	return id.Name + " (" + id.Type + "/" + id.Subtype + ")"
}

// Kind describes the container format of an embedded font program.
type Kind int

// These are the supported container kinds.
const (
	KindNone Kind = iota // no embedded font program

	KindTrueType      // /FontFile2 of a simple TrueType font
	KindType0TrueType // /FontFile2 of a Type0 font with a CIDFontType2 descendant
	KindType1         // /FontFile
	KindOther         // /FontFile3, e.g. bare CFF or OpenType
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTrueType:
		return "TrueType"
	case KindType0TrueType:
		return "Type0/TrueType"
	case KindType1:
		return "Type1"
	case KindOther:
		return "other"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Descriptor holds the font metrics needed for text layout.
// All values are in glyph space units, i.e. 1/1000 of the font size.
type Descriptor struct {
	Ascent  float64
	Descent float64
	BBox    rect.Rect
}

// IsZero reports whether no metrics are available.
func (d Descriptor) IsZero() bool {
	return d.Ascent == 0 && d.Descent == 0 && d.BBox.IsZero()
}

// Font describes a font resource, as found in a resource dictionary.
type Font struct {
	Identity
	Descriptor Descriptor

	Kind Kind
	Data []byte // the embedded font program, or nil
}

// Payload is a font program ready to be used in the output.
type Payload struct {
	Data     []byte
	MIMEType string
	Ext      string
}

// Converter normalizes an embedded font program for use by web browsers.
type Converter interface {
	Convert(data []byte, kind Kind) (*Payload, error)
}

var (
	// ErrUnsupportedFont is returned for font programs which cannot be
	// converted, for example Type 1 fonts.
	ErrUnsupportedFont = errors.New("unsupported font type")

	// ErrEmptyFont is returned when no font data is available.
	ErrEmptyFont = errors.New("no font data")
)

// ConversionError records a failure to convert an embedded font.
type ConversionError struct {
	Font string
	Kind Kind
	Err  error
}

func (err *ConversionError) Error() string {
	return fmt.Sprintf("font %q (%s): %v", err.Font, err.Kind, err.Err)
}

func (err *ConversionError) Unwrap() error {
	return err.Err
}

// Entry is a font registered in a [Table].
type Entry struct {
	*Font

	// Alias is the generated family name used in the output.
	Alias string

	// Order is the registration index of the entry.
	Order int

	materialized bool
	payload      Payload
	err          error
}

// Valid reports whether the font program has been converted successfully.
// The result is only meaningful after [Table.Materialize] has been called
// for the entry.
func (e *Entry) Valid() bool {
	return e.materialized && len(e.payload.Data) > 0
}

// Table is a registry of the fonts used in a document.
// A Table is not safe for concurrent use.
type Table struct {
	conv   Converter
	logger *slog.Logger

	entries []*Entry
	byID    map[Identity]*Entry
	aliases map[string]bool
}

// New creates an empty font table.  If conv is nil, fonts are used
// without conversion.  If logger is nil, warnings are discarded.
func New(conv Converter, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table{
		conv:    conv,
		logger:  logger,
		byID:    make(map[Identity]*Entry),
		aliases: make(map[string]bool),
	}
}

// Register adds a font to the table, unless a font with the same identity
// is already present.  The entry for the font is returned.
//
// If the font has no descriptor, the metrics are read from the embedded
// font program where possible.
func (t *Table) Register(f *Font) *Entry {
	if e, ok := t.byID[f.Identity]; ok {
		return e
	}
	if f.Descriptor.IsZero() {
		if d, ok := descriptorFromData(f); ok {
			f.Descriptor = d
		}
	}
	e := &Entry{
		Font:  f,
		Alias: t.nextAlias(familyName(f.Name)),
		Order: len(t.entries),
	}
	t.entries = append(t.entries, e)
	t.byID[f.Identity] = e
	return e
}

// Lookup returns the entry for the given font, or nil if the font has not
// been registered.
func (t *Table) Lookup(id Identity) *Entry {
	return t.byID[id]
}

// Resolve returns the alias of a registered font.  The font program is
// converted if this has not happened before.  If the font is unknown or
// its font program cannot be used, ok is false.
func (t *Table) Resolve(id Identity) (alias string, ok bool) {
	e := t.byID[id]
	if e == nil {
		return "", false
	}
	t.Materialize(e)
	if !e.Valid() {
		return "", false
	}
	return e.Alias, true
}

// Len returns the number of registered fonts.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all entries in registration order.
func (t *Table) Entries() []*Entry {
	return append([]*Entry(nil), t.entries...)
}

// ValidEntries converts all fonts which have not been converted yet and
// returns the entries with a usable font program, in registration order.
func (t *Table) ValidEntries() []*Entry {
	var res []*Entry
	for _, e := range t.entries {
		t.Materialize(e)
		if e.Valid() {
			res = append(res, e)
		}
	}
	return res
}

// Materialize returns the converted font program for e.  The conversion is
// performed on the first call; later calls return the cached result.
// Failures are logged and leave the entry invalid; they do not affect other
// fonts.
func (t *Table) Materialize(e *Entry) (*Payload, error) {
	if !e.materialized {
		e.payload, e.err = t.convert(e.Font)
		e.materialized = true
		if e.err != nil {
			t.logger.Warn("font not embedded", "font", e.Name, "err", e.err)
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	return &e.payload, nil
}

func (t *Table) convert(f *Font) (Payload, error) {
	switch f.Kind {
	case KindType1:
		parseType1(f.Data, f.Name, t.logger)
		return Payload{}, &ConversionError{Font: f.Name, Kind: f.Kind, Err: ErrUnsupportedFont}
	case KindNone:
		return Payload{}, &ConversionError{Font: f.Name, Kind: f.Kind, Err: ErrEmptyFont}
	}

	if len(f.Data) == 0 {
		return Payload{}, &ConversionError{Font: f.Name, Kind: f.Kind, Err: ErrEmptyFont}
	}

	if t.conv != nil {
		p, err := t.conv.Convert(f.Data, f.Kind)
		if err == nil && p != nil && len(p.Data) > 0 {
			return *p, nil
		}
		if err == nil {
			err = ErrEmptyFont
		}
		t.logger.Warn("font conversion failed, using embedded data",
			"font", f.Name, "kind", f.Kind, "err", err)
	}
	return rawPayload(f), nil
}

func rawPayload(f *Font) Payload {
	p := Payload{Data: f.Data}
	switch f.Kind {
	case KindTrueType, KindType0TrueType:
		p.MIMEType = MIMETrueType
		p.Ext = "ttf"
	default:
		p.MIMEType = "application/octet-stream"
		p.Ext = "bin"
	}
	return p
}

// nextAlias returns name, or name followed by the smallest positive
// integer which makes it unique within the table.
func (t *Table) nextAlias(name string) string {
	alias := name
	for i := 1; t.aliases[alias]; i++ {
		alias = name + strconv.Itoa(i)
	}
	t.aliases[alias] = true
	return alias
}

var familyRegexp = regexp.MustCompile(`([^+^-]*)[+-]([^+]*)`)

// familyName derives a CSS family name from a PDF font name.  The font
// family is not always available in the PDF file, so it is reconstructed
// from names like "ABCDEF+Arial-BoldMT".  Browsers do not accept "+" in
// family names.
func familyName(fontName string) string {
	name := fontName
	if m := familyRegexp.FindStringSubmatch(fontName); m != nil {
		name = m[1] + " " + m[2]
	}
	return strings.ReplaceAll(name, "+", " ")
}
