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

// Package docinfo extracts document level information, like the title,
// from the PDF document information dictionary and XMP metadata.
package docinfo

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"
)

// DefaultTitle is used for documents without a title.
const DefaultTitle = "PDF Document"

// Info is the document level information supplied with a document.
type Info struct {
	// Title is the /Title entry of the document information dictionary.
	Title string

	// Metadata is the XMP metadata packet of the document catalog,
	// or nil.
	Metadata []byte

	// Lang lists the preferred languages for localized values.
	Lang []language.Tag
}

// DocumentTitle returns the title of the document.
//
// A non-blank title in the document information dictionary is used first.
// Otherwise, the dc:title property of the XMP metadata is used, choosing
// the localized value which best matches info.Lang.  If no title is found,
// def is returned.
func (info *Info) DocumentTitle(def string) string {
	if info == nil {
		return def
	}
	if strings.TrimSpace(info.Title) != "" {
		return info.Title
	}
	if len(info.Metadata) > 0 {
		title, err := xmpTitle(info.Metadata, info.Lang)
		if err == nil && strings.TrimSpace(title) != "" {
			return title
		}
	}
	return def
}

func xmpTitle(data []byte, prefs []language.Tag) (string, error) {
	packet, err := xmp.Read(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docinfo: %w", err)
	}
	dc := &xmp.DublinCore{}
	packet.Get(dc)
	return chooseLocalized(dc.Title, prefs), nil
}

var xDefault = language.MustParse("x-default")

// chooseLocalized picks one value of a language alternative.
func chooseLocalized(alt xmp.Localized, prefs []language.Tag) string {
	var tags []language.Tag
	for tag, v := range alt.V {
		if strings.TrimSpace(v.V) != "" {
			tags = append(tags, tag)
		}
	}
	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	if len(prefs) > 0 && len(tags) > 0 {
		m := language.NewMatcher(tags)
		_, idx, conf := m.Match(prefs...)
		if conf != language.No {
			return alt.V[tags[idx]].V
		}
	}
	if strings.TrimSpace(alt.Default.V) != "" {
		return alt.Default.V
	}
	if v, ok := alt.V[xDefault]; ok && strings.TrimSpace(v.V) != "" {
		return v.V
	}
	if len(tags) > 0 {
		return alt.V[tags[0]].V
	}
	return ""
}
