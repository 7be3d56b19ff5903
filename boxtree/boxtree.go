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

// Package boxtree assembles the converted page content into a tree of
// absolutely positioned boxes, which can be written as HTML.
//
// The tree consists of one [Page] per converted PDF page.  Pages contain
// text boxes, rectangles, lines and images in content stream order.
package boxtree

import (
	"log/slog"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/css"
	"seehuhn.de/go/pdf2dom/fonttable"
	"seehuhn.de/go/pdf2dom/resource"
	"seehuhn.de/go/pdf2dom/shape"
	"seehuhn.de/go/pdf2dom/textrun"
	"seehuhn.de/go/pdf2dom/transform"
)

// Kind identifies the type of a [Node].
type Kind int

// These are the node kinds.
const (
	KindText Kind = iota
	KindRect
	KindLine
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Node is a positioned box on a page.
type Node struct {
	Kind  Kind
	Order int    // unique within one document, increasing
	ID    string // only set for text boxes
	Class string
	Style css.Declarations

	Text string // for KindText
	Src  string // for KindImage
}

// Page is the container for the boxes of one page.
type Page struct {
	Order int
	ID    string
	Style css.Declarations

	Children []*Node
}

// Document is the result of a conversion.
type Document struct {
	Title       string
	GlobalStyle string
	Pages       []*Page
}

// Builder creates a [Document].
// A Builder is not safe for concurrent use.
type Builder struct {
	// FontHandler stores the font files referenced by @font-face rules.
	// If this is nil, fonts are embedded.
	FontHandler resource.Handler

	// ImageHandler stores images.  If this is nil, images are embedded.
	ImageHandler resource.Handler

	// DisableImageData suppresses image data.  Image boxes are still
	// generated, but their source is empty.
	DisableImageData bool

	// Logger receives warnings.  If this is nil, warnings are discarded.
	Logger *slog.Logger

	doc  *Document
	page *Page

	order     int
	pageCount int
	textCount int
}

// NewBuilder returns a Builder with default resource handlers.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{Logger: logger}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

func (b *Builder) fontHandler() resource.Handler {
	if b.FontHandler == nil {
		return resource.Embed{}
	}
	return b.FontHandler
}

func (b *Builder) imageHandler() resource.Handler {
	if b.ImageHandler == nil {
		return resource.Embed{}
	}
	return b.ImageHandler
}

// WantFonts reports whether font programs are needed for the output.
// If the font handler ignores all resources, font processing can be
// skipped.
func (b *Builder) WantFonts() bool {
	return !resource.IsIgnore(b.fontHandler())
}

// StartDocument starts a new document.  Counters for page and box ids
// are reset.
func (b *Builder) StartDocument() {
	b.doc = &Document{Title: DefaultTitle}
	b.page = nil
	b.order = 0
	b.pageCount = 0
	b.textCount = 0
}

func (b *Builder) nextOrder() int {
	b.order++
	return b.order
}

// StartPage starts a new page.  If geom is nil, the page size is unknown
// and the page box gets no explicit size.
func (b *Builder) StartPage(geom *transform.Geometry) {
	if b.doc == nil {
		b.StartDocument()
	}
	b.FinishPage()

	p := &Page{
		Order: b.nextOrder(),
		ID:    "page_" + itoa(b.pageCount),
	}
	b.pageCount++

	if geom != nil && !geom.IsZero() {
		w, h := geom.Size()
		p.Style.AddLength("width", w)
		p.Style.AddLength("height", h)
		p.Style.Add("overflow", "hidden")
	} else {
		b.logger().Warn("no page geometry", "page", p.ID)
	}

	b.page = p
	b.doc.Pages = append(b.doc.Pages, p)
}

// FinishPage closes the current page, if any.
func (b *Builder) FinishPage() {
	b.page = nil
}

func (b *Builder) add(n *Node) {
	if b.page == nil {
		b.logger().Warn("content outside of page", "kind", n.Kind)
		return
	}
	n.Order = b.nextOrder()
	b.page.Children = append(b.page.Children, n)
}

// AddText adds a text box for a finished run.
func (b *Builder) AddText(run *textrun.Run) {
	style := run.Style.Declarations()
	style.AddLength("width", run.Metrics.Width)
	n := &Node{
		Kind:  KindText,
		ID:    "p" + itoa(b.textCount),
		Class: "p",
		Style: style,
		Text:  run.Text,
	}
	b.textCount++
	b.add(n)
}

// AddRectangle adds a rectangle.  The stroke color is used for the border,
// the fill color for the background.
func (b *Builder) AddRectangle(r *shape.Rectangle, fill, stroke color.Color) {
	b.add(&Node{
		Kind:  KindRect,
		Class: "r",
		Style: RectangleStyle(r, fill, stroke),
		Text:  nbsp,
	})
}

// AddLine adds a line.
func (b *Builder) AddLine(l *shape.Line, stroke color.Color) {
	b.add(&Node{
		Kind:  KindLine,
		Class: "r",
		Style: NewDivLine(l).Declarations(stroke),
		Text:  nbsp,
	})
}

// AddImage adds an image which covers the given area.
// The image data is passed to the image handler.
func (b *Builder) AddImage(bounds rect.Rect, img *resource.Resource) {
	src := ""
	if !b.DisableImageData && img != nil {
		var err error
		src, err = b.imageHandler().Handle(img)
		if err != nil {
			b.logger().Warn("image not stored", "image", img.Name, "err", err)
			src = ""
		}
	}
	b.add(&Node{
		Kind:  KindImage,
		Style: ImageStyle(bounds),
		Src:   src,
	})
}

// FinishDocument completes the document.  The global style sheet
// contains one @font-face rule for every usable font in fonts.  A
// non-blank title replaces the default title.  The finished document
// can be retrieved using [Builder.Document].
func (b *Builder) FinishDocument(fonts *fonttable.Table, title string) {
	if b.doc == nil {
		b.StartDocument()
	}
	b.FinishPage()

	if !isBlank(title) {
		b.doc.Title = title
	}
	b.doc.GlobalStyle = b.fontFaces(fonts) + "\n" + DefaultStyle
}

// Document returns the document under construction, or the finished
// document after [Builder.FinishDocument] has been called.
func (b *Builder) Document() *Document {
	return b.doc
}

// SetHandlers replaces the resource handlers for fonts and images.
// A nil handler leaves the corresponding setting unchanged.
func (b *Builder) SetHandlers(fonts, images resource.Handler) {
	if fonts != nil {
		b.FontHandler = fonts
	}
	if images != nil {
		b.ImageHandler = images
	}
}
