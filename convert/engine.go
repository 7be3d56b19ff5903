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


// Package convert turns the drawing events of PDF pages into a box tree.
//
// An [Engine] receives decoded content stream events, either through typed
// methods like [Engine.MoveTo] and [Engine.ShowGlyph] or as raw operators
// through [Engine.Do].  It keeps track of the graphics state, groups glyphs
// into runs of text, classifies painted paths and passes the results to a
// [TreeBuilder].
//
// Pages are processed one at a time.  Fonts are collected in a
// document-wide [fonttable.Table], so that every font is converted at most
// once.
package convert

import (
	"fmt"
	imgcolor "image/color"
	"log/slog"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdf2dom/color"
	"seehuhn.de/go/pdf2dom/docinfo"
	"seehuhn.de/go/pdf2dom/fonttable"
	"seehuhn.de/go/pdf2dom/raster"
	"seehuhn.de/go/pdf2dom/resource"
	"seehuhn.de/go/pdf2dom/shape"
	"seehuhn.de/go/pdf2dom/textrun"
	"seehuhn.de/go/pdf2dom/transform"
)

// TreeBuilder receives the converted content of a document.
// This is implemented by [boxtree.Builder] and [cssbox.Builder].
type TreeBuilder interface {
	// WantFonts reports whether fonts should be registered in the font
	// table.
	WantFonts() bool

	StartDocument()
	StartPage(geom *transform.Geometry)
	AddText(run *textrun.Run)
	AddRectangle(r *shape.Rectangle, fill, stroke color.Color)
	AddLine(l *shape.Line, stroke color.Color)
	AddImage(bounds rect.Rect, img *resource.Resource)
	FinishPage()
	FinishDocument(fonts *fonttable.Table, title string)
}

// HandlerSetter is implemented by tree builders which store fonts and
// images through resource handlers.
type HandlerSetter interface {
	SetHandlers(fonts, images resource.Handler)
}

// Options control the conversion.
// The zero value converts all pages with default settings.
type Options struct {
	// StartPage and EndPage restrict the conversion to a range of pages.
	// Page numbers start at 1 and the range includes both ends.  A value
	// of 0 leaves the corresponding end of the range open.
	StartPage int
	EndPage   int

	// DisableGraphics suppresses rectangles, lines and rasterized paths.
	DisableGraphics bool

	// DisableImages suppresses image boxes, including the images
	// generated for paths which cannot be represented as boxes.
	DisableImages bool

	// DisableImageData keeps image boxes, but omits the image data.
	DisableImageData bool

	// FontHandler and ImageHandler are passed to tree builders which
	// implement [HandlerSetter].  If nil, the builder's defaults are used.
	FontHandler  resource.Handler
	ImageHandler resource.Handler

	// Thresholds control the splitting of text into runs.  If this is nil,
	// [textrun.DefaultThresholds] is used.
	Thresholds *textrun.Thresholds

	// Logger receives warnings.  If this is nil, [slog.Default] is used.
	Logger *slog.Logger

	// DefaultTitle is used if the document has no title.  If this is empty,
	// [docinfo.DefaultTitle] is used.
	DefaultTitle string

	// Converter re-encodes embedded fonts.  If this is nil,
	// [fonttable.SFNTConverter] is used.
	Converter fonttable.Converter

	// Rasterizer renders paths which are neither rectangles nor
	// axis-parallel lines.  If this is nil, a [raster.Renderer] with
	// default settings is used.
	Rasterizer shape.Rasterizer
}

// state is the part of the PDF graphics state used by the engine.
type state struct {
	CTM           matrix.Matrix
	FillColor     color.Color
	StrokeColor   color.Color
	LineWidth     float64
	WordSpacing   float64
	LetterSpacing float64
	RenderingMode textrun.RenderingMode
}

func newState() state {
	return state{
		CTM:         matrix.Identity,
		FillColor:   color.Black,
		StrokeColor: color.Black,
		LineWidth:   1,
	}
}

// Engine converts drawing events into calls to a [TreeBuilder].
// An Engine is not safe for concurrent use.
type Engine struct {
	tree   TreeBuilder
	opt    Options
	logger *slog.Logger

	fonts *fonttable.Table
	text  *textrun.Builder
	path  *shape.Accumulator

	state
	stack []state
	page  matrix.Matrix
	clip  rect.Rect // visible page area in output space, zero if unknown

	pageNo int  // number of pages seen so far
	active bool // whether the current page is converted
	images int
}

// New creates an engine which sends its output to tree.
// If opt is nil, default options are used.
func New(tree TreeBuilder, opt *Options) *Engine {
	if opt == nil {
		opt = &Options{}
	}
	e := &Engine{
		tree: tree,
		opt:  *opt,
	}

	e.logger = opt.Logger
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.opt.DefaultTitle == "" {
		e.opt.DefaultTitle = docinfo.DefaultTitle
	}
	if e.opt.Converter == nil {
		e.opt.Converter = fonttable.SFNTConverter{}
	}
	if e.opt.Rasterizer == nil {
		e.opt.Rasterizer = &raster.Renderer{}
	}

	if hs, ok := tree.(HandlerSetter); ok {
		hs.SetHandlers(opt.FontHandler, opt.ImageHandler)
	}

	e.fonts = fonttable.New(e.opt.Converter, e.logger)
	e.path = shape.NewAccumulator(e.logger)
	e.state = newState()
	e.page = matrix.Identity

	tree.StartDocument()
	return e
}

// Fonts returns the document's font table.
func (e *Engine) Fonts() *fonttable.Table {
	return e.fonts
}

// inRange reports whether the page with the given 1-based number is
// converted.
func (e *Engine) inRange(pageNo int) bool {
	if e.opt.StartPage > 0 && pageNo < e.opt.StartPage {
		return false
	}
	if e.opt.EndPage > 0 && pageNo > e.opt.EndPage {
		return false
	}
	return true
}

// StartPage begins a new page.  Any open page is finished first.
//
// The fonts in res, including fonts of nested form XObjects, are added to
// the font table before the page content is processed.  Pages outside the
// configured page range are consumed without producing output.
func (e *Engine) StartPage(geom *transform.Geometry, res *fonttable.ResourceDict) {
	e.EndPage()

	e.pageNo++
	e.active = e.inRange(e.pageNo)
	if !e.active {
		return
	}

	if res != nil && e.tree.WantFonts() {
		e.fonts.Discover(res)
	}

	e.state = newState()
	e.stack = e.stack[:0]
	e.page = matrix.Identity
	e.clip = rect.Rect{}
	if !geom.IsZero() {
		e.page = geom.Matrix()
		w, h := geom.Size()
		e.clip = rect.Rect{URx: w, URy: h}
	}
	e.path.EndPath()
	e.path.Page = e.page

	e.text = textrun.NewBuilder(e.tree.AddText, e.fonts)
	if e.opt.Thresholds != nil {
		e.text.Thresholds = *e.opt.Thresholds
	}

	e.tree.StartPage(geom)
}

// EndPage finishes the current page.  Calling EndPage when no page is
// open has no effect.
func (e *Engine) EndPage() {
	if !e.active {
		return
	}
	e.active = false
	e.text.Flush()
	e.path.EndPath()
	e.tree.FinishPage()
}

// Finish completes the document.  The title is taken from info, if
// available.
func (e *Engine) Finish(info *docinfo.Info) {
	e.EndPage()
	e.tree.FinishDocument(e.fonts, info.DocumentTitle(e.opt.DefaultTitle))
}

// RegisterFont adds a font to the font table.  Fonts are normally
// registered through the resource dictionary passed to
// [Engine.StartPage].
func (e *Engine) RegisterFont(f *fonttable.Font) {
	if e.tree.WantFonts() {
		e.fonts.Register(f)
	}
}

// == Graphics state =======================================================

// Save pushes a copy of the graphics state (the q operator).
func (e *Engine) Save() {
	e.stack = append(e.stack, e.state)
}

// Restore pops the graphics state (the Q operator).  Unbalanced calls are
// ignored.
func (e *Engine) Restore() {
	if len(e.stack) == 0 {
		return
	}
	e.state = e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
}

// Concat modifies the current transformation matrix (the cm operator).
func (e *Engine) Concat(m matrix.Matrix) {
	e.CTM = m.Mul(e.CTM)
}

// SetLineWidth sets the line width, in user space units.
func (e *Engine) SetLineWidth(w float64) {
	e.LineWidth = w
}

// SetFillColor sets the color used for filling paths and text.
func (e *Engine) SetFillColor(c color.Color) {
	e.FillColor = c
}

// SetStrokeColor sets the color used for stroking paths and text.
func (e *Engine) SetStrokeColor(c color.Color) {
	e.StrokeColor = c
}

// SetWordSpacing sets the word spacing, in unscaled text space units.
func (e *Engine) SetWordSpacing(w float64) {
	e.WordSpacing = w
}

// SetLetterSpacing sets the character spacing, in unscaled text space
// units.
func (e *Engine) SetLetterSpacing(w float64) {
	e.LetterSpacing = w
}

// SetTextRenderingMode sets the text rendering mode (the Tr operator).
func (e *Engine) SetTextRenderingMode(m textrun.RenderingMode) {
	e.RenderingMode = m
}

// == Paths ================================================================

// MoveTo starts a new subpath.
func (e *Engine) MoveTo(x, y float64) {
	e.path.CTM = e.CTM
	e.path.MoveTo(x, y)
}

// LineTo appends a straight line segment to the current subpath.
func (e *Engine) LineTo(x, y float64) {
	e.path.CTM = e.CTM
	e.path.LineTo(x, y)
}

// ClosePath closes the current subpath.
func (e *Engine) ClosePath() {
	e.path.ClosePath()
}

// Rect appends a rectangle to the current path.
func (e *Engine) Rect(x, y, w, h float64) {
	e.path.CTM = e.CTM
	e.path.Rect(x, y, w, h)
}

// EndPath discards the current path without painting it.
func (e *Engine) EndPath() {
	e.path.EndPath()
}

// Paint paints the current path and starts a new one.
func (e *Engine) Paint(op shape.Paint) {
	lw := math.Abs(transform.Length(e.LineWidth, e.CTM))
	shapes := e.path.Paint(op, lw)
	if !e.active || e.opt.DisableGraphics {
		return
	}

	for _, s := range shapes {
		switch s := s.(type) {
		case *shape.Rectangle:
			e.tree.AddRectangle(s, e.FillColor, e.StrokeColor)
		case *shape.Line:
			e.tree.AddLine(s, e.StrokeColor)
		case *shape.OpaquePath:
			e.addRaster(s)
		}
	}
}

// addRaster renders a path which cannot be represented by boxes, and adds
// it to the page as an image.
func (e *Engine) addRaster(p *shape.OpaquePath) {
	if e.opt.DisableImages {
		return
	}

	var fill, stroke imgcolor.Color
	if p.Fill {
		fill = e.FillColor.RGBA()
	}
	if p.Stroke {
		stroke = e.StrokeColor.RGBA()
	}
	p.Clip = e.clip
	r, err := e.opt.Rasterizer.Rasterize(p, fill, stroke)
	if err != nil {
		e.logger.Warn("path not rendered", "page", e.pageNo, "err", err)
		return
	}

	e.images++
	img := &resource.Resource{
		Name:     fmt.Sprintf("path%d", e.images),
		Data:     r.PNG,
		MIMEType: "image/png",
		Ext:      "png",
	}
	if e.opt.DisableImageData {
		img = nil
	}
	e.tree.AddImage(r.Bounds, img)
}

// == Images and text ======================================================

// unitSquare is the area covered by an image in image space.
var unitSquare = rect.Rect{URx: 1, URy: 1}

// DrawImage places an image.  The image occupies the unit square in user
// space.
func (e *Engine) DrawImage(img *resource.Resource) {
	if !e.active {
		return
	}
	if e.opt.DisableImages {
		e.logger.Debug("image skipped", "page", e.pageNo)
		return
	}
	bounds := transform.BBox(unitSquare, e.CTM.Mul(e.page))
	if e.opt.DisableImageData {
		img = nil
	}
	e.tree.AddImage(bounds, img)
}

// Glyph is a glyph drawn by a text showing operator.
// Coordinates and lengths are in user space, i.e. the text matrix has
// already been applied but the current transformation matrix has not.
type Glyph struct {
	X, Y      float64 // glyph origin, on the baseline
	Width     float64 // advance width
	Height    float64
	Text      string
	Font      fonttable.Identity
	FontSize  float64
	Diacritic bool
}

// ShowGlyph adds a glyph to the current text run.
func (e *Engine) ShowGlyph(g Glyph) {
	if !e.active {
		return
	}

	var d fonttable.Descriptor
	if entry := e.fonts.Lookup(g.Font); entry != nil {
		d = entry.Descriptor
	}

	p := transform.Point(g.X, g.Y, e.CTM, e.page)
	scale := func(w float64) float64 {
		return math.Abs(transform.Length(w, e.CTM))
	}
	e.text.Add(textrun.Glyph{
		X:          p.X,
		Y:          p.Y,
		Width:      scale(g.Width),
		Height:     scale(g.Height),
		Text:       g.Text,
		Font:       g.Font,
		Descriptor: d,
		FontSize:   scale(g.FontSize),
		Diacritic:  g.Diacritic,
	}, &textrun.State{
		FillColor:     e.FillColor,
		StrokeColor:   e.StrokeColor,
		RenderingMode: e.RenderingMode,
		WordSpacing:   scale(e.WordSpacing),
		LetterSpacing: scale(e.LetterSpacing),
	})
}
