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

package boxtree

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML returns the document as an HTML node tree.
func (doc *Document) HTML() *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta,
		"http-equiv", "content-type",
		"content", "text/html;charset=utf-8"))
	title := element(atom.Title)
	title.AppendChild(text(doc.Title))
	head.AppendChild(title)
	style := element(atom.Style, "type", "text/css")
	style.AppendChild(text(doc.GlobalStyle))
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	for _, p := range doc.Pages {
		body.AppendChild(p.HTML())
	}
	htmlEl.AppendChild(body)

	return root
}

// HTML returns the page as a div element.
func (p *Page) HTML() *html.Node {
	div := element(atom.Div,
		"id", p.ID,
		"class", "page",
		"style", p.Style.String())
	for _, n := range p.Children {
		div.AppendChild(n.HTML())
	}
	return div
}

// HTML returns the box as an element node.
func (n *Node) HTML() *html.Node {
	if n.Kind == KindImage {
		return element(atom.Img,
			"style", n.Style.String(),
			"src", n.Src)
	}

	var attrs []string
	if n.ID != "" {
		attrs = append(attrs, "id", n.ID)
	}
	attrs = append(attrs, "class", n.Class, "style", n.Style.String())
	div := element(atom.Div, attrs...)
	if n.Text != "" {
		div.AppendChild(text(n.Text))
	}
	return div
}

// WriteHTML writes the document as an HTML file.
func (doc *Document) WriteHTML(w io.Writer) error {
	return html.Render(w, doc.HTML())
}

// element creates an element node.  The attributes are given as
// alternating keys and values.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
