// seehuhn.de/go/facturx - embed and extract XML in hybrid PDF/A-3 files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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

package classify

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/text/encoding/ianaindex"
)

// Document is a parsed XML business document.
// A Document is immutable once parsed and may be shared between goroutines.
type Document struct {
	raw  []byte
	doc  *xmlquery.Node
	root *xmlquery.Node
	ns   map[string]string
}

// SyntaxError is returned by [Parse] for input which is not well-formed XML.
type SyntaxError struct {
	Err error
}

func (err *SyntaxError) Error() string {
	return "invalid XML syntax: " + err.Err.Error()
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

// Parse parses an XML document.
// Entity declarations are not expanded.
func Parse(data []byte) (*Document, error) {
	opt := xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict:        true,
			Entity:        map[string]string{},
			CharsetReader: charsetReader,
		},
	}
	doc, err := xmlquery.ParseWithOptions(bytes.NewReader(data), opt)
	if err != nil {
		return nil, &SyntaxError{Err: err}
	}

	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, &SyntaxError{Err: io.ErrUnexpectedEOF}
	}

	d := &Document{
		raw:  data,
		doc:  doc,
		root: root,
	}
	d.ns = d.namespaces()
	return d, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Bytes returns the original XML data.
// The caller must not modify the returned slice.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Root returns the local name and the namespace URI of the root element.
func (d *Document) Root() (local, space string) {
	return d.root.Data, d.root.NamespaceURI
}

// namespaces builds the prefix map used for XPath queries.
//
// The prefixes rsm, ram, udt and qdt are always bound to the namespaces
// used by the document for these roles, even if the document itself uses
// different prefixes.  Other prefixes declared in the document are added
// as they are.
func (d *Document) namespaces() map[string]string {
	ns := map[string]string{}
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for _, a := range n.Attr {
			if a.Name.Space != "xmlns" || a.Name.Local == "" {
				continue
			}
			if _, seen := ns[a.Name.Local]; !seen {
				ns[a.Name.Local] = a.Value
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.ElementNode {
				walk(c)
			}
		}
	}
	walk(d.root)

	uris := make([]string, 0, len(ns))
	for _, uri := range ns {
		uris = append(uris, uri)
	}
	for _, uri := range uris {
		switch {
		case strings.Contains(uri, "ReusableAggregateBusinessInformationEntity"):
			ns["ram"] = uri
		case strings.Contains(uri, "UnqualifiedDataType"):
			ns["udt"] = uri
		case strings.Contains(uri, "QualifiedDataType"):
			ns["qdt"] = uri
		}
	}
	ns["rsm"] = d.root.NamespaceURI
	return ns
}

// find returns the first node matching the XPath expression, or nil.
func (d *Document) find(expr string) (*xmlquery.Node, error) {
	e, err := xpath.CompileWithNS(expr, d.ns)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelector(d.doc, e), nil
}

// Text returns the trimmed text content of the first node matching the
// XPath expression.  The second return value is false if there is no
// such node.
//
// The prefixes rsm, ram, udt and qdt can be used in expr, see the
// package documentation.
func (d *Document) Text(expr string) (string, bool, error) {
	n, err := d.find(expr)
	if err != nil || n == nil {
		return "", false, err
	}
	return strings.TrimSpace(n.InnerText()), true, nil
}

func (d *Document) attr(expr, name string) (string, error) {
	n, err := d.find(expr)
	if err != nil || n == nil {
		return "", err
	}
	return n.SelectAttr(name), nil
}
