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

// Package metadata composes the document level metadata of hybrid PDF
// files: the XMP metadata stream required by PDF/A-3 and the document
// information dictionary.
package metadata

import (
	"io"
	"strings"
	"unicode"

	"seehuhn.de/go/pdf"
)

// PDF 2.0 sections: 14.3

// Fields holds the human readable description of a document.
type Fields struct {
	Author   string
	Title    string
	Subject  string
	Keywords string
}

// Sanitize returns a copy of f with control characters other than tab and
// newline removed and surrounding white space trimmed.  A nil receiver
// gives the zero value.
func (f *Fields) Sanitize() *Fields {
	if f == nil {
		return &Fields{}
	}
	clean := func(s string) string {
		s = strings.Map(func(r rune) rune {
			if r == unicode.ReplacementChar || (unicode.IsControl(r) && r != '\t' && r != '\n') {
				return -1
			}
			return r
		}, s)
		return strings.TrimSpace(s)
	}
	return &Fields{
		Author:   clean(f.Author),
		Title:    clean(f.Title),
		Subject:  clean(f.Subject),
		Keywords: clean(f.Keywords),
	}
}

// Embed writes an XMP metadata stream to w and returns its reference.
//
// The stream is stored without compression, so that the packet header can
// be located by byte scanning as permitted by the XMP specification.
func Embed(w *pdf.Writer, packet []byte) (pdf.Reference, error) {
	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	body, err := w.OpenStream(ref, dict)
	if err != nil {
		return 0, err
	}
	_, err = body.Write(packet)
	if err != nil {
		return 0, err
	}
	err = body.Close()
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// ReadStream returns the decoded contents of the metadata stream referenced
// by obj.  If obj is nil, nil is returned.
func ReadStream(r pdf.Getter, obj pdf.Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	body, err := pdf.GetStreamReader(r, obj)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
