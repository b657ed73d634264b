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

// Package pdfcopy copies the page tree of a PDF document, together with the
// catalog entries that belong to its visual representation, into a new file.
package pdfcopy

import (
	"golang.org/x/text/language"
	"seehuhn.de/go/pdf"
)

// Document describes what [CopyDocument] has transferred into the target
// file.
type Document struct {
	// Pages is the root of the copied page tree.
	Pages pdf.Reference

	// NumPages is the /Count entry of the page tree root.
	NumPages int

	// OutputIntents is the copied /OutputIntents array of the source
	// catalog, or nil if the source has none.
	OutputIntents pdf.Array

	// Lang is the natural language declared by the source document.
	Lang language.Tag
}

// CopyDocument copies the page tree and the output intents of the
// document read by r into w, and installs them in the catalog of w.
// All other catalog entries of the source are discarded.
func CopyDocument(w *pdf.Writer, r pdf.Getter) (*Document, error) {
	src := r.GetMeta().Catalog
	if src == nil || src.Pages == 0 {
		return nil, pdf.Errorf("missing page tree")
	}

	c := pdf.NewCopier(w, r)
	pages, err := c.CopyReference(src.Pages)
	if err != nil {
		return nil, err
	}
	res := &Document{
		Pages: pages,
		Lang:  src.Lang,
	}

	root, err := pdf.GetDict(r, src.Pages)
	if err != nil {
		return nil, err
	}
	if count, err := pdf.Optional(pdf.GetInteger(r, root["Count"])); err != nil {
		return nil, err
	} else {
		res.NumPages = int(count)
	}

	if src.OutputIntents != nil {
		intents, err := pdf.Optional(pdf.GetArray(r, src.OutputIntents))
		if err != nil {
			return nil, err
		}
		if len(intents) > 0 {
			res.OutputIntents, err = c.CopyArray(intents)
			if err != nil {
				return nil, err
			}
		}
	}

	dst := w.GetMeta().Catalog
	dst.Pages = res.Pages
	if res.OutputIntents != nil {
		dst.OutputIntents = res.OutputIntents
	}
	if src.Lang != language.Und {
		dst.Lang = src.Lang
	}
	return res, nil
}
