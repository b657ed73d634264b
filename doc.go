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

// Package facturx embeds XML business documents into PDF files, and
// extracts them again.
//
// The resulting hybrid documents follow the Factur-X, ZUGFeRD and Order-X
// conventions: the XML is stored as an associated file of a PDF/A-3
// document, and the XMP metadata declares the dialect and conformance
// level of the embedded document.
//
// Use [Embed], [EmbedBytes] or [EmbedFile] to create a hybrid document,
// and [Extract] to read the XML back.  [CheckXML] validates an XML
// document without touching any PDF file, and [Inspect] summarizes the
// hybrid document properties of an existing PDF file.
package facturx
