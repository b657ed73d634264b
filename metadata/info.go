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

package metadata

import (
	"seehuhn.de/go/pdf"
)

// InfoDateFormat is the layout of the dates in the document information
// dictionary.
const InfoDateFormat = "D:20060102150405+00'00'"

// Info returns the document information dictionary matching an XMP packet
// composed from the same description.
//
// PDF/A requires the entries of the information dictionary to agree with
// their XMP counterparts, so the dates are truncated to whole seconds in
// UTC, exactly as in the packet.
func Info(desc *Description) *pdf.Info {
	fields := desc.Fields.Sanitize()
	date := desc.Date.UTC().Format(InfoDateFormat)
	return &pdf.Info{
		Title:    pdf.TextString(fields.Title),
		Author:   pdf.TextString(fields.Author),
		Subject:  pdf.TextString(fields.Subject),
		Keywords: pdf.TextString(fields.Keywords),
		Creator:  pdf.TextString(desc.CreatorTool),
		Producer: pdf.TextString(desc.Producer),

		// pdf.Date leaves out the closing apostrophe of the UTC offset.
		Custom: map[string]string{
			"CreationDate": date,
			"ModDate":      date,
		},
	}
}
