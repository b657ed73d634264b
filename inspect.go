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

package facturx

import (
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/nametree"
	"seehuhn.de/go/facturx/profile"
)

// Report summarizes the hybrid document properties of a PDF file.
type Report struct {
	// Version is the PDF version of the file.
	Version string

	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	PageMode string
	Lang     string

	// NumOutputIntents is the number of entries in /OutputIntents.
	NumOutputIntents int

	// NumAF is the number of entries in the /AF array of the catalog.
	NumAF int

	// Attachments lists the embedded files in name tree order.
	Attachments []*AttachmentInfo

	// XMP holds the hybrid document properties of the XMP metadata, or is
	// nil if the file has no metadata stream.
	XMP *metadata.Properties

	// Payload is the name of the XML business document, or the empty
	// string if the file has none.
	Payload string
}

// AttachmentInfo describes one embedded file.
type AttachmentInfo struct {
	Filename     string
	Description  string
	MimeType     string
	Size         int
	ModDate      time.Time
	Relationship attachment.Relationship
	CheckSumOK   bool
}

// Inspect reads a PDF file and reports its hybrid document properties.
// Unlike [Extract], Inspect reports structural problems as errors.
func Inspect(src io.ReadSeeker, opt *ExtractOptions) (*Report, error) {
	if opt == nil {
		opt = &ExtractOptions{}
	}
	if src == nil {
		return nil, fmt.Errorf("%w: missing PDF input", ErrInvalidArgument)
	}
	logger := loggerOrDiscard(opt.Logger)

	r, err := pdf.NewReader(src, &pdf.ReaderOptions{ReadPassword: opt.ReadPassword})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	meta := r.GetMeta()
	res := &Report{
		Version: meta.Version.String(),
	}
	if info := meta.Info; info != nil {
		res.Title = string(info.Title)
		res.Author = string(info.Author)
		res.Subject = string(info.Subject)
		res.Keywords = string(info.Keywords)
		res.Creator = string(info.Creator)
		res.Producer = string(info.Producer)
	}

	cat := meta.Catalog
	res.PageMode = string(cat.PageMode)
	if !cat.Lang.IsRoot() {
		res.Lang = cat.Lang.String()
	}
	if intents, err := pdf.Optional(pdf.GetArray(r, cat.OutputIntents)); err != nil {
		return nil, err
	} else {
		res.NumOutputIntents = len(intents)
	}
	if af, err := pdf.Optional(pdf.GetArray(r, cat.AF)); err != nil {
		return nil, err
	} else {
		res.NumAF = len(af)
	}

	if cat.Metadata != 0 {
		packet, err := metadata.ReadStream(r, cat.Metadata)
		if err != nil {
			return nil, err
		}
		res.XMP, err = metadata.Read(packet)
		if err != nil {
			logger.Warn("cannot parse XMP metadata", "error", err)
		}
	}

	root, err := embeddedFiles(r)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return res, nil
	}
	leaves, err := nametree.Leaves(r, root)
	if err != nil {
		return nil, err
	}
	for _, leaf := range leaves {
		e, err := attachment.Decode(r, leaf.Value)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", leaf.Key, err)
		}
		res.Attachments = append(res.Attachments, &AttachmentInfo{
			Filename:     leaf.Key,
			Description:  e.Description,
			MimeType:     e.MimeType,
			Size:         e.Size(),
			ModDate:      e.ModDate,
			Relationship: e.Relationship,
			CheckSumOK:   e.CheckSumOK(),
		})
		if res.Payload == "" && profile.IsReserved(leaf.Key) {
			res.Payload = leaf.Key
		}
	}

	return res, nil
}
