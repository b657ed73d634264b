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
	"bytes"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/nametree"
	"seehuhn.de/go/facturx/profile"
)

// Payload is an XML business document found in a hybrid PDF file.
type Payload struct {
	// Filename is the name of the attachment, for example "factur-x.xml".
	Filename string

	Data []byte
}

// Extract returns the XML business document embedded in a PDF file.
//
// If the file contains no recognizable XML document, the result is nil
// and no error is returned.  This includes files which cannot be parsed,
// malformed name trees, and (if opt.CheckSchema is set) documents which
// fail validation.  The reason is logged.  Only invalid arguments are
// reported as errors.
func Extract(src io.ReadSeeker, opt *ExtractOptions) (*Payload, error) {
	if opt == nil {
		opt = &ExtractOptions{}
	}
	if src == nil {
		return nil, fmt.Errorf("%w: missing PDF input", ErrInvalidArgument)
	}
	logger := loggerOrDiscard(opt.Logger)

	r, err := pdf.NewReader(src, &pdf.ReaderOptions{ReadPassword: opt.ReadPassword})
	if err != nil {
		logger.Warn("cannot read PDF file", "error", err)
		return nil, nil
	}
	defer r.Close()

	root, err := embeddedFiles(r)
	if err != nil {
		logger.Warn("cannot read name dictionary", "error", err)
		return nil, nil
	} else if root == nil {
		logger.Info("no embedded files")
		return nil, nil
	}

	entry, err := nametree.Find(r, root, profile.ReservedFilenames...)
	if errors.Is(err, nametree.ErrKeyNotFound) {
		logger.Info("no XML business document among the embedded files")
		return nil, nil
	} else if err != nil {
		logger.Warn("cannot read embedded files", "error", err)
		return nil, nil
	}

	att, err := attachment.Decode(r, entry.Value)
	if err != nil {
		logger.Warn("cannot read attachment", "name", entry.Key, "error", err)
		return nil, nil
	}
	if !att.CheckSumOK() {
		logger.Warn("checksum mismatch", "name", entry.Key)
	}

	if opt.CheckSchema {
		_, err := checkXML(att.Data, 0, 0, opt.Validator, logger)
		if err != nil {
			logger.Warn("embedded XML document is not valid", "name", entry.Key, "error", err)
			return nil, nil
		}
	}

	logger.Debug("XML document extracted", "name", entry.Key, "size", len(att.Data))
	return &Payload{Filename: entry.Key, Data: att.Data}, nil
}

// ExtractBytes is like [Extract], but reads the PDF file from memory.
func ExtractBytes(pdfData []byte, opt *ExtractOptions) (*Payload, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("%w: empty PDF file", ErrInvalidArgument)
	}
	return Extract(bytes.NewReader(pdfData), opt)
}

// embeddedFiles returns the root of the EmbeddedFiles name tree, or nil if
// the document has none.
func embeddedFiles(r pdf.Getter) (pdf.Object, error) {
	cat := r.GetMeta().Catalog
	if cat == nil || cat.Names == nil {
		return nil, nil
	}
	names, err := pdf.GetDict(r, cat.Names)
	if err != nil {
		return nil, err
	}
	return names["EmbeddedFiles"], nil
}
