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

	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/profile"
)

// GenerateFromBinary adds an XML business document to an in-memory PDF
// file.  The flavor is always determined from the document.  The level is
// given by name, "autodetect" or "" determines it from the document.
//
// Deprecated: Use [EmbedBytes].
func GenerateFromBinary(pdfData, xml []byte, level string, checkSchema bool, meta *metadata.Fields) ([]byte, error) {
	opt, err := legacyOptions(level, checkSchema, meta)
	if err != nil {
		return nil, err
	}
	out, _, err := EmbedBytes(pdfData, xml, opt)
	return out, err
}

// GenerateFromFile adds an XML business document to a PDF file.  If
// outPath is empty, the input file is replaced.
//
// Deprecated: Use [EmbedFile].
func GenerateFromFile(pdfPath string, xml []byte, level string, checkSchema bool, meta *metadata.Fields, outPath string) error {
	opt, err := legacyOptions(level, checkSchema, meta)
	if err != nil {
		return err
	}
	_, err = EmbedFile(pdfPath, xml, outPath, opt)
	return err
}

// GetXMLFromPDF returns the name and contents of the XML document embedded
// in a PDF file.  If no document is found, the name is empty and the
// contents are nil.
//
// Deprecated: Use [Extract].
func GetXMLFromPDF(pdfData []byte, checkSchema bool) (string, []byte, error) {
	p, err := Extract(bytes.NewReader(pdfData), &ExtractOptions{CheckSchema: checkSchema})
	if err != nil || p == nil {
		return "", nil, err
	}
	return p.Filename, p.Data, nil
}

func legacyOptions(level string, checkSchema bool, meta *metadata.Fields) (*Options, error) {
	l, err := profile.ParseLevel(level)
	if err != nil {
		return nil, stepError(StepLevel, err)
	}
	return &Options{
		Level:          l,
		SkipValidation: !checkSchema,
		Metadata:       meta,
	}, nil
}
