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

// Package pdfcheck validates PDF files with an independent PDF
// implementation.
//
// Hybrid documents are written by seehuhn.de/go/pdf.  Reading them back
// with pdfcpu catches structural problems which a round trip through the
// same library would hide.
package pdfcheck

import (
	"fmt"
	"io"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Report summarizes a validated PDF file.
type Report struct {
	// Pages is the number of pages.
	Pages int

	// Attachments lists the names of the embedded files, sorted.
	Attachments []string
}

// Check reads and validates a PDF file.
func Check(rs io.ReadSeeker) (*Report, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu validate: %w", err)
	}
	res := &Report{
		Pages: ctx.PageCount,
	}

	_, err = rs.Seek(0, io.SeekStart)
	if err != nil {
		return nil, err
	}
	attachments, err := api.Attachments(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu attachments: %w", err)
	}
	for _, a := range attachments {
		res.Attachments = append(res.Attachments, a.FileName)
	}
	slices.Sort(res.Attachments)

	return res, nil
}
