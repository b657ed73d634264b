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

package attachment

import (
	"bytes"
	"io"
	"slices"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/file"
)

// PDF 2.0 sections: 7.11.3 7.11.4 14.13

// EncodeName returns the byte string used for a file name, both as the key
// in the EmbeddedFiles name tree and as the /F and /UF entries of the file
// specification.  Names are stored in PDFDocEncoding where possible, and
// as UTF-16BE with a byte order mark otherwise.
func EncodeName(name string) pdf.String {
	return pdf.TextString(name).AsPDF(0).(pdf.String)
}

// Sort orders the entries by the byte values of their encoded names.
// This is the key order required for name tree leaves.
func Sort(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return bytes.Compare(EncodeName(a.Filename), EncodeName(b.Filename))
	})
}

// Embedded holds the objects created by [Embed].
type Embedded struct {
	// Names is the /Names array of a single-leaf EmbeddedFiles name tree.
	Names pdf.Array

	// AF is the associated files array.  The file specifications appear
	// in the same order as in Names.
	AF pdf.Array
}

// Embed writes the embedded file streams and file specification
// dictionaries for all entries.  The entries are sorted in place, see
// [Sort].
func Embed(w *pdf.Writer, entries []*Entry) (*Embedded, error) {
	Sort(entries)

	rm := pdf.NewResourceManager(w)
	res := &Embedded{}
	for _, e := range entries {
		ref, err := e.embed(rm)
		if err != nil {
			return nil, err
		}
		res.Names = append(res.Names, EncodeName(e.Filename), ref)
		res.AF = append(res.AF, ref)
	}

	err := rm.Close()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Entry) embed(rm *pdf.ResourceManager) (pdf.Reference, error) {
	stm := &file.Stream{
		MimeType:     e.MimeType,
		Size:         int64(len(e.Data)),
		CreationDate: e.CreationDate,
		ModDate:      e.ModDate,
		CheckSum:     e.CheckSum,
		WriteData: func(w io.Writer) error {
			_, err := w.Write(e.Data)
			return err
		},
	}
	streamRef, err := rm.Embed(stm)
	if err != nil {
		return 0, err
	}

	// The file specification library gates /AFRelationship on PDF 2.0,
	// but PDF/A-3 requires it in PDF 1.7 files.  The names and the
	// description are encoded by the library, the entries for the
	// associated file are added here.
	spec := &file.Specification{
		FileName:        e.Filename,
		FileNameUnicode: e.Filename,
		Description:     e.Description,
		SingleUse:       true,
	}
	obj, err := rm.Embed(spec)
	if err != nil {
		return 0, err
	}
	dict, ok := obj.(pdf.Dict)
	if !ok {
		return 0, pdf.Errorf("attachment %q: unexpected file specification %T", e.Filename, obj)
	}
	dict["Type"] = pdf.Name("Filespec")
	dict["EF"] = pdf.Dict{
		"F":  streamRef,
		"UF": streamRef,
	}
	if e.Relationship != "" {
		dict["AFRelationship"] = pdf.Name(e.Relationship)
	}

	specRef := rm.Out.Alloc()
	err = rm.Out.Put(specRef, dict)
	if err != nil {
		return 0, err
	}
	return specRef, nil
}
