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
	"crypto/md5"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/file"
)

// Decode reads a file specification dictionary together with the embedded
// file stream it refers to.
func Decode(r pdf.Getter, obj pdf.Object) (*Entry, error) {
	x := pdf.NewExtractor(r)
	spec, err := file.ExtractSpecification(x, obj)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Filename:     spec.FileNameUnicode,
		Description:  spec.Description,
		Relationship: Relationship(spec.AFRelationship),
	}
	if e.Filename == "" {
		e.Filename = spec.FileName
	}

	stm := spec.EmbeddedFiles["UF"]
	if stm == nil {
		stm = spec.EmbeddedFiles["F"]
	}
	if stm == nil {
		return nil, pdf.Errorf("attachment %q: missing embedded file stream", e.Filename)
	}
	e.MimeType = stm.MimeType
	e.CreationDate = stm.CreationDate
	e.ModDate = stm.ModDate
	e.CheckSum = stm.CheckSum

	buf := &bytes.Buffer{}
	err = stm.WriteData(buf)
	if err != nil {
		return nil, err
	}
	e.Data = buf.Bytes()

	return e, nil
}

// CheckSumOK reports whether the stored MD5 checksum matches the data.
// Entries without a checksum are reported as correct.
func (e *Entry) CheckSumOK() bool {
	if len(e.CheckSum) == 0 {
		return true
	}
	sum := md5.Sum(e.Data)
	return bytes.Equal(sum[:], e.CheckSum)
}
