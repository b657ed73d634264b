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

package memfile

import (
	"errors"
	"io"

	"seehuhn.de/go/pdf"
)

// MemFile is an in-memory file.
type MemFile struct {
	// Data are the file contents.
	Data []byte

	// Offset is the current file offset.
	Offset int64
}

var _ io.ReadWriteSeeker = (*MemFile)(nil)

// New returns an empty MemFile.
func New() *MemFile {
	return &MemFile{}
}

// Write writes p at the current offset, growing the file as needed.
func (f *MemFile) Write(p []byte) (int, error) {
	end := f.Offset + int64(len(p))
	if end > int64(len(f.Data)) {
		f.Data = append(f.Data, make([]byte, end-int64(len(f.Data)))...)
	}
	n := copy(f.Data[f.Offset:end], p)
	f.Offset = end
	return n, nil
}

// Read reads from the current offset.
func (f *MemFile) Read(p []byte) (int, error) {
	if f.Offset >= int64(len(f.Data)) {
		return 0, io.EOF
	}
	n := copy(p, f.Data[f.Offset:])
	f.Offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read or Write.
func (f *MemFile) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.Offset + offset
	case io.SeekEnd:
		pos = int64(len(f.Data)) + offset
	default:
		return 0, errInvalidWhence
	}
	if pos < 0 {
		return 0, errInvalidOffset
	}
	f.Offset = pos
	return pos, nil
}

// NewPDFWriter returns a PDF writer which stores the file in memory.
// After the writer has been closed, the file can be read back using
// [MemFile.NewReader].
func NewPDFWriter(v pdf.Version, opt *pdf.WriterOptions) (*pdf.Writer, *MemFile, error) {
	f := New()
	w, err := pdf.NewWriter(f, v, opt)
	if err != nil {
		return nil, nil, err
	}
	return w, f, nil
}

// NewReader opens the PDF file stored in f.
func (f *MemFile) NewReader(opt *pdf.ReaderOptions) (*pdf.Reader, error) {
	_, err := f.Seek(0, io.SeekStart)
	if err != nil {
		return nil, err
	}
	return pdf.NewReader(f, opt)
}

var (
	errInvalidWhence = errors.New("invalid whence")
	errInvalidOffset = errors.New("invalid offset")
)
