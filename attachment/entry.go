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
	"crypto/md5"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"seehuhn.de/go/facturx/profile"
)

var (
	// ErrReservedName is returned for additional attachments which use one
	// of the names reserved for the XML business document.
	ErrReservedName = errors.New("reserved attachment name")

	// ErrInvalidName is returned for attachment names which are empty or
	// contain a path separator.
	ErrInvalidName = errors.New("invalid attachment name")
)

// DefaultMimeType is used when the media type of an attachment cannot be
// determined from its name.
const DefaultMimeType = "application/octet-stream"

// Entry is a file ready to be embedded into a PDF document.
type Entry struct {
	// Filename is the name under which the file is stored in the
	// EmbeddedFiles name tree.  Names are case-sensitive.
	Filename string

	// Data is the uncompressed file contents.
	Data []byte

	// Description is shown by PDF viewers in the attachment list.
	Description string

	// MimeType is the media type of the file, e.g. "text/xml".
	MimeType string

	// CheckSum is the MD5 digest of Data.
	CheckSum []byte

	// CreationDate (optional) is the creation time of the file.
	CreationDate time.Time

	// ModDate (optional) is the last modification time of the file.
	ModDate time.Time

	Relationship Relationship
}

// Size returns the uncompressed size of the file in bytes.
func (e *Entry) Size() int {
	return len(e.Data)
}

// PrimaryParams describes the XML business document to embed.
type PrimaryParams struct {
	XML       []byte
	Profile   profile.Profile
	OrderType profile.OrderType

	// Relationship is the requested /AFRelationship value.
	// The empty value selects [Data].
	Relationship Relationship

	// Date is used as the modification date of the embedded file.
	Date time.Time
}

// Primary returns the attachment entry for the XML business document.
//
// If the requested relationship is not allowed for the profile, [Data] is
// used instead and a warning is returned.
func Primary(p *PrimaryParams) (*Entry, []string) {
	var warnings []string

	rel := p.Relationship
	switch {
	case rel == "":
		rel = Data
	case !rel.ValidForPrimary():
		warnings = append(warnings, fmt.Sprintf(
			"AFRelationship %s is not allowed for the XML document, using Data", rel))
		rel = Data
	case rel != Data && p.Profile.Level().DataOnly():
		warnings = append(warnings, fmt.Sprintf(
			"AFRelationship %s is not allowed for level %s, using Data",
			rel, p.Profile.Level()))
		rel = Data
	}

	f := p.Profile.Flavor()
	sum := md5.Sum(p.XML)
	e := &Entry{
		Filename:     f.Filename(),
		Data:         p.XML,
		Description:  primaryDescription(f, p.OrderType),
		MimeType:     "text/xml",
		CheckSum:     sum[:],
		ModDate:      p.Date,
		Relationship: rel,
	}
	return e, warnings
}

func primaryDescription(f profile.Flavor, t profile.OrderType) string {
	switch f {
	case profile.OrderX:
		switch t {
		case profile.OrderChange:
			return "Order-X Order Change"
		case profile.OrderResponse:
			return "Order-X Order Response"
		default:
			return "Order-X Order"
		}
	case profile.ZUGFeRD:
		return "ZUGFeRD Invoice"
	default:
		return "Factur-X Invoice"
	}
}

// File is an additional file supplied by the caller.
type File struct {
	Filename    string
	Data        []byte
	Description string

	// MimeType (optional) overrides the media type derived from the file
	// name extension.
	MimeType string

	CreationDate time.Time
	ModDate      time.Time

	// Relationship (optional) must be [Supplement] or [Unspecified].
	// Other values are replaced by Unspecified.
	Relationship Relationship
}

// Supplementary returns the attachment entry for an additional file.
//
// Files using one of the reserved names of the XML business document are
// rejected with [ErrReservedName].  If ModDate is not set, now is used.
func Supplementary(file *File, now time.Time) (*Entry, []string, error) {
	name := file.Filename
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") || name != path.Clean(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if profile.IsReserved(name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrReservedName, name)
	}

	var warnings []string
	rel := file.Relationship
	switch {
	case rel == "":
		rel = Unspecified
	case !rel.ValidForSupplement():
		warnings = append(warnings, fmt.Sprintf(
			"AFRelationship %s is not allowed for attachment %q, using Unspecified",
			rel, name))
		rel = Unspecified
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = MimeType(name)
	}

	modDate := file.ModDate
	if modDate.IsZero() {
		modDate = now
	}

	sum := md5.Sum(file.Data)
	e := &Entry{
		Filename:     name,
		Data:         file.Data,
		Description:  file.Description,
		MimeType:     mimeType,
		CheckSum:     sum[:],
		CreationDate: file.CreationDate,
		ModDate:      modDate,
		Relationship: rel,
	}
	return e, warnings, nil
}

// mimeTypes maps lower case file name extensions to media types.
// The table is fixed so that the output does not depend on the mime
// configuration of the host.
var mimeTypes = map[string]string{
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".gif":  "image/gif",
	".htm":  "text/html",
	".html": "text/html",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".json": "application/json",
	".odp":  "application/vnd.oasis.opendocument.presentation",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".odt":  "application/vnd.oasis.opendocument.text",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".txt":  "text/plain",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xml":  "text/xml",
	".zip":  "application/zip",
}

// MimeType guesses the media type of a file from its name.
// Unknown extensions give [DefaultMimeType].
func MimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return DefaultMimeType
}
