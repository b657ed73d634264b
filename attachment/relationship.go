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
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/pdf"
)

// Relationship represents the relationship between the document and an
// associated file.  This is the /AFRelationship entry of a file
// specification dictionary.
type Relationship pdf.Name

// These are the relationships used in hybrid documents.
const (
	// Source is used if the embedded file is the source material from
	// which the visual representation was created.
	Source Relationship = "Source"

	// Data is used if the embedded file contains the information used to
	// derive the visual representation.
	Data Relationship = "Data"

	// Alternative is used if the embedded file is an alternative
	// representation of the content.
	Alternative Relationship = "Alternative"

	// Supplement is used if the embedded file supplements the visual
	// representation.
	Supplement Relationship = "Supplement"

	// Unspecified is used if none of the other values applies.
	Unspecified Relationship = "Unspecified"
)

var errUnknownRelationship = errors.New("unknown AFRelationship")

// ParseRelationship converts a relationship name into a Relationship.
// Case and surrounding white space are ignored.  The empty string
// gives the empty Relationship.
func ParseRelationship(s string) (Relationship, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "":
		return "", nil
	case "source":
		return Source, nil
	case "data":
		return Data, nil
	case "alternative":
		return Alternative, nil
	case "supplement":
		return Supplement, nil
	case "unspecified":
		return Unspecified, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownRelationship, s)
}

// ValidForPrimary reports whether r may be used for the embedded XML
// business document.
func (r Relationship) ValidForPrimary() bool {
	return r == Data || r == Source || r == Alternative
}

// ValidForSupplement reports whether r may be used for additional
// attachments.
func (r Relationship) ValidForSupplement() bool {
	return r == Supplement || r == Unspecified
}
