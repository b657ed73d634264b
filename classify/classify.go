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

// Package classify determines the dialect, level and document type of an
// XML business document, and extracts the header information used to
// describe the document in PDF metadata.
//
// XPath expressions in this package use the prefixes rsm (the namespace
// of the root element), ram (reusable aggregate business information
// entities), udt (unqualified data types) and qdt (qualified data types).
// These are bound to whatever namespaces the document uses for these roles.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/facturx/profile"
)

var (
	// ErrMissingProfileIdentifier is returned when the guideline context
	// parameter is absent.
	ErrMissingProfileIdentifier = errors.New("missing profile identifier")

	// ErrIncompleteDocument is returned when a required header element is
	// missing from the document.
	ErrIncompleteDocument = errors.New("incomplete document")
)

// Root element names of the supported dialects.
const (
	rootFacturX = "CrossIndustryInvoice"
	rootZUGFeRD = "CrossIndustryDocument"
	rootOrderX  = "SCRDMCCBDACIOMessageStructure"
)

// Flavor determines the dialect of the document from the name of its root
// element.
func Flavor(d *Document) (profile.Flavor, error) {
	local, _ := d.Root()
	switch {
	case strings.HasSuffix(local, rootFacturX):
		return profile.FacturX, nil
	case strings.HasSuffix(local, rootZUGFeRD):
		return profile.ZUGFeRD, nil
	case strings.HasSuffix(local, rootOrderX):
		return profile.OrderX, nil
	}
	return 0, fmt.Errorf("%w: root element %q", profile.ErrUnrecognizedFlavor, local)
}

const guidelineID = "/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID"

// GuidelineID returns the guideline identifier URN of the document.
func GuidelineID(d *Document, f profile.Flavor) (string, error) {
	expr := "//rsm:ExchangedDocumentContext" + guidelineID
	if f == profile.ZUGFeRD {
		expr = "//rsm:SpecifiedExchangedDocumentContext" + guidelineID
	}
	id, ok, err := d.Text(expr)
	if err != nil {
		return "", err
	}
	if !ok || id == "" {
		return "", ErrMissingProfileIdentifier
	}
	return id, nil
}

// Level determines the conformance level of the document from its
// guideline identifier.
//
// The identifier is a colon-separated URN.  The level is taken from the
// last segment, or from the second-to-last segment if the last one is not
// a valid level for the flavor.
func Level(d *Document, f profile.Flavor) (profile.Level, error) {
	id, err := GuidelineID(d, f)
	if err != nil {
		return 0, err
	}
	return LevelFromURN(id, f)
}

// LevelFromURN extracts the level token from a guideline identifier.
func LevelFromURN(urn string, f profile.Flavor) (profile.Level, error) {
	segments := strings.Split(urn, ":")
	for i := len(segments) - 1; i >= 0 && i >= len(segments)-2; i-- {
		l, err := profile.ParseLevel(segments[i])
		if err != nil || l == 0 {
			continue
		}
		l = profile.Canonical(f, l)
		if profile.Valid(f, l) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: guideline %q for %s", profile.ErrUnrecognizedLevel, urn, f)
}

// OrderType determines the kind of an Order-X document from its type code.
func OrderType(d *Document) (profile.OrderType, error) {
	code, ok, err := d.Text("/rsm:SCRDMCCBDACIOMessageStructure/rsm:ExchangedDocument/ram:TypeCode")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing type code", profile.ErrUnrecognizedOrderType)
	}
	return profile.OrderTypeFromCode(code)
}
