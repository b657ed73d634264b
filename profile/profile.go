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

// Package profile describes the XML dialects which can be embedded into a
// hybrid PDF document, together with their conformance levels.
//
// A [Profile] combines a [Flavor] with a [Level].  Only the combinations
// listed in the compatibility table can be constructed; use [New] to obtain
// a Profile.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnrecognizedFlavor is returned when the dialect of an XML document
	// cannot be determined, or when a flavor name is not known.
	ErrUnrecognizedFlavor = errors.New("unrecognized flavor")

	// ErrUnrecognizedLevel is returned when a level name is not known, or
	// not valid for the flavor at hand.
	ErrUnrecognizedLevel = errors.New("unrecognized level")

	// ErrUnrecognizedOrderType is returned for order type codes other than
	// 220, 230 and 231.
	ErrUnrecognizedOrderType = errors.New("unrecognized order type")
)

// Flavor identifies an XML dialect.
// The zero value means that the flavor is not known yet and needs to be
// detected from the XML content.
type Flavor int

// These are the supported flavors.
const (
	// FacturX is the Factur-X / ZUGFeRD 2 invoice standard, with root
	// element rsm:CrossIndustryInvoice.
	FacturX Flavor = iota + 1

	// ZUGFeRD is the legacy ZUGFeRD 1 invoice standard, with root element
	// rsm:CrossIndustryDocument.
	ZUGFeRD

	// OrderX is the Order-X standard, with root element
	// rsm:SCRDMCCBDACIOMessageStructure.
	OrderX
)

func (f Flavor) String() string {
	switch f {
	case 0:
		return "autodetect"
	case FacturX:
		return "factur-x"
	case ZUGFeRD:
		return "zugferd"
	case OrderX:
		return "order-x"
	default:
		return fmt.Sprintf("profile.Flavor(%d)", int(f))
	}
}

// IsValid reports whether f is one of the known flavors.
func (f Flavor) IsValid() bool {
	return f >= FacturX && f <= OrderX
}

// Filename returns the reserved attachment name used for the XML payload.
func (f Flavor) Filename() string {
	switch f {
	case FacturX:
		return "factur-x.xml"
	case ZUGFeRD:
		return "ZUGFeRD-invoice.xml"
	case OrderX:
		return "order-x.xml"
	default:
		return ""
	}
}

// ReservedFilenames lists the attachment names which identify an embedded
// XML payload.  The order of the list is the search order used when
// extracting.
var ReservedFilenames = []string{
	"factur-x.xml",
	"order-x.xml",
	"ZUGFeRD-invoice.xml",
	"zugferd-invoice.xml",
}

// IsReserved reports whether name is one of the reserved attachment names.
func IsReserved(name string) bool {
	return slices.Contains(ReservedFilenames, name)
}

var flavorNames = map[string]Flavor{
	"":           0,
	"autodetect": 0,
	"auto":       0,
	"factur-x":   FacturX,
	"facturx":    FacturX,
	"zugferd2":   FacturX,
	"zugferd":    ZUGFeRD,
	"zugferd1":   ZUGFeRD,
	"order-x":    OrderX,
	"orderx":     OrderX,
}

// ParseFlavor converts a flavor name into a Flavor.
// Case, surrounding white space and underscores are ignored.
// The names "" and "autodetect" map to the zero Flavor.
func ParseFlavor(s string) (Flavor, error) {
	key := strings.ReplaceAll(normalize(s), "_", "-")
	f, ok := flavorNames[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedFlavor, s)
	}
	return f, nil
}

// Level is a conformance level.
// The zero value means that the level is not known yet.
type Level int

// These are the supported levels.  Which levels are valid depends on the
// flavor, see [Levels].
const (
	Minimum Level = iota + 1
	BasicWL
	Basic
	EN16931
	Extended
	Comfort
)

func (l Level) String() string {
	switch l {
	case 0:
		return "autodetect"
	case Minimum:
		return "minimum"
	case BasicWL:
		return "basicwl"
	case Basic:
		return "basic"
	case EN16931:
		return "en16931"
	case Extended:
		return "extended"
	case Comfort:
		return "comfort"
	default:
		return fmt.Sprintf("profile.Level(%d)", int(l))
	}
}

// DataOnly reports whether documents of this level must declare the
// relationship of the embedded XML as Data.
func (l Level) DataOnly() bool {
	return l == Minimum || l == BasicWL
}

var levelNames = map[string]Level{
	"":           0,
	"autodetect": 0,
	"auto":       0,
	"minimum":    Minimum,
	"basicwl":    BasicWL,
	"basic":      Basic,
	"en16931":    EN16931,
	"extended":   Extended,
	"comfort":    Comfort,
}

// ParseLevel converts a level token into a Level.
// Case, surrounding white space and inner separators are ignored, so that
// "Basic WL", "basic-wl" and "BASICWL" all map to [BasicWL].
func ParseLevel(s string) (Level, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(normalize(s))
	l, ok := levelNames[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedLevel, s)
	}
	return l, nil
}

// compatible is the single source of truth for valid (Flavor, Level)
// combinations.
var compatible = map[Flavor][]Level{
	FacturX: {Minimum, BasicWL, Basic, EN16931, Extended},
	ZUGFeRD: {Basic, Comfort, Extended},
	OrderX:  {Basic, Comfort, Extended},
}

// Levels returns the levels which are valid for the given flavor,
// from lowest to highest.
func Levels(f Flavor) []Level {
	return slices.Clone(compatible[f])
}

// Valid reports whether l is a valid level for f.
func Valid(f Flavor, l Level) bool {
	return slices.Contains(compatible[f], l)
}

// Canonical maps level names used by older specifications to the name used
// by the given flavor.  For Factur-X, the ZUGFeRD 2 name "comfort" denotes
// [EN16931].  All other levels are returned unchanged.
func Canonical(f Flavor, l Level) Level {
	if f == FacturX && l == Comfort {
		return EN16931
	}
	return l
}

// Profile is a valid combination of a flavor and a level.
type Profile struct {
	flavor Flavor
	level  Level
}

// New returns the Profile for the given flavor and level.
// If the combination is not in the compatibility table, an error wrapping
// [ErrUnrecognizedFlavor] or [ErrUnrecognizedLevel] is returned.
func New(f Flavor, l Level) (Profile, error) {
	if !f.IsValid() {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnrecognizedFlavor, f)
	}
	if !Valid(f, l) {
		return Profile{}, fmt.Errorf("%w: %s is not a valid level for %s",
			ErrUnrecognizedLevel, l, f)
	}
	return Profile{flavor: f, level: l}, nil
}

// Flavor returns the flavor of the profile.
func (p Profile) Flavor() Flavor {
	return p.flavor
}

// Level returns the level of the profile.
func (p Profile) Level() Level {
	return p.level
}

// IsZero reports whether p is the zero Profile.
func (p Profile) IsZero() bool {
	return p.flavor == 0
}

func (p Profile) String() string {
	return p.flavor.String() + "/" + p.level.String()
}

// OrderType distinguishes the different kinds of Order-X documents.
type OrderType int

// These are the Order-X document types.
const (
	Order OrderType = iota + 1
	OrderChange
	OrderResponse
)

func (t OrderType) String() string {
	switch t {
	case 0:
		return "autodetect"
	case Order:
		return "order"
	case OrderChange:
		return "order_change"
	case OrderResponse:
		return "order_response"
	default:
		return fmt.Sprintf("profile.OrderType(%d)", int(t))
	}
}

// Code returns the UN/CEFACT document type code of t.
func (t OrderType) Code() string {
	switch t {
	case Order:
		return "220"
	case OrderChange:
		return "230"
	case OrderResponse:
		return "231"
	default:
		return ""
	}
}

// OrderTypeFromCode maps a document type code to an OrderType.
func OrderTypeFromCode(code string) (OrderType, error) {
	switch strings.TrimSpace(code) {
	case "220":
		return Order, nil
	case "230":
		return OrderChange, nil
	case "231":
		return OrderResponse, nil
	}
	return 0, fmt.Errorf("%w: type code %q", ErrUnrecognizedOrderType, code)
}

// ParseOrderType converts an order type name into an OrderType.
// Both names like "order_change" or "order-change" and the numeric type
// codes are accepted.  The names "" and "autodetect" map to zero.
func ParseOrderType(s string) (OrderType, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(normalize(s))
	switch key {
	case "", "autodetect", "auto":
		return 0, nil
	case "order":
		return Order, nil
	case "order_change", "orderchange":
		return OrderChange, nil
	case "order_response", "orderresponse":
		return OrderResponse, nil
	}
	if t, err := OrderTypeFromCode(key); err == nil {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedOrderType, s)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
