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

// Package outputintent writes PDF/A output intent dictionaries.
//
// PDF/A requires an output intent whenever device dependent colours are
// used.  The default intent uses the sRGB colour profile.
package outputintent

import (
	"errors"
	"fmt"

	"seehuhn.de/go/icc"
	"seehuhn.de/go/pdf"
)

// PDF 2.0 sections: 14.11.5

// Intent describes an output intent with an embedded ICC profile.
type Intent struct {
	// Condition is a human readable description of the output condition.
	Condition string

	// Identifier identifies the output condition, for example
	// "sRGB IEC61966-2.1".
	Identifier string

	// Registry (optional) is the name of the registry in which the
	// condition is defined.
	Registry string

	// Profile is the ICC profile data.
	Profile []byte
}

// SRGB returns the output intent for the sRGB colour space.
func SRGB() *Intent {
	return &Intent{
		Condition:  "sRGB IEC61966-2.1",
		Identifier: "sRGB IEC61966-2.1",
		Registry:   "http://www.color.org",
		Profile:    icc.SRGBv2Profile,
	}
}

// Embed writes the output intent dictionary and the ICC profile stream,
// and returns an /OutputIntents array containing the intent.
func (oi *Intent) Embed(w *pdf.Writer) (pdf.Array, error) {
	if len(oi.Profile) == 0 {
		return nil, errors.New("output intent: missing ICC profile")
	}
	p, err := icc.Decode(oi.Profile)
	if err != nil {
		return nil, fmt.Errorf("output intent: %w", err)
	}
	n := p.ColorSpace.NumComponents()
	if n != 1 && n != 3 && n != 4 {
		return nil, fmt.Errorf("output intent: invalid number of components %d", n)
	}

	profileRef := w.Alloc()
	body, err := w.OpenStream(profileRef, pdf.Dict{"N": pdf.Integer(n)}, pdf.FilterFlate{})
	if err != nil {
		return nil, err
	}
	_, err = body.Write(oi.Profile)
	if err != nil {
		return nil, err
	}
	err = body.Close()
	if err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"Type":                      pdf.Name("OutputIntent"),
		"S":                         pdf.Name("GTS_PDFA1"),
		"OutputConditionIdentifier": pdf.TextString(oi.Identifier),
		"DestOutputProfile":         profileRef,
	}
	if oi.Condition != "" {
		dict["OutputCondition"] = pdf.TextString(oi.Condition)
		dict["Info"] = pdf.TextString(oi.Condition)
	}
	if oi.Registry != "" {
		dict["RegistryName"] = pdf.TextString(oi.Registry)
	}

	ref := w.Alloc()
	err = w.Put(ref, dict)
	if err != nil {
		return nil, err
	}
	return pdf.Array{ref}, nil
}

// Components returns the number of colour components of the profile.
func (oi *Intent) Components() (int, error) {
	p, err := icc.Decode(oi.Profile)
	if err != nil {
		return 0, err
	}
	return p.ColorSpace.NumComponents(), nil
}
