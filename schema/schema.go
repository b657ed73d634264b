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

// Package schema validates XML business documents before they are embedded.
//
// Full XML Schema validation requires an external engine.  Such an engine
// can be plugged in through the [Validator] interface.  The [Structural]
// validator shipped with this package checks the parts of the schemas which
// matter for building hybrid documents: the root element and its namespace,
// the guideline identifier, and the mandatory header elements.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/facturx/classify"
	"seehuhn.de/go/facturx/profile"
)

// ErrValidationFailed is wrapped by all validation errors.
var ErrValidationFailed = errors.New("schema validation failed")

// Validator checks an XML document against the schema of a profile.
type Validator interface {
	Validate(d *classify.Document, p profile.Profile) error
}

// ValidatorFunc adapts an ordinary function to the [Validator] interface.
type ValidatorFunc func(d *classify.Document, p profile.Profile) error

// Validate calls f(d, p).
func (f ValidatorFunc) Validate(d *classify.Document, p profile.Profile) error {
	return f(d, p)
}

// Problem is a single violation found during validation.
type Problem struct {
	// Path is the XPath expression of the offending element.
	Path string

	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// ValidationError lists the problems found in a document.
type ValidationError struct {
	Profile  profile.Profile
	Problems []Problem
}

func (err *ValidationError) Error() string {
	msg := make([]string, len(err.Problems))
	for i, p := range err.Problems {
		msg[i] = p.String()
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidationFailed, err.Profile, strings.Join(msg, "; "))
}

func (err *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
