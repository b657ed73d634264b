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

package facturx

import (
	"bytes"
	"fmt"
	"log/slog"

	"seehuhn.de/go/facturx/classify"
	"seehuhn.de/go/facturx/profile"
	"seehuhn.de/go/facturx/schema"
)

// CheckOptions control the validation of an XML document by [CheckXML].
type CheckOptions struct {
	// Flavor and Level select the schema.  Zero values are determined from
	// the document.
	Flavor profile.Flavor
	Level  profile.Level

	// Validator is the schema validator to use.
	// The default is [schema.Structural].
	Validator schema.Validator

	Logger *slog.Logger
}

// CheckXML validates an XML business document and returns its profile.
// Failures are reported as [*StepError].
func CheckXML(xml []byte, opt *CheckOptions) (profile.Profile, error) {
	if opt == nil {
		opt = &CheckOptions{}
	}
	if len(bytes.TrimSpace(xml)) == 0 {
		return profile.Profile{}, fmt.Errorf("%w: empty XML document", ErrInvalidArgument)
	}
	if opt.Flavor != 0 && !opt.Flavor.IsValid() {
		return profile.Profile{}, fmt.Errorf("%w: %s", ErrInvalidArgument, opt.Flavor)
	}
	return checkXML(xml, opt.Flavor, opt.Level, opt.Validator, loggerOrDiscard(opt.Logger))
}

func checkXML(xml []byte, f profile.Flavor, l profile.Level, v schema.Validator, logger *slog.Logger) (profile.Profile, error) {
	d, err := classify.Parse(xml)
	if err != nil {
		return profile.Profile{}, stepError(StepFlavor, err)
	}
	p, err := resolveProfile(d, f, l, logger)
	if err != nil {
		return profile.Profile{}, err
	}
	err = validatorOrDefault(v).Validate(d, p)
	if err != nil {
		return profile.Profile{}, stepError(StepSchema, err)
	}
	logger.Info("XML document is valid", "profile", p)
	return p, nil
}
