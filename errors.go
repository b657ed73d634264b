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
	"errors"
)

// ErrInvalidArgument is returned when the arguments of a call have the
// wrong shape, for example an empty XML document.
var ErrInvalidArgument = errors.New("invalid argument")

// Step identifies the stage of the embedding pipeline at which an error
// occurred.
type Step string

// These are the pipeline steps reported in a [StepError].
const (
	StepFlavor    Step = "flavor"
	StepLevel     Step = "level"
	StepOrderType Step = "ordertype"
	StepSchema    Step = "schema"
	StepMetadata  Step = "metadata"
	StepIO        Step = "io"
)

// StepError reports the failure of one step of the embedding pipeline.
type StepError struct {
	Step Step
	Err  error
}

func (err *StepError) Error() string {
	return string(err.Step) + ": " + err.Err.Error()
}

func (err *StepError) Unwrap() error {
	return err.Err
}

func stepError(step Step, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}
