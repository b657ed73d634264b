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
	"log/slog"
	"time"

	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/profile"
	"seehuhn.de/go/facturx/schema"
)

// Options control the creation of a hybrid document.
// A nil *Options is equivalent to the zero value.
type Options struct {
	// Flavor is the dialect of the XML document.  If this is zero, the
	// flavor is determined from the root element of the document.
	Flavor profile.Flavor

	// Level is the conformance level of the XML document.  If this is zero
	// or not valid for the flavor, the level is determined from the
	// guideline identifier of the document.
	Level profile.Level

	// OrderType is the kind of an Order-X document.  If this is zero, the
	// order type is determined from the type code of the document.
	OrderType profile.OrderType

	// Relationship is the requested /AFRelationship of the XML document.
	// The default is [attachment.Data].
	Relationship attachment.Relationship

	// Attachments are additional files to embed.
	Attachments []*attachment.File

	// Metadata (optional) overrides the document information derived from
	// the header of the XML document.
	Metadata *metadata.Fields

	// Lang (optional) is the natural language of the document, as an
	// RFC 3066 language tag.  Underscores are accepted in place of hyphens.
	Lang string

	// Creator (optional) is the name of the application which created the
	// visual representation.
	Creator string

	// SkipValidation disables schema validation of the XML document.
	SkipValidation bool

	// Validator is used for schema validation.
	// The default is [schema.Structural].
	Validator schema.Validator

	// DefaultOutputIntent installs an sRGB output intent if the source
	// document has none.
	DefaultOutputIntent bool

	// ReadPassword is used to open encrypted source documents.
	// See [pdf.ReaderOptions].
	ReadPassword func(ID []byte, try int) string

	// Now returns the time used for the document dates.
	// The default is [time.Now].
	Now func() time.Time

	// Logger receives diagnostic messages.  If this is nil, messages are
	// discarded.
	Logger *slog.Logger
}

// Result describes a hybrid document created by [Embed].
type Result struct {
	Profile   profile.Profile
	OrderType profile.OrderType

	// Attachments lists the names of all embedded files, in the order used
	// in the EmbeddedFiles name tree.
	Attachments []string

	// Warnings lists the adjustments made to the request, for example an
	// overridden relationship or a dropped attachment.
	Warnings []string
}

// ExtractOptions control the extraction of the XML document.
// A nil *ExtractOptions is equivalent to the zero value.
type ExtractOptions struct {
	// CheckSchema enables schema validation of the extracted document.
	// Documents which fail validation are treated as not found.
	CheckSchema bool

	// Validator is used if CheckSchema is set.
	// The default is [schema.Structural].
	Validator schema.Validator

	// ReadPassword is used to open encrypted documents.
	ReadPassword func(ID []byte, try int) string

	// Logger receives diagnostic messages.
	Logger *slog.Logger
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

func validatorOrDefault(v schema.Validator) schema.Validator {
	if v == nil {
		return schema.Structural{}
	}
	return v
}
