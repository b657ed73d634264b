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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/classify"
	"seehuhn.de/go/facturx/internal/buildinfo"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/outputintent"
	"seehuhn.de/go/facturx/pdfcopy"
	"seehuhn.de/go/facturx/profile"
)

// PDF 2.0 sections: 7.5.5 14.3 14.13

// idNamespace is used to derive the file identifier of documents whose
// source has none.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://seehuhn.de/go/facturx"))

// plan holds everything which is determined before output is written.
type plan struct {
	profile   profile.Profile
	orderType profile.OrderType
	entries   []*attachment.Entry
	desc      *metadata.Description
	packet    []byte
	lang      language.Tag
}

// Embed reads the PDF document from src, attaches the XML business document
// and writes the resulting hybrid document to w.
//
// The XML document is classified, validated and described before anything
// is written to w.  Failures of these steps are reported as [*StepError].
// If writing fails, w may contain a partial file.
func Embed(w io.Writer, src io.ReadSeeker, xml []byte, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}
	if w == nil || src == nil {
		return nil, fmt.Errorf("%w: missing PDF input or output", ErrInvalidArgument)
	}
	logger := loggerOrDiscard(opt.Logger)
	res := &Result{}

	p, err := makePlan(xml, opt, res, logger)
	if err != nil {
		return nil, err
	}
	res.Profile = p.profile
	res.OrderType = p.orderType

	err = write(w, src, xml, p, opt)
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	for _, e := range p.entries {
		res.Attachments = append(res.Attachments, e.Filename)
	}

	logger.Info("hybrid document written",
		"profile", p.profile,
		"attachments", len(p.entries))
	return res, nil
}

// EmbedBytes is like [Embed], but operates on in-memory files.
func EmbedBytes(pdfData, xml []byte, opt *Options) ([]byte, *Result, error) {
	if len(pdfData) == 0 {
		return nil, nil, fmt.Errorf("%w: empty PDF file", ErrInvalidArgument)
	}
	buf := &bytes.Buffer{}
	res, err := Embed(buf, bytes.NewReader(pdfData), xml, opt)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}

// EmbedFile adds the XML business document to the PDF file at pdfPath and
// stores the result at outPath.  If outPath is empty, the input file is
// replaced.
//
// The output is first written to a temporary file in the target directory,
// which is renamed to outPath once the document is complete.  The
// temporary file is removed on all error paths.
func EmbedFile(pdfPath string, xml []byte, outPath string, opt *Options) (*Result, error) {
	if pdfPath == "" {
		return nil, fmt.Errorf("%w: missing PDF file name", ErrInvalidArgument)
	}
	if outPath == "" {
		outPath = pdfPath
	}

	in, err := os.Open(pdfPath)
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return nil, stepError(StepIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".facturx-*.pdf")
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	res, err := Embed(tmp, in, xml, opt)
	if err != nil {
		return nil, err
	}

	err = tmp.Chmod(fi.Mode().Perm())
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	err = tmp.Close()
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	in.Close()
	err = os.Rename(tmpName, outPath)
	if err != nil {
		return nil, stepError(StepIO, err)
	}
	return res, nil
}

// makePlan runs all steps which can fail because of the XML document.
func makePlan(xml []byte, opt *Options, res *Result, logger *slog.Logger) (*plan, error) {
	if len(bytes.TrimSpace(xml)) == 0 {
		return nil, fmt.Errorf("%w: empty XML document", ErrInvalidArgument)
	}
	if opt.Flavor != 0 && !opt.Flavor.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, opt.Flavor)
	}
	lang, err := parseLang(opt.Lang)
	if err != nil {
		return nil, err
	}

	warn := func(msg string) {
		logger.Warn(msg)
		res.Warnings = append(res.Warnings, msg)
	}

	d, err := classify.Parse(xml)
	if err != nil {
		return nil, stepError(StepFlavor, err)
	}
	prof, err := resolveProfile(d, opt.Flavor, opt.Level, logger)
	if err != nil {
		return nil, err
	}

	var orderType profile.OrderType
	if prof.Flavor() == profile.OrderX {
		orderType = opt.OrderType
		if orderType.Code() == "" {
			orderType, err = classify.OrderType(d)
			if err != nil {
				return nil, stepError(StepOrderType, err)
			}
			logger.Debug("order type detected", "type", orderType)
		}
	}

	if !opt.SkipValidation {
		err = validatorOrDefault(opt.Validator).Validate(d, prof)
		if err != nil {
			return nil, stepError(StepSchema, err)
		}
	}

	var fields *metadata.Fields
	if opt.Metadata != nil {
		fields = opt.Metadata.Sanitize()
	} else {
		info, err := classify.ExtractBaseInfo(d, prof.Flavor())
		if err != nil {
			return nil, stepError(StepMetadata, err)
		}
		fields = classify.DeriveMetadata(info)
	}

	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	date := now().UTC().Truncate(time.Second)

	creator := opt.Creator
	if creator == "" {
		creator = buildinfo.Producer()
	}
	desc := &metadata.Description{
		Profile:     prof,
		OrderType:   orderType,
		Fields:      fields,
		Producer:    buildinfo.Producer(),
		CreatorTool: creator,
		Date:        date,
	}
	packet, err := metadata.XMP(desc)
	if err != nil {
		return nil, stepError(StepMetadata, err)
	}

	primary, warnings := attachment.Primary(&attachment.PrimaryParams{
		XML:          xml,
		Profile:      prof,
		OrderType:    orderType,
		Relationship: opt.Relationship,
		Date:         date,
	})
	for _, msg := range warnings {
		warn(msg)
	}
	entries := []*attachment.Entry{primary}
	seen := map[string]bool{primary.Filename: true}
	for _, file := range opt.Attachments {
		if file == nil {
			continue
		}
		e, warnings, err := attachment.Supplementary(file, date)
		if err != nil {
			warn(fmt.Sprintf("attachment dropped: %v", err))
			continue
		}
		if seen[e.Filename] {
			warn(fmt.Sprintf("attachment dropped: duplicate name %q", e.Filename))
			continue
		}
		seen[e.Filename] = true
		for _, msg := range warnings {
			warn(msg)
		}
		entries = append(entries, e)
	}

	return &plan{
		profile:   prof,
		orderType: orderType,
		entries:   entries,
		desc:      desc,
		packet:    packet,
		lang:      lang,
	}, nil
}

// resolveProfile determines the flavor and level of a document.  Values
// given by the caller take precedence over the values found in the
// document, unless the level is not valid for the flavor.
func resolveProfile(d *classify.Document, f profile.Flavor, l profile.Level, logger *slog.Logger) (profile.Profile, error) {
	var err error
	if f == 0 {
		f, err = classify.Flavor(d)
		if err != nil {
			return profile.Profile{}, stepError(StepFlavor, err)
		}
		logger.Debug("flavor detected", "flavor", f)
	}

	l = profile.Canonical(f, l)
	if !profile.Valid(f, l) {
		if l != 0 {
			logger.Info("level is not valid for the flavor, using the document",
				"level", l, "flavor", f)
		}
		l, err = classify.Level(d, f)
		if err != nil {
			return profile.Profile{}, stepError(StepLevel, err)
		}
		logger.Debug("level detected", "level", l)
	}

	p, err := profile.New(f, l)
	if err != nil {
		return profile.Profile{}, stepError(StepLevel, err)
	}
	return p, nil
}

// write copies the visual representation from src and adds the
// attachments and metadata of the plan.
func write(w io.Writer, src io.ReadSeeker, xml []byte, p *plan, opt *Options) error {
	in, err := pdf.NewReader(src, &pdf.ReaderOptions{ReadPassword: opt.ReadPassword})
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := pdf.NewWriter(w, pdf.V1_7, &pdf.WriterOptions{
		ID: trailerID(in.GetMeta().ID, xml),
	})
	if err != nil {
		return err
	}

	doc, err := pdfcopy.CopyDocument(out, in)
	if err != nil {
		return err
	}
	cat := out.GetMeta().Catalog
	if doc.OutputIntents == nil && opt.DefaultOutputIntent {
		intents, err := outputintent.SRGB().Embed(out)
		if err != nil {
			return err
		}
		cat.OutputIntents = intents
	}

	emb, err := attachment.Embed(out, p.entries)
	if err != nil {
		return err
	}
	cat.Names = pdf.Dict{
		"EmbeddedFiles": pdf.Dict{"Names": emb.Names},
	}
	cat.AF = emb.AF

	cat.Metadata, err = metadata.Embed(out, p.packet)
	if err != nil {
		return err
	}
	cat.PageMode = pdf.Name("UseAttachments")
	if p.lang != language.Und {
		cat.Lang = p.lang
	}
	out.GetMeta().Info = metadata.Info(p.desc)

	return out.Close()
}

// trailerID keeps the file identifier of the source document.  Documents
// without an identifier get one derived from the XML document.
func trailerID(orig [][]byte, xml []byte) [][]byte {
	if len(orig) == 2 && len(orig[0]) > 0 && len(orig[1]) > 0 {
		return orig
	}
	u := uuid.NewSHA1(idNamespace, xml)
	return [][]byte{u[:], u[:]}
}

func parseLang(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w: language %q: %w", ErrInvalidArgument, s, err)
	}
	return tag, nil
}
