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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"seehuhn.de/go/facturx"
	"seehuhn.de/go/facturx/attachment"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/pdfcheck"
	"seehuhn.de/go/facturx/profile"
	"seehuhn.de/go/facturx/webservice"
)

// errNotFound is returned by the extract command if the PDF file contains
// no XML business document.
var errNotFound = errors.New("no XML business document found")

// PdfgenCmd embeds an XML document into a PDF file.
type PdfgenCmd struct {
	PDF    string `arg:"" type:"existingfile" help:"Source PDF file."`
	XML    string `arg:"" type:"existingfile" help:"XML business document."`
	Output string `arg:"" optional:"" type:"path" help:"Output PDF file.  If omitted, the source file is replaced."`

	Overwrite bool `short:"f" help:"Overwrite existing output files."`

	Flavor       string   `default:"autodetect" help:"XML dialect: factur-x, order-x, zugferd or autodetect."`
	Level        string   `default:"autodetect" help:"Conformance level, e.g. minimum, basicwl, basic, en16931, extended, comfort or autodetect."`
	OrderType    string   `name:"order-type" default:"autodetect" help:"Order-X document type: order, order_change, order_response or autodetect."`
	Relationship string   `name:"afrelationship" default:"data" help:"Relationship of the XML document: data, source or alternative."`
	Lang         string   `help:"Natural language of the document, e.g. fr-FR."`
	Attachments  []string `name:"attachment" short:"a" type:"existingfile" help:"Additional file to embed.  May be repeated."`
	NoCheck      bool     `name:"disable-xsd-check" help:"Do not validate the XML document."`
	OutputIntent bool     `name:"output-intent" help:"Add an sRGB output intent if the PDF file has none."`
	MetaAuthor   string   `name:"meta-author" help:"Author of the document."`
	MetaTitle    string   `name:"meta-title" help:"Title of the document."`
	MetaSubject  string   `name:"meta-subject" help:"Subject of the document."`
	MetaKeywords string   `name:"meta-keywords" help:"Keywords of the document."`
	Creator      string   `help:"Name of the application which created the PDF file."`
}

func (c *PdfgenCmd) Run(ctx *kong.Context, g *Globals, logger *slog.Logger) error {
	out := c.Output
	if out == "" {
		out = c.PDF
	}
	if !c.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s already exists, use --overwrite to replace it", out)
		}
	}

	opt, err := c.options(g, logger)
	if err != nil {
		return err
	}
	xml, err := os.ReadFile(c.XML)
	if err != nil {
		return err
	}

	res, err := facturx.EmbedFile(c.PDF, xml, c.Output, opt)
	if err != nil {
		return err
	}
	for _, msg := range res.Warnings {
		fmt.Fprintln(ctx.Stderr, "warning:", msg)
	}
	logger.Info("file written", "file", out, "profile", res.Profile)
	return nil
}

func (c *PdfgenCmd) options(g *Globals, logger *slog.Logger) (*facturx.Options, error) {
	opt := &facturx.Options{
		Lang:                c.Lang,
		Creator:             c.Creator,
		SkipValidation:      c.NoCheck,
		DefaultOutputIntent: c.OutputIntent,
		ReadPassword:        g.readPassword,
		Logger:              logger,
	}

	var err error
	opt.Flavor, err = profile.ParseFlavor(c.Flavor)
	if err != nil {
		return nil, err
	}
	opt.Level, err = profile.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opt.OrderType, err = profile.ParseOrderType(c.OrderType)
	if err != nil {
		return nil, err
	}
	opt.Relationship, err = attachment.ParseRelationship(c.Relationship)
	if err != nil {
		return nil, err
	}

	fields := &metadata.Fields{
		Author:   c.MetaAuthor,
		Title:    c.MetaTitle,
		Subject:  c.MetaSubject,
		Keywords: c.MetaKeywords,
	}
	if *fields != (metadata.Fields{}) {
		opt.Metadata = fields
	}

	for _, name := range c.Attachments {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(name)
		if err != nil {
			return nil, err
		}
		opt.Attachments = append(opt.Attachments, &attachment.File{
			Filename: filepath.Base(name),
			Data:     data,
			ModDate:  fi.ModTime(),
		})
	}

	return opt, nil
}

// ExtractCmd writes the embedded XML document to a file.
type ExtractCmd struct {
	PDF    string `arg:"" type:"existingfile" help:"Hybrid PDF file."`
	Output string `arg:"" optional:"" type:"path" help:"Output XML file.  If omitted, the document is written to standard output."`

	Overwrite bool `short:"f" help:"Overwrite existing output files."`
	NoCheck   bool `name:"disable-xsd-check" help:"Do not validate the extracted document."`
}

func (c *ExtractCmd) Run(ctx *kong.Context, g *Globals, logger *slog.Logger) error {
	if c.Output != "" && !c.Overwrite {
		if _, err := os.Stat(c.Output); err == nil {
			return fmt.Errorf("%s already exists, use --overwrite to replace it", c.Output)
		}
	}

	f, err := os.Open(c.PDF)
	if err != nil {
		return err
	}
	defer f.Close()

	payload, err := facturx.Extract(f, &facturx.ExtractOptions{
		CheckSchema:  !c.NoCheck,
		ReadPassword: g.readPassword,
		Logger:       logger,
	})
	if err != nil {
		return err
	} else if payload == nil {
		return fmt.Errorf("%s: %w", c.PDF, errNotFound)
	}

	if c.Output == "" {
		_, err = ctx.Stdout.Write(payload.Data)
		return err
	}
	err = os.WriteFile(c.Output, payload.Data, 0o644)
	if err != nil {
		return err
	}
	logger.Info("XML document extracted", "name", payload.Filename, "file", c.Output)
	return nil
}

// XmlcheckCmd validates an XML document.
type XmlcheckCmd struct {
	XML string `arg:"" type:"existingfile" help:"XML business document."`

	Flavor string `default:"autodetect" help:"XML dialect: factur-x, order-x, zugferd or autodetect."`
	Level  string `default:"autodetect" help:"Conformance level or autodetect."`
}

func (c *XmlcheckCmd) Run(ctx *kong.Context, logger *slog.Logger) error {
	f, err := profile.ParseFlavor(c.Flavor)
	if err != nil {
		return err
	}
	l, err := profile.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	xml, err := os.ReadFile(c.XML)
	if err != nil {
		return err
	}

	p, err := facturx.CheckXML(xml, &facturx.CheckOptions{
		Flavor: f,
		Level:  l,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", c.XML, err)
	}
	_, err = fmt.Fprintf(ctx.Stdout, "%s: valid %s document\n", c.XML, p)
	return err
}

// InspectCmd shows the hybrid document properties of a PDF file.
type InspectCmd struct {
	PDF string `arg:"" type:"existingfile" help:"PDF file."`

	JSON  bool `help:"Print the report as JSON."`
	Check bool `help:"Also validate the file structure with pdfcpu."`
}

type inspectOutput struct {
	*facturx.Report
	Check *pdfcheck.Report `json:",omitempty"`
}

func (c *InspectCmd) Run(ctx *kong.Context, g *Globals, logger *slog.Logger) error {
	f, err := os.Open(c.PDF)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := facturx.Inspect(f, &facturx.ExtractOptions{
		ReadPassword: g.readPassword,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	res := &inspectOutput{Report: report}

	if c.Check {
		_, err = f.Seek(0, io.SeekStart)
		if err != nil {
			return err
		}
		res.Check, err = pdfcheck.Check(f)
		if err != nil {
			return err
		}
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return res.writeText(ctx.Stdout)
}

func (r *inspectOutput) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	row := func(key, val string) {
		if val != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", key, val)
		}
	}
	row("PDF version", r.Version)
	row("Title", r.Title)
	row("Author", r.Author)
	row("Subject", r.Subject)
	row("Keywords", r.Keywords)
	row("Creator", r.Creator)
	row("Producer", r.Producer)
	row("Page mode", r.PageMode)
	row("Language", r.Lang)
	fmt.Fprintf(tw, "Output intents:\t%d\n", r.NumOutputIntents)
	fmt.Fprintf(tw, "Associated files:\t%d\n", r.NumAF)
	if x := r.XMP; x != nil && x.Flavor != 0 {
		row("Flavor", x.Flavor.String())
		row("Document type", x.DocumentType)
		row("Conformance level", x.ConformanceLevel)
		row("PDF/A", x.PDFAPart+x.PDFAConformance)
	}
	if r.Payload != "" {
		row("XML document", r.Payload)
	} else {
		row("XML document", "none")
	}
	if r.Check != nil {
		fmt.Fprintf(tw, "pdfcpu:\t%d pages, %d attachments\n", r.Check.Pages, len(r.Check.Attachments))
	}
	err := tw.Flush()
	if err != nil {
		return err
	}

	if len(r.Attachments) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tTYPE\tRELATIONSHIP\tCHECKSUM\tDESCRIPTION")
	for _, a := range r.Attachments {
		sum := "ok"
		if !a.CheckSumOK {
			sum = "BAD"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			a.Filename, a.Size, a.MimeType, a.Relationship, sum, a.Description)
	}
	return tw.Flush()
}

// ServeCmd runs the web service until it is interrupted.
type ServeCmd struct {
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`
	Listen string `short:"l" help:"Address to listen on, overrides the configuration file."`
}

func (c *ServeCmd) Run(logger *slog.Logger) error {
	cfg := webservice.DefaultConfig()
	if c.Config != "" {
		var err error
		cfg, err = webservice.LoadConfig(c.Config)
		if err != nil {
			return err
		}
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	s, err := webservice.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}
