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

// Command facturx creates and reads hybrid PDF invoices and orders.
//
// Usage:
//
//	facturx pdfgen [flags] invoice.pdf factur-x.xml output.pdf
//	facturx extract [flags] invoice.pdf [output.xml]
//	facturx xmlcheck [flags] factur-x.xml
//	facturx inspect [flags] invoice.pdf
//	facturx serve [flags]
//	facturx version
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"seehuhn.de/go/facturx/internal/buildinfo"
	"seehuhn.de/go/facturx/internal/profiling"
)

// Globals are the flags shared by all commands.
type Globals struct {
	LogLevel   string `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Minimum level of log messages (${enum})."`
	CPUProfile string `name:"cpuprofile" type:"path" help:"Write a CPU profile to this file."`
	MemProfile string `name:"memprofile" type:"path" help:"Write a memory profile to this file."`
	Password   string `help:"Password for encrypted PDF files.  If not given, the password is prompted for on the terminal."`
}

// CLI is the command line interface of the facturx tool.
type CLI struct {
	Globals

	Pdfgen   PdfgenCmd   `cmd:"" help:"Embed an XML business document into a PDF file."`
	Extract  ExtractCmd  `cmd:"" help:"Extract the XML business document from a PDF file."`
	Xmlcheck XmlcheckCmd `cmd:"" help:"Validate an XML business document."`
	Inspect  InspectCmd  `cmd:"" help:"Show the hybrid document properties of a PDF file."`
	Serve    ServeCmd    `cmd:"" help:"Run the web service."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("facturx"),
		kong.Description("Create and read Factur-X, Order-X and ZUGFeRD hybrid PDF files."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logger, err := newLogger(os.Stderr, cli.LogLevel)
	ctx.FatalIfErrorf(err)

	stop, err := profiling.Start(cli.CPUProfile, cli.MemProfile, logger)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals, logger)
	stop()
	ctx.FatalIfErrorf(err)
}

// newLogger writes human readable messages to terminals and JSON
// otherwise.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(level))
	if err != nil {
		return nil, err
	}
	opt := &slog.HandlerOptions{Level: l}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opt)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opt)), nil
}

// readPassword returns the password callback for the PDF reader.  The
// password given on the command line is tried first, then the user is
// asked on the terminal.
func (g *Globals) readPassword(_ []byte, try int) string {
	if try == 0 && g.Password != "" {
		return g.Password
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) || try > 3 {
		return ""
	}
	fmt.Fprint(os.Stderr, "PDF password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(pw)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	_, err := fmt.Fprintln(ctx.Stdout, buildinfo.Short("facturx"))
	return err
}
