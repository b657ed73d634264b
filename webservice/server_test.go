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

package webservice

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/facturx"
	"seehuhn.de/go/facturx/internal/debug/testpdf"
)

type part struct {
	field, filename string
	data            []byte
}

func newRequest(t *testing.T, target string, files []part, values map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, p := range files {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatal(err)
		}
		_, err = fw.Write(p.data)
		if err != nil {
			t.Fatal(err)
		}
	}
	for key, val := range values {
		err := mw.WriteField(key, val)
		if err != nil {
			t.Fatal(err)
		}
	}
	err := mw.Close()
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func blankPDF(t *testing.T) []byte {
	t.Helper()
	data, err := testpdf.BlankPDF(pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func errorBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	var body map[string]string
	err := json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := errorBody(t, rec.Result())
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestGenerateAndExtract(t *testing.T) {
	s := newServer(t)
	xml := testpdf.FacturX(testpdf.Invoice)

	req := newRequest(t, "/generate_facturx", []part{
		{"pdf", "invoice.pdf", blankPDF(t)},
		{"xml", "factur-x.xml", xml},
		{"attachment1", "terms.txt", []byte("terms")},
		{"attachment2", "order-x.xml", []byte("<x/>")},
	}, map[string]string{
		"lang":       "fr_FR",
		"meta_title": "Custom title",
	})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	resp := rec.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, errorBody(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("wrong content type %q", ct)
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != "invoice_facturx.pdf" {
		t.Errorf("wrong file name %q", params["filename"])
	}
	if n := len(resp.Header.Values(WarningHeader)); n != 1 {
		t.Errorf("expected one warning, got %d", n)
	}
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	report, err := facturx.Inspect(bytes.NewReader(out), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Title != "Custom title" || report.Lang != "fr-FR" || len(report.Attachments) != 2 {
		t.Errorf("unexpected document %q, %q, %d attachments",
			report.Title, report.Lang, len(report.Attachments))
	}

	req = newRequest(t, "/extract_xml", []part{{"pdf", "in.pdf", out}}, nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	resp = rec.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, xml) {
		t.Error("extracted XML differs")
	}
	_, params, err = mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != "factur-x.xml" {
		t.Errorf("wrong file name %q", params["filename"])
	}
}

func TestGenerateErrors(t *testing.T) {
	s := newServer(t)
	noSeller := testpdf.Invoice
	noSeller.Seller = ""

	cases := []struct {
		name   string
		files  []part
		values map[string]string
		status int
		step   string
	}{
		{
			name:   "missing xml",
			files:  []part{{"pdf", "a.pdf", blankPDF(t)}},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad level",
			files:  []part{{"pdf", "a.pdf", blankPDF(t)}, {"xml", "x.xml", testpdf.FacturX(testpdf.Invoice)}},
			values: map[string]string{"level": "platinum"},
			status: http.StatusBadRequest,
		},
		{
			name:   "bad check flag",
			files:  []part{{"pdf", "a.pdf", blankPDF(t)}, {"xml", "x.xml", testpdf.FacturX(testpdf.Invoice)}},
			values: map[string]string{"check_xsd": "maybe"},
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid xml",
			files:  []part{{"pdf", "a.pdf", blankPDF(t)}, {"xml", "x.xml", testpdf.FacturX(noSeller)}},
			status: http.StatusUnprocessableEntity,
			step:   "schema",
		},
		{
			name:   "validation disabled",
			files:  []part{{"pdf", "a.pdf", blankPDF(t)}, {"xml", "x.xml", testpdf.FacturX(noSeller)}},
			values: map[string]string{"check_xsd": "false"},
			status: http.StatusUnprocessableEntity,
			step:   "metadata",
		},
		{
			name:   "invalid pdf",
			files:  []part{{"pdf", "a.pdf", []byte("not a PDF file")}, {"xml", "x.xml", testpdf.FacturX(testpdf.Invoice)}},
			status: http.StatusUnprocessableEntity,
			step:   "io",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, newRequest(t, "/generate_facturx", c.files, c.values))
			resp := rec.Result()
			if resp.StatusCode != c.status {
				t.Fatalf("status %d, want %d", resp.StatusCode, c.status)
			}
			body := errorBody(t, resp)
			if body["error"] == "" {
				t.Error("missing error message")
			}
			if body["step"] != c.step {
				t.Errorf("wrong step %q, want %q", body["step"], c.step)
			}
		})
	}
}

func TestExtractNotFound(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, newRequest(t, "/extract_xml", []part{{"pdf", "a.pdf", blankPDF(t)}}, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate_facturx", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status %d", rec.Code)
	}
}

func TestUploadLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadMB = 1
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	big := make([]byte, 2<<20)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, newRequest(t, "/extract_xml", []part{{"pdf", "a.pdf", big}}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d", rec.Code)
	}
}

func TestOutputName(t *testing.T) {
	cases := map[string]string{
		"invoice.pdf": "invoice_facturx.pdf",
		"a.b.PDF":     "a.b_facturx.pdf",
		"":            "document_facturx.pdf",
		"noext":       "noext_facturx.pdf",
	}
	for in, want := range cases {
		if got := outputName(in); got != want {
			t.Errorf("%q: got %q, want %q", in, got, want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "facturx.yaml")
	err := os.WriteFile(name, []byte("listen: \":8080\"\nmax_attachments: 5\ncheck_schema: false\nwrite_timeout: 2m\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(name)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Listen = ":8080"
	want.MaxAttachments = 5
	want.CheckSchema = false
	want.WriteTimeout = 2 * time.Minute
	if d := cmp.Diff(want, cfg); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}

	err = os.WriteFile(name, []byte("max_upload_mb: 0\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadConfig(name)
	if err == nil {
		t.Error("invalid config accepted")
	}

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err == nil {
		t.Error("missing file not reported")
	}
}
