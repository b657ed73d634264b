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

package attachment

import (
	"bytes"
	"crypto/md5"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"

	"seehuhn.de/go/facturx/internal/debug/memfile"
	"seehuhn.de/go/facturx/nametree"
	"seehuhn.de/go/facturx/profile"
)

func TestPrimaryRelationship(t *testing.T) {
	fx := func(l profile.Level) profile.Profile {
		p, err := profile.New(profile.FacturX, l)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	cases := []struct {
		level     profile.Level
		requested Relationship
		want      Relationship
		warn      bool
	}{
		{profile.EN16931, "", Data, false},
		{profile.EN16931, Data, Data, false},
		{profile.EN16931, Source, Source, false},
		{profile.Extended, Alternative, Alternative, false},
		{profile.EN16931, Supplement, Data, true},
		{profile.EN16931, Unspecified, Data, true},
		{profile.Minimum, Source, Data, true},
		{profile.BasicWL, Alternative, Data, true},
		{profile.Minimum, Data, Data, false},
	}
	for _, c := range cases {
		e, warnings := Primary(&PrimaryParams{
			XML:          []byte("<x/>"),
			Profile:      fx(c.level),
			Relationship: c.requested,
		})
		if e.Relationship != c.want {
			t.Errorf("%s/%q: got %s, want %s", c.level, c.requested, e.Relationship, c.want)
		}
		if (len(warnings) > 0) != c.warn {
			t.Errorf("%s/%q: unexpected warnings %q", c.level, c.requested, warnings)
		}
	}
}

func TestPrimaryEntry(t *testing.T) {
	p, err := profile.New(profile.OrderX, profile.Comfort)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("<order/>")
	e, _ := Primary(&PrimaryParams{
		XML:       data,
		Profile:   p,
		OrderType: profile.OrderResponse,
	})
	if e.Filename != "order-x.xml" {
		t.Errorf("wrong filename %q", e.Filename)
	}
	if e.MimeType != "text/xml" {
		t.Errorf("wrong mime type %q", e.MimeType)
	}
	if e.Description != "Order-X Order Response" {
		t.Errorf("wrong description %q", e.Description)
	}
	if e.Size() != len(data) || !e.CheckSumOK() {
		t.Error("wrong size or checksum")
	}
}

func TestSupplementary(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	e, warnings, err := Supplementary(&File{
		Filename:     "terms.pdf",
		Data:         []byte("%PDF-1.7"),
		Relationship: Source,
	}, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %q", warnings)
	}
	if e.Relationship != Unspecified {
		t.Errorf("wrong relationship %s", e.Relationship)
	}
	if e.MimeType != "application/pdf" {
		t.Errorf("wrong mime type %q", e.MimeType)
	}
	if !e.ModDate.Equal(now) {
		t.Errorf("wrong modification date %s", e.ModDate)
	}

	for _, name := range profile.ReservedFilenames {
		_, _, err := Supplementary(&File{Filename: name}, now)
		if !errors.Is(err, ErrReservedName) {
			t.Errorf("%q: expected ErrReservedName, got %v", name, err)
		}
	}
	for _, name := range []string{"", ".", "..", "a/b.txt", "../x.txt", `c:\x.txt`} {
		_, _, err := Supplementary(&File{Filename: name}, now)
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("%q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"a.pdf":     "application/pdf",
		"a.xml":     "text/xml",
		"a.txt":     "text/plain",
		"a.csv":     "text/csv",
		"A.PNG":     "image/png",
		"a.xlsx":    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"a.unknown": DefaultMimeType,
		"noext":     DefaultMimeType,
		".txt":      "text/plain",
	}
	for name, want := range cases {
		if got := MimeType(name); got != want {
			t.Errorf("%q: got %q, want %q", name, got, want)
		}
	}
}

func TestEncodeName(t *testing.T) {
	if got := EncodeName("factur-x.xml"); string(got) != "factur-x.xml" {
		t.Errorf("ASCII name changed: %q", got)
	}
	cases := []struct {
		name string
		want pdf.String
	}{
		{"Ä.txt", pdf.String("\xc4.txt")},
		{"発注.txt", pdf.String("\xfe\xff\x76\x7a\x6c\xe8\x00.\x00t\x00x\x00t")},
	}
	for _, c := range cases {
		got := EncodeName(c.name)
		if !bytes.Equal(got, c.want) {
			t.Errorf("%s: got % x, want % x", c.name, got, c.want)
		}
	}
}

func TestSort(t *testing.T) {
	entries := []*Entry{
		{Filename: "b.txt"},
		{Filename: "Ä.txt"},
		{Filename: "B.txt"},
		{Filename: "a.txt"},
	}
	Sort(entries)
	var got []string
	for _, e := range entries {
		got = append(got, e.Filename)
	}
	// upper case sorts before lower case, Ä is 0xC4 in PDFDocEncoding
	want := []string{"B.txt", "a.txt", "b.txt", "Ä.txt"}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 1, 2, 9, 30, 15, 0, time.UTC)
	entries := []*Entry{
		{
			Filename:     "factur-x.xml",
			Data:         []byte("<rsm:CrossIndustryInvoice/>"),
			Description:  "Factur-X Invoice",
			MimeType:     "text/xml",
			ModDate:      modified,
			Relationship: Data,
		},
		{
			Filename:     "Übersicht.txt",
			Data:         []byte("hello"),
			MimeType:     "text/plain",
			CreationDate: created,
			ModDate:      modified,
			Relationship: Unspecified,
		},
		{
			Filename:     "delivery-note.pdf",
			Data:         bytes.Repeat([]byte{0, 1, 2, 3}, 1000),
			Description:  "Lieferschein",
			MimeType:     "application/pdf",
			Relationship: Supplement,
		},
	}
	for _, e := range entries {
		e.CheckSum = checksum(e.Data)
	}

	buf := &bytes.Buffer{}
	page, err := document.WriteSinglePage(buf, document.A4, pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	emb, err := Embed(page.Out, entries)
	if err != nil {
		t.Fatal(err)
	}
	if len(emb.Names) != 2*len(entries) || len(emb.AF) != len(entries) {
		t.Fatalf("wrong array lengths %d, %d", len(emb.Names), len(emb.AF))
	}
	for i := range emb.AF {
		if emb.Names[2*i+1] != emb.AF[i] {
			t.Errorf("AF[%d] does not match the name tree", i)
		}
	}
	cat := page.Out.GetMeta().Catalog
	cat.Names = pdf.Dict{"EmbeddedFiles": pdf.Dict{"Names": emb.Names}}
	cat.AF = emb.AF
	err = page.Close()
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	names, err := pdf.GetDict(r, r.GetMeta().Catalog.Names)
	if err != nil {
		t.Fatal(err)
	}
	leaves, err := nametree.Leaves(r, names["EmbeddedFiles"])
	if err != nil {
		t.Fatal(err)
	}
	if len(leaves) != len(entries) {
		t.Fatalf("got %d leaves, want %d", len(leaves), len(entries))
	}
	for i, leaf := range leaves {
		want := entries[i]
		if leaf.Key != want.Filename {
			t.Errorf("leaf %d: key %q, want %q", i, leaf.Key, want.Filename)
		}
		got, err := Decode(r, leaf.Value)
		if err != nil {
			t.Fatal(err)
		}
		if !got.CreationDate.Equal(want.CreationDate) || !got.ModDate.Equal(want.ModDate) {
			t.Errorf("%s: wrong dates %s, %s", want.Filename, got.CreationDate, got.ModDate)
		}
		got.CreationDate = want.CreationDate
		got.ModDate = want.ModDate
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%s: %s", want.Filename, d)
		}
		if !got.CheckSumOK() {
			t.Errorf("%s: checksum mismatch", want.Filename)
		}
	}
}

func checksum(data []byte) []byte {
	sum := md5.Sum(data)
	return sum[:]
}

func TestFileSpecification(t *testing.T) {
	modified := time.Date(2025, 1, 2, 9, 30, 15, 0, time.UTC)
	data := []byte("<rsm:CrossIndustryInvoice/>")
	entries := []*Entry{
		{
			Filename:     "factur-x.xml",
			Data:         data,
			Description:  "Factur-X Invoice",
			MimeType:     "text/xml",
			CheckSum:     checksum(data),
			ModDate:      modified,
			Relationship: Data,
		},
	}

	w, f, err := memfile.NewPDFWriter(pdf.V1_7, nil)
	if err != nil {
		t.Fatal(err)
	}
	emb, err := Embed(w, entries)
	if err != nil {
		t.Fatal(err)
	}
	cat := w.GetMeta().Catalog
	cat.Pages = w.Alloc()
	err = w.Put(cat.Pages, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{},
		"Count": pdf.Integer(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	cat.AF = emb.AF
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	r, err := f.NewReader(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	af, err := pdf.GetArray(r, r.GetMeta().Catalog.AF)
	if err != nil || len(af) != 1 {
		t.Fatalf("wrong AF array %v: %v", af, err)
	}
	spec, err := pdf.GetDict(r, af[0])
	if err != nil {
		t.Fatal(err)
	}
	if spec["Type"] != pdf.Name("Filespec") {
		t.Errorf("wrong /Type %v", spec["Type"])
	}
	if spec["AFRelationship"] != pdf.Name("Data") {
		t.Errorf("wrong /AFRelationship %v", spec["AFRelationship"])
	}
	for _, key := range []pdf.Name{"F", "UF"} {
		name, err := pdf.GetString(r, spec[key])
		if err != nil || string(name) != "factur-x.xml" {
			t.Errorf("wrong /%s %q: %v", key, name, err)
		}
	}
	ef, err := pdf.GetDict(r, spec["EF"])
	if err != nil {
		t.Fatal(err)
	}
	if ef["F"] == nil || ef["F"] != ef["UF"] {
		t.Errorf("/EF entries do not agree: %v", ef)
	}
	stm, err := pdf.GetStream(r, ef["F"])
	if err != nil || stm == nil {
		t.Fatalf("missing embedded file stream: %v", err)
	}
	if stm.Dict["Subtype"] != pdf.Name("text/xml") {
		t.Errorf("wrong /Subtype %v", stm.Dict["Subtype"])
	}
	params, err := pdf.GetDict(r, stm.Dict["Params"])
	if err != nil {
		t.Fatal(err)
	}
	if size, err := pdf.GetInteger(r, params["Size"]); err != nil || int(size) != len(data) {
		t.Errorf("wrong /Size %d: %v", size, err)
	}
	if sum, err := pdf.GetString(r, params["CheckSum"]); err != nil || !bytes.Equal(sum, checksum(data)) {
		t.Errorf("wrong /CheckSum % x: %v", sum, err)
	}
}
