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

package classify

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/facturx/internal/debug/testpdf"
	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/profile"
)

func mustParse(t *testing.T, data []byte) *Document {
	t.Helper()
	d, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "no xml", "<a><b></a>", "<?xml version=\"1.0\"?>"} {
		_, err := Parse([]byte(in))
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("%q: expected a *SyntaxError, got %v", in, err)
		}
	}
}

func TestFlavor(t *testing.T) {
	cases := []struct {
		xml  []byte
		want profile.Flavor
	}{
		{testpdf.FacturX(testpdf.Invoice), profile.FacturX},
		{testpdf.OrderX(testpdf.Order), profile.OrderX},
		{testpdf.ZUGFeRD(testpdf.LegacyInvoice), profile.ZUGFeRD},
	}
	for _, c := range cases {
		got, err := Flavor(mustParse(t, c.xml))
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("got %s, want %s", got, c.want)
		}
	}

	_, err := Flavor(mustParse(t, []byte("<Invoice xmlns=\"urn:oasis:names:specification:ubl:schema:xsd:Invoice-2\"/>")))
	if !errors.Is(err, profile.ErrUnrecognizedFlavor) {
		t.Errorf("expected ErrUnrecognizedFlavor, got %v", err)
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		guideline string
		flavor    profile.Flavor
		want      profile.Level
	}{
		{testpdf.FacturXMinimum, profile.FacturX, profile.Minimum},
		{testpdf.FacturXBasicWL, profile.FacturX, profile.BasicWL},
		{testpdf.FacturXBasic, profile.FacturX, profile.Basic},
		{testpdf.FacturXEN16931, profile.FacturX, profile.EN16931},
		{testpdf.FacturXExtended, profile.FacturX, profile.Extended},
		{"urn:cen.eu:en16931:2017#conformant#urn:zugferd.de:2p0:comfort", profile.FacturX, profile.EN16931},
		{testpdf.OrderXBasic, profile.OrderX, profile.Basic},
		{testpdf.OrderXComfort, profile.OrderX, profile.Comfort},
		{testpdf.OrderXExtended, profile.OrderX, profile.Extended},
		{testpdf.ZUGFeRDBasic, profile.ZUGFeRD, profile.Basic},
		{testpdf.ZUGFeRDComfort, profile.ZUGFeRD, profile.Comfort},
		{testpdf.ZUGFeRDExtended, profile.ZUGFeRD, profile.Extended},

		// the second-to-last segment is used if the last one is not a level
		{"urn:order-x.eu:1p0:extended:2021", profile.OrderX, profile.Extended},
		{"urn:order-x.eu:1p0:basic:minimum", profile.OrderX, profile.Basic},
	}
	for _, c := range cases {
		got, err := LevelFromURN(c.guideline, c.flavor)
		if err != nil {
			t.Errorf("%s: %v", c.guideline, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %s, want %s", c.guideline, got, c.want)
		}
	}

	for _, urn := range []string{"urn:factur-x.eu:1p0:platinum", "urn:a:b:comfortable:premium", ""} {
		_, err := LevelFromURN(urn, profile.FacturX)
		if !errors.Is(err, profile.ErrUnrecognizedLevel) {
			t.Errorf("%q: expected ErrUnrecognizedLevel, got %v", urn, err)
		}
	}
}

func TestLevelFromDocument(t *testing.T) {
	l, err := Level(mustParse(t, testpdf.ZUGFeRD(testpdf.LegacyInvoice)), profile.ZUGFeRD)
	if err != nil {
		t.Fatal(err)
	}
	if l != profile.Comfort {
		t.Errorf("got %s", l)
	}

	h := testpdf.Invoice
	h.Guideline = ""
	_, err = Level(mustParse(t, testpdf.FacturX(h)), profile.FacturX)
	if !errors.Is(err, ErrMissingProfileIdentifier) {
		t.Errorf("expected ErrMissingProfileIdentifier, got %v", err)
	}
}

func TestOrderType(t *testing.T) {
	for code, want := range map[string]profile.OrderType{
		"220": profile.Order,
		"230": profile.OrderChange,
		"231": profile.OrderResponse,
	} {
		h := testpdf.Order
		h.TypeCode = code
		got, err := OrderType(mustParse(t, testpdf.OrderX(h)))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", code, got, want)
		}
	}

	h := testpdf.Order
	h.TypeCode = "380"
	_, err := OrderType(mustParse(t, testpdf.OrderX(h)))
	if !errors.Is(err, profile.ErrUnrecognizedOrderType) {
		t.Errorf("expected ErrUnrecognizedOrderType, got %v", err)
	}
}

func TestBaseInfo(t *testing.T) {
	cases := []struct {
		name   string
		xml    []byte
		flavor profile.Flavor
		want   *BaseInfo
	}{
		{"factur-x", testpdf.FacturX(testpdf.Invoice), profile.FacturX, &BaseInfo{
			Date:     time.Date(2017, 11, 13, 0, 0, 0, 0, time.UTC),
			Number:   "FA-2017-0010",
			Seller:   "Au bon moulin",
			Buyer:    "Ma jolie boutique",
			TypeCode: "380",
		}},
		{"order-x", testpdf.OrderX(testpdf.Order), profile.OrderX, &BaseInfo{
			Date:     time.Date(2020, 5, 8, 10, 40, 0, 0, time.UTC),
			Number:   "PO123456789",
			Seller:   "SELLER_NAME",
			Buyer:    "BUYER_NAME",
			TypeCode: "220",
		}},
		{"zugferd", testpdf.ZUGFeRD(testpdf.LegacyInvoice), profile.ZUGFeRD, &BaseInfo{
			Date:     time.Date(2013, 3, 5, 0, 0, 0, 0, time.UTC),
			Number:   "471102",
			Seller:   "Lieferant GmbH",
			Buyer:    "Kunden AG Mitte",
			TypeCode: "380",
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ExtractBaseInfo(mustParse(t, c.xml), c.flavor)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(c.want, got); d != "" {
				t.Errorf("base info (-want +got):\n%s", d)
			}
		})
	}
}

func TestBaseInfoIncomplete(t *testing.T) {
	noSeller := testpdf.Invoice
	noSeller.Seller = ""
	noBuyer := testpdf.Order
	noBuyer.Buyer = ""
	noDate := testpdf.Invoice
	noDate.Date = ""
	badFormat := testpdf.Invoice
	badFormat.DateFormat = "610"

	cases := []struct {
		name   string
		xml    []byte
		flavor profile.Flavor
	}{
		{"seller", testpdf.FacturX(noSeller), profile.FacturX},
		{"buyer", testpdf.OrderX(noBuyer), profile.OrderX},
		{"date", testpdf.FacturX(noDate), profile.FacturX},
		{"date format", testpdf.FacturX(badFormat), profile.FacturX},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ExtractBaseInfo(mustParse(t, c.xml), c.flavor)
			if !errors.Is(err, ErrIncompleteDocument) {
				t.Errorf("expected ErrIncompleteDocument, got %v", err)
			}
		})
	}

	// invoices do not need a buyer
	noBuyerInvoice := testpdf.Invoice
	noBuyerInvoice.Buyer = ""
	_, err := ExtractBaseInfo(mustParse(t, testpdf.FacturX(noBuyerInvoice)), profile.FacturX)
	if err != nil {
		t.Error(err)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in, format string
		want       time.Time
	}{
		{"20240229", "102", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"20240229", "", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"202402291530", "203", time.Date(2024, 2, 29, 15, 30, 0, 0, time.UTC)},
		{"202402291530", "", time.Date(2024, 2, 29, 15, 30, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in, c.format)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%q: got %v, want %v", c.in, got, c.want)
		}
	}

	for _, in := range []string{"20230229", "2024-02-29", "1"} {
		_, err := ParseDate(in, "")
		if !errors.Is(err, ErrIncompleteDocument) {
			t.Errorf("%q: expected ErrIncompleteDocument, got %v", in, err)
		}
	}
}

func TestDeriveMetadata(t *testing.T) {
	date := time.Date(2020, 5, 8, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		code string
		want *metadata.Fields
	}{
		{"380", &metadata.Fields{
			Author:   "S",
			Title:    "S: Invoice 42",
			Subject:  "Factur-X Invoice 42 dated 2020-05-08 issued by S",
			Keywords: "Invoice, Factur-X",
		}},
		{"381", &metadata.Fields{
			Author:   "S",
			Title:    "S: Refund 42",
			Subject:  "Factur-X Refund 42 dated 2020-05-08 issued by S",
			Keywords: "Refund, Factur-X",
		}},
		{"220", &metadata.Fields{
			Author:   "B",
			Title:    "B: Order 42",
			Subject:  "Order-X Order 42 dated 2020-05-08 issued by B",
			Keywords: "Order, Order-X",
		}},
		{"230", &metadata.Fields{
			Author:   "B",
			Title:    "B: Order Change 42",
			Subject:  "Order-X Order Change 42 dated 2020-05-08 issued by B",
			Keywords: "Order Change, Order-X",
		}},
		{"231", &metadata.Fields{
			Author:   "S",
			Title:    "S: Order Response on Order 42",
			Subject:  "Order-X Order Response on order 42 dated 2020-05-08 issued by S",
			Keywords: "Order Response, Order-X",
		}},
	}
	for _, c := range cases {
		info := &BaseInfo{Date: date, Number: "42", Seller: "S", Buyer: "B", TypeCode: c.code}
		if d := cmp.Diff(c.want, DeriveMetadata(info)); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.code, d)
		}
	}
}

func TestForeignPrefixes(t *testing.T) {
	// the document uses its own prefixes for the standard namespaces
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<inv:CrossIndustryInvoice xmlns:inv="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
    xmlns:a="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100">
  <inv:ExchangedDocumentContext>
    <a:GuidelineSpecifiedDocumentContextParameter>
      <a:ID>urn:factur-x.eu:1p0:minimum</a:ID>
    </a:GuidelineSpecifiedDocumentContextParameter>
  </inv:ExchangedDocumentContext>
</inv:CrossIndustryInvoice>`
	d := mustParse(t, []byte(xml))
	f, err := Flavor(d)
	if err != nil {
		t.Fatal(err)
	}
	l, err := Level(d, f)
	if err != nil {
		t.Fatal(err)
	}
	if f != profile.FacturX || l != profile.Minimum {
		t.Errorf("got %s/%s", f, l)
	}
}

func TestCharset(t *testing.T) {
	xml := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<root>Gr\xfc\xdfe</root>")
	d := mustParse(t, xml)
	got, ok, err := d.Text("/root")
	if err != nil || !ok {
		t.Fatalf("no text: %v", err)
	}
	if got != "Grüße" {
		t.Errorf("got %q", got)
	}
}
