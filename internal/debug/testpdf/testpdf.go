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

// Package testpdf provides sample documents for tests: a blank one-page
// PDF file and XML business documents of all supported dialects.
package testpdf

import (
	"bytes"
	"fmt"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
)

// BlankPDF returns a PDF file with a single empty A4 page.
func BlankPDF(v pdf.Version, opt *pdf.WriterOptions) ([]byte, error) {
	buf := &bytes.Buffer{}
	page, err := document.WriteSinglePage(buf, document.A4, v, opt)
	if err != nil {
		return nil, err
	}
	err = page.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Guideline identifiers of the different profiles.
const (
	FacturXMinimum  = "urn:factur-x.eu:1p0:minimum"
	FacturXBasicWL  = "urn:factur-x.eu:1p0:basicwl"
	FacturXBasic    = "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic"
	FacturXEN16931  = "urn:cen.eu:en16931:2017"
	FacturXExtended = "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended"

	OrderXBasic    = "urn:order-x.eu:1p0:basic"
	OrderXComfort  = "urn:order-x.eu:1p0:comfort"
	OrderXExtended = "urn:order-x.eu:1p0:extended"

	ZUGFeRDBasic    = "urn:ferd:CrossIndustryDocument:invoice:1p0:basic"
	ZUGFeRDComfort  = "urn:ferd:CrossIndustryDocument:invoice:1p0:comfort"
	ZUGFeRDExtended = "urn:ferd:CrossIndustryDocument:invoice:1p0:extended"
)

// Header holds the header fields of a sample document.
// Empty fields are omitted from the generated XML.
type Header struct {
	Guideline  string
	Number     string
	TypeCode   string
	Date       string
	DateFormat string
	Seller     string
	Buyer      string
}

// Invoice is the header of the sample Factur-X invoice.
var Invoice = Header{
	Guideline:  FacturXEN16931,
	Number:     "FA-2017-0010",
	TypeCode:   "380",
	Date:       "20171113",
	DateFormat: "102",
	Seller:     "Au bon moulin",
	Buyer:      "Ma jolie boutique",
}

// Order is the header of the sample Order-X order.
var Order = Header{
	Guideline:  OrderXComfort,
	Number:     "PO123456789",
	TypeCode:   "220",
	Date:       "202005081040",
	DateFormat: "203",
	Seller:     "SELLER_NAME",
	Buyer:      "BUYER_NAME",
}

// LegacyInvoice is the header of the sample ZUGFeRD 1.0 invoice.
var LegacyInvoice = Header{
	Guideline:  ZUGFeRDComfort,
	Number:     "471102",
	TypeCode:   "380",
	Date:       "20130305",
	DateFormat: "102",
	Seller:     "Lieferant GmbH",
	Buyer:      "Kunden AG Mitte",
}

func element(indent, name, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s<%s>%s</%s>\n", indent, name, value, name)
}

func dateElement(indent string, h *Header) string {
	if h.Date == "" {
		return ""
	}
	format := ""
	if h.DateFormat != "" {
		format = fmt.Sprintf(" format=%q", h.DateFormat)
	}
	return fmt.Sprintf("%s<ram:IssueDateTime><udt:DateTimeString%s>%s</udt:DateTimeString></ram:IssueDateTime>\n",
		indent, format, h.Date)
}

func parties(indent string, h *Header) string {
	b := &strings.Builder{}
	if h.Seller != "" {
		fmt.Fprintf(b, "%s<ram:SellerTradeParty><ram:Name>%s</ram:Name></ram:SellerTradeParty>\n", indent, h.Seller)
	}
	if h.Buyer != "" {
		fmt.Fprintf(b, "%s<ram:BuyerTradeParty><ram:Name>%s</ram:Name></ram:BuyerTradeParty>\n", indent, h.Buyer)
	}
	return b.String()
}

// FacturX returns a Factur-X invoice with the given header.
func FacturX(h Header) []byte {
	b := &strings.Builder{}
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rsm:CrossIndustryInvoice xmlns:qdt="urn:un:unece:uncefact:data:standard:QualifiedDataType:100" xmlns:ram="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100" xmlns:rsm="urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100" xmlns:udt="urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100">
  <rsm:ExchangedDocumentContext>
`)
	if h.Guideline != "" {
		b.WriteString("    <ram:GuidelineSpecifiedDocumentContextParameter>\n")
		b.WriteString(element("      ", "ram:ID", h.Guideline))
		b.WriteString("    </ram:GuidelineSpecifiedDocumentContextParameter>\n")
	}
	b.WriteString("  </rsm:ExchangedDocumentContext>\n  <rsm:ExchangedDocument>\n")
	b.WriteString(element("    ", "ram:ID", h.Number))
	b.WriteString(element("    ", "ram:TypeCode", h.TypeCode))
	b.WriteString(dateElement("    ", &h))
	b.WriteString("  </rsm:ExchangedDocument>\n  <rsm:SupplyChainTradeTransaction>\n")
	b.WriteString("    <ram:ApplicableHeaderTradeAgreement>\n")
	b.WriteString(parties("      ", &h))
	b.WriteString(`    </ram:ApplicableHeaderTradeAgreement>
    <ram:ApplicableHeaderTradeDelivery/>
    <ram:ApplicableHeaderTradeSettlement>
      <ram:InvoiceCurrencyCode>EUR</ram:InvoiceCurrencyCode>
      <ram:SpecifiedTradeSettlementHeaderMonetarySummation>
        <ram:TaxBasisTotalAmount>624.90</ram:TaxBasisTotalAmount>
        <ram:TaxTotalAmount currencyID="EUR">46.25</ram:TaxTotalAmount>
        <ram:GrandTotalAmount>671.15</ram:GrandTotalAmount>
        <ram:DuePayableAmount>671.15</ram:DuePayableAmount>
      </ram:SpecifiedTradeSettlementHeaderMonetarySummation>
    </ram:ApplicableHeaderTradeSettlement>
  </rsm:SupplyChainTradeTransaction>
</rsm:CrossIndustryInvoice>
`)
	return []byte(b.String())
}

// OrderX returns an Order-X order with the given header.
func OrderX(h Header) []byte {
	b := &strings.Builder{}
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rsm:SCRDMCCBDACIOMessageStructure xmlns:rsm="urn:un:unece:uncefact:data:SCRDMCCBDACIOMessageStructure:100" xmlns:qdt="urn:un:unece:uncefact:data:standard:QualifiedDataType:128" xmlns:ram="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:128" xmlns:udt="urn:un:unece:uncefact:data:standard:UnqualifiedDataType:128">
  <rsm:ExchangedDocumentContext>
`)
	if h.Guideline != "" {
		b.WriteString("    <ram:GuidelineSpecifiedDocumentContextParameter>\n")
		b.WriteString(element("      ", "ram:ID", h.Guideline))
		b.WriteString("    </ram:GuidelineSpecifiedDocumentContextParameter>\n")
	}
	b.WriteString("  </rsm:ExchangedDocumentContext>\n  <rsm:ExchangedDocument>\n")
	b.WriteString(element("    ", "ram:ID", h.Number))
	b.WriteString(element("    ", "ram:TypeCode", h.TypeCode))
	b.WriteString(dateElement("    ", &h))
	b.WriteString("  </rsm:ExchangedDocument>\n  <rsm:SupplyChainTradeTransaction>\n")
	b.WriteString("    <ram:ApplicableHeaderTradeAgreement>\n")
	b.WriteString(parties("      ", &h))
	b.WriteString(`    </ram:ApplicableHeaderTradeAgreement>
    <ram:ApplicableHeaderTradeDelivery/>
    <ram:ApplicableHeaderTradeSettlement>
      <ram:OrderCurrencyCode>EUR</ram:OrderCurrencyCode>
      <ram:SpecifiedTradeSettlementHeaderMonetarySummation>
        <ram:LineTotalAmount>60.00</ram:LineTotalAmount>
      </ram:SpecifiedTradeSettlementHeaderMonetarySummation>
    </ram:ApplicableHeaderTradeSettlement>
  </rsm:SupplyChainTradeTransaction>
</rsm:SCRDMCCBDACIOMessageStructure>
`)
	return []byte(b.String())
}

// ZUGFeRD returns a ZUGFeRD 1.0 invoice with the given header.
func ZUGFeRD(h Header) []byte {
	b := &strings.Builder{}
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rsm:CrossIndustryDocument xmlns:rsm="urn:ferd:CrossIndustryDocument:invoice:1p0" xmlns:ram="urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:12" xmlns:udt="urn:un:unece:uncefact:data:standard:UnqualifiedDataType:15">
  <rsm:SpecifiedExchangedDocumentContext>
`)
	if h.Guideline != "" {
		b.WriteString("    <ram:GuidelineSpecifiedDocumentContextParameter>\n")
		b.WriteString(element("      ", "ram:ID", h.Guideline))
		b.WriteString("    </ram:GuidelineSpecifiedDocumentContextParameter>\n")
	}
	b.WriteString("  </rsm:SpecifiedExchangedDocumentContext>\n  <rsm:HeaderExchangedDocument>\n")
	b.WriteString(element("    ", "ram:ID", h.Number))
	b.WriteString(element("    ", "ram:Name", "RECHNUNG"))
	b.WriteString(element("    ", "ram:TypeCode", h.TypeCode))
	b.WriteString(dateElement("    ", &h))
	b.WriteString("  </rsm:HeaderExchangedDocument>\n  <rsm:SpecifiedSupplyChainTradeTransaction>\n")
	b.WriteString("    <ram:ApplicableSupplyChainTradeAgreement>\n")
	b.WriteString(parties("      ", &h))
	b.WriteString(`    </ram:ApplicableSupplyChainTradeAgreement>
    <ram:ApplicableSupplyChainTradeSettlement>
      <ram:InvoiceCurrencyCode>EUR</ram:InvoiceCurrencyCode>
    </ram:ApplicableSupplyChainTradeSettlement>
  </rsm:SpecifiedSupplyChainTradeTransaction>
</rsm:CrossIndustryDocument>
`)
	return []byte(b.String())
}
