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

package schema

import (
	"regexp"
	"strconv"

	"seehuhn.de/go/facturx/classify"
	"seehuhn.de/go/facturx/profile"
)

// Root namespaces of the supported dialects.
const (
	FacturXNamespace = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	OrderXNamespace  = "urn:un:unece:uncefact:data:SCRDMCCBDACIOMessageStructure:100"
	ZUGFeRDNamespace = "urn:ferd:CrossIndustryDocument:invoice:1p0"
)

type dialect struct {
	root      string
	namespace string
	required  []string
	typeCode  string
	codes     *regexp.Regexp
}

var numericCode = regexp.MustCompile(`^[0-9]{3}$`)

var dialects = map[profile.Flavor]*dialect{
	profile.FacturX: {
		root:      "CrossIndustryInvoice",
		namespace: FacturXNamespace,
		required: []string{
			"/rsm:CrossIndustryInvoice/rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID",
			"/rsm:CrossIndustryInvoice/rsm:ExchangedDocument/ram:ID",
			"/rsm:CrossIndustryInvoice/rsm:ExchangedDocument/ram:IssueDateTime/udt:DateTimeString",
			"/rsm:CrossIndustryInvoice/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeAgreement/ram:SellerTradeParty/ram:Name",
			"/rsm:CrossIndustryInvoice/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeAgreement/ram:BuyerTradeParty/ram:Name",
			"/rsm:CrossIndustryInvoice/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeSettlement/ram:InvoiceCurrencyCode",
			"/rsm:CrossIndustryInvoice/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeSettlement/ram:SpecifiedTradeSettlementHeaderMonetarySummation/ram:DuePayableAmount",
		},
		typeCode: "/rsm:CrossIndustryInvoice/rsm:ExchangedDocument/ram:TypeCode",
		codes:    numericCode,
	},
	profile.OrderX: {
		root:      "SCRDMCCBDACIOMessageStructure",
		namespace: OrderXNamespace,
		required: []string{
			"/rsm:SCRDMCCBDACIOMessageStructure/rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID",
			"/rsm:SCRDMCCBDACIOMessageStructure/rsm:ExchangedDocument/ram:ID",
			"/rsm:SCRDMCCBDACIOMessageStructure/rsm:ExchangedDocument/ram:IssueDateTime/udt:DateTimeString",
			"/rsm:SCRDMCCBDACIOMessageStructure/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeAgreement/ram:SellerTradeParty/ram:Name",
			"/rsm:SCRDMCCBDACIOMessageStructure/rsm:SupplyChainTradeTransaction/ram:ApplicableHeaderTradeAgreement/ram:BuyerTradeParty/ram:Name",
		},
		typeCode: "/rsm:SCRDMCCBDACIOMessageStructure/rsm:ExchangedDocument/ram:TypeCode",
		codes:    regexp.MustCompile(`^(220|230|231)$`),
	},
	profile.ZUGFeRD: {
		root:      "CrossIndustryDocument",
		namespace: ZUGFeRDNamespace,
		required: []string{
			"/rsm:CrossIndustryDocument/rsm:SpecifiedExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID",
			"/rsm:CrossIndustryDocument/rsm:HeaderExchangedDocument/ram:ID",
			"/rsm:CrossIndustryDocument/rsm:HeaderExchangedDocument/ram:IssueDateTime/udt:DateTimeString",
			"/rsm:CrossIndustryDocument/rsm:SpecifiedSupplyChainTradeTransaction/ram:ApplicableSupplyChainTradeAgreement/ram:SellerTradeParty/ram:Name",
			"/rsm:CrossIndustryDocument/rsm:SpecifiedSupplyChainTradeTransaction/ram:ApplicableSupplyChainTradeSettlement/ram:InvoiceCurrencyCode",
		},
		typeCode: "/rsm:CrossIndustryDocument/rsm:HeaderExchangedDocument/ram:TypeCode",
		codes:    numericCode,
	},
}

// Structural checks the structure of a document without a full XML Schema
// engine.  The zero value is ready to use.
type Structural struct{}

// Validate implements the [Validator] interface.
func (Structural) Validate(d *classify.Document, p profile.Profile) error {
	dia, ok := dialects[p.Flavor()]
	if !ok {
		return &ValidationError{
			Profile:  p,
			Problems: []Problem{{Message: "unsupported flavor " + p.Flavor().String()}},
		}
	}

	var problems []Problem
	local, space := d.Root()
	if local != dia.root {
		problems = append(problems, Problem{
			Path:    "/",
			Message: "root element is " + local + ", expected " + dia.root,
		})
	}
	if space != dia.namespace {
		problems = append(problems, Problem{
			Path:    "/",
			Message: "root namespace is " + strconv.Quote(space) + ", expected " + strconv.Quote(dia.namespace),
		})
	}
	if len(problems) > 0 {
		// the remaining paths depend on the root element
		return &ValidationError{Profile: p, Problems: problems}
	}

	for _, path := range dia.required {
		val, found, err := d.Text(path)
		if err != nil {
			return err
		}
		if !found || val == "" {
			problems = append(problems, Problem{Path: path, Message: "missing required element"})
		}
	}

	code, found, err := d.Text(dia.typeCode)
	if err != nil {
		return err
	}
	switch {
	case !found || code == "":
		problems = append(problems, Problem{Path: dia.typeCode, Message: "missing required element"})
	case !dia.codes.MatchString(code):
		problems = append(problems, Problem{Path: dia.typeCode, Message: "invalid type code " + strconv.Quote(code)})
	}

	if urn, err := classify.GuidelineID(d, p.Flavor()); err == nil {
		if _, err := classify.LevelFromURN(urn, p.Flavor()); err != nil {
			problems = append(problems, Problem{
				Path:    dia.required[0],
				Message: "unknown guideline " + strconv.Quote(urn),
			})
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Profile: p, Problems: problems}
	}
	return nil
}
