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
	"fmt"
	"time"

	"seehuhn.de/go/facturx/metadata"
	"seehuhn.de/go/facturx/profile"
)

// BaseInfo holds the header fields of a business document.
type BaseInfo struct {
	Date     time.Time
	Number   string
	Seller   string
	Buyer    string
	TypeCode string
}

type baseInfoPaths struct {
	header, agreement string
}

var pathsByFlavor = map[profile.Flavor]baseInfoPaths{
	profile.FacturX: {"//rsm:ExchangedDocument", "//ram:ApplicableHeaderTradeAgreement"},
	profile.OrderX:  {"//rsm:ExchangedDocument", "//ram:ApplicableHeaderTradeAgreement"},
	profile.ZUGFeRD: {"//rsm:HeaderExchangedDocument", "//ram:ApplicableSupplyChainTradeAgreement"},
}

// ExtractBaseInfo reads the issue date, document number, type code and the
// names of the trading parties.
//
// The seller name is required for all documents.  The buyer name is only
// required for orders and order changes, where it is used as the author.
// A missing required element is reported as [ErrIncompleteDocument].
func ExtractBaseInfo(d *Document, f profile.Flavor) (*BaseInfo, error) {
	paths, ok := pathsByFlavor[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", profile.ErrUnrecognizedFlavor, f)
	}

	required := func(name, expr string) (string, error) {
		val, ok, err := d.Text(expr)
		if err != nil {
			return "", err
		}
		if !ok || val == "" {
			return "", fmt.Errorf("%w: missing %s", ErrIncompleteDocument, name)
		}
		return val, nil
	}

	info := &BaseInfo{}
	var err error
	info.Number, err = required("document number", paths.header+"/ram:ID")
	if err != nil {
		return nil, err
	}
	info.TypeCode, err = required("type code", paths.header+"/ram:TypeCode")
	if err != nil {
		return nil, err
	}

	dateExpr := paths.header + "/ram:IssueDateTime/udt:DateTimeString"
	dateStr, err := required("issue date", dateExpr)
	if err != nil {
		return nil, err
	}
	format, err := d.attr(dateExpr, "format")
	if err != nil {
		return nil, err
	}
	info.Date, err = ParseDate(dateStr, format)
	if err != nil {
		return nil, err
	}

	info.Seller, err = required("seller name", paths.agreement+"/ram:SellerTradeParty/ram:Name")
	if err != nil {
		return nil, err
	}
	buyer, _, err := d.Text(paths.agreement + "/ram:BuyerTradeParty/ram:Name")
	if err != nil {
		return nil, err
	}
	info.Buyer = buyer
	if buyer == "" && (info.TypeCode == "220" || info.TypeCode == "230") {
		return nil, fmt.Errorf("%w: missing buyer name", ErrIncompleteDocument)
	}

	return info, nil
}

// ParseDate parses a date given in one of the UN/CEFACT date formats.
// Format "102" is YYYYMMDD, format "203" is YYYYMMDDHHMM.  If format is
// empty, it is inferred from the length of s.
func ParseDate(s, format string) (time.Time, error) {
	if format == "" {
		switch len(s) {
		case 8:
			format = "102"
		case 12:
			format = "203"
		}
	}

	var layout string
	switch format {
	case "102":
		layout = "20060102"
	case "203":
		layout = "200601021504"
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported date format %q",
			ErrIncompleteDocument, format)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid issue date %q",
			ErrIncompleteDocument, s)
	}
	return t, nil
}

var typeNames = map[string]string{
	"220": "Order",
	"230": "Order Change",
	"231": "Order Response",
	"380": "Invoice",
	"381": "Refund",
}

// TypeName returns the English display name for a document type code.
// Unknown codes are displayed as "Invoice".
func TypeName(code string) string {
	if name, ok := typeNames[code]; ok {
		return name
	}
	return "Invoice"
}

// DeriveMetadata composes the document information shown by PDF viewers
// from the header fields of a business document.
func DeriveMetadata(info *BaseInfo) *metadata.Fields {
	name := TypeName(info.TypeCode)
	date := info.Date.Format("2006-01-02")

	switch info.TypeCode {
	case "231":
		return &metadata.Fields{
			Author:   info.Seller,
			Title:    fmt.Sprintf("%s: %s on Order %s", info.Seller, name, info.Number),
			Subject:  fmt.Sprintf("Order-X %s on order %s dated %s issued by %s", name, info.Number, date, info.Seller),
			Keywords: name + ", Order-X",
		}
	case "220", "230":
		return &metadata.Fields{
			Author:   info.Buyer,
			Title:    fmt.Sprintf("%s: %s %s", info.Buyer, name, info.Number),
			Subject:  fmt.Sprintf("Order-X %s %s dated %s issued by %s", name, info.Number, date, info.Buyer),
			Keywords: name + ", Order-X",
		}
	default:
		return &metadata.Fields{
			Author:   info.Seller,
			Title:    fmt.Sprintf("%s: %s %s", info.Seller, name, info.Number),
			Subject:  fmt.Sprintf("Factur-X %s %s dated %s issued by %s", name, info.Number, date, info.Seller),
			Keywords: name + ", Factur-X",
		}
	}
}
