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

package metadata

import (
	"bytes"

	"seehuhn.de/go/facturx/profile"
	"seehuhn.de/go/xmp"
)

// Properties are the hybrid document properties found in an XMP packet.
type Properties struct {
	// Flavor is determined by the namespace of the properties.
	// It is zero if the packet has no hybrid document properties.
	Flavor profile.Flavor

	DocumentType     string
	DocumentFileName string
	Version          string
	ConformanceLevel string

	// PDFAPart and PDFAConformance give the PDF/A identification.
	PDFAPart        string
	PDFAConformance string

	Producer string
	Keywords string
}

type facturXProps struct {
	_                xmp.Namespace `xmp:"urn:factur-x:pdfa:CrossIndustryDocument:invoice:1p0#"`
	_                xmp.Prefix    `xmp:"fx"`
	DocumentType     xmp.Text
	DocumentFileName xmp.Text
	Version          xmp.Text
	ConformanceLevel xmp.Text
}

type orderXProps struct {
	_                xmp.Namespace `xmp:"urn:factur-x:pdfa:CrossIndustryDocument:1p0#"`
	_                xmp.Prefix    `xmp:"fx"`
	DocumentType     xmp.Text
	DocumentFileName xmp.Text
	Version          xmp.Text
	ConformanceLevel xmp.Text
}

type zugferdProps struct {
	_                xmp.Namespace `xmp:"urn:ferd:pdfa:CrossIndustryDocument:invoice:1p0#"`
	_                xmp.Prefix    `xmp:"zf"`
	DocumentType     xmp.Text
	DocumentFileName xmp.Text
	Version          xmp.Text
	ConformanceLevel xmp.Text
}

type pdfaID struct {
	_           xmp.Namespace `xmp:"http://www.aiim.org/pdfa/ns/id/"`
	_           xmp.Prefix    `xmp:"pdfaid"`
	Part        xmp.Text      `xmp:"part"`
	Conformance xmp.Text      `xmp:"conformance"`
}

type pdfProps struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.Text
	Keywords xmp.Text
}

// Read parses an XMP packet and returns the hybrid document properties.
func Read(packet []byte) (*Properties, error) {
	p, err := xmp.Read(bytes.NewReader(packet))
	if err != nil {
		return nil, err
	}

	res := &Properties{}

	fx := &facturXProps{}
	ox := &orderXProps{}
	zf := &zugferdProps{}
	p.Get(fx)
	p.Get(ox)
	p.Get(zf)
	switch {
	case fx.DocumentFileName.V != "":
		res.Flavor = profile.FacturX
		res.DocumentType = fx.DocumentType.V
		res.DocumentFileName = fx.DocumentFileName.V
		res.Version = fx.Version.V
		res.ConformanceLevel = fx.ConformanceLevel.V
	case ox.DocumentFileName.V != "":
		res.Flavor = profile.OrderX
		res.DocumentType = ox.DocumentType.V
		res.DocumentFileName = ox.DocumentFileName.V
		res.Version = ox.Version.V
		res.ConformanceLevel = ox.ConformanceLevel.V
	case zf.DocumentFileName.V != "":
		res.Flavor = profile.ZUGFeRD
		res.DocumentType = zf.DocumentType.V
		res.DocumentFileName = zf.DocumentFileName.V
		res.Version = zf.Version.V
		res.ConformanceLevel = zf.ConformanceLevel.V
	}

	id := &pdfaID{}
	p.Get(id)
	res.PDFAPart = id.Part.V
	res.PDFAConformance = id.Conformance.V

	props := &pdfProps{}
	p.Get(props)
	res.Producer = props.Producer.V
	res.Keywords = props.Keywords.V

	return res, nil
}
