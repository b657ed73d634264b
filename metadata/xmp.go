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
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"seehuhn.de/go/facturx/profile"
)

// Schema describes the PDF/A extension schema which declares the properties
// of an embedded business document.
type Schema struct {
	Name       string
	URI        string
	Prefix     string
	Properties []Property
}

// Property is one property declared by an extension schema.
type Property struct {
	Name        string
	Description string
}

// Namespace URIs of the extension schemas.
const (
	FacturXNamespace = "urn:factur-x:pdfa:CrossIndustryDocument:invoice:1p0#"
	OrderXNamespace  = "urn:factur-x:pdfa:CrossIndustryDocument:1p0#"
	ZUGFeRDNamespace = "urn:ferd:pdfa:CrossIndustryDocument:invoice:1p0#"
)

var schemas = map[profile.Flavor]*Schema{
	profile.FacturX: {
		Name:   "Factur-X PDFA Extension Schema",
		URI:    FacturXNamespace,
		Prefix: "fx",
		Properties: []Property{
			{"DocumentFileName", "The name of the embedded XML document"},
			{"DocumentType", "The type of the hybrid document in capital letters, e.g. INVOICE or ORDER"},
			{"Version", "The actual version of the standard applying to the embedded XML document"},
			{"ConformanceLevel", "The conformance level of the embedded XML document"},
		},
	},
	profile.OrderX: {
		Name:   "Order-X PDFA Extension Schema",
		URI:    OrderXNamespace,
		Prefix: "fx",
		Properties: []Property{
			{"DocumentFileName", "The name of the embedded XML document"},
			{"DocumentType", "The type of the hybrid document in capital letters, e.g. INVOICE or ORDER"},
			{"Version", "The actual version of the standard applying to the embedded XML document"},
			{"ConformanceLevel", "The conformance level of the embedded XML document"},
		},
	},
	profile.ZUGFeRD: {
		Name:   "ZUGFeRD PDFA Extension Schema",
		URI:    ZUGFeRDNamespace,
		Prefix: "zf",
		Properties: []Property{
			{"DocumentFileName", "name of the embedded XML invoice file"},
			{"DocumentType", "INVOICE"},
			{"Version", "The actual version of the ZUGFeRD data"},
			{"ConformanceLevel", "The conformance level of the ZUGFeRD data"},
		},
	},
}

// SchemaFor returns the extension schema used for documents of flavor f,
// or nil if f is not a valid flavor.
func SchemaFor(f profile.Flavor) *Schema {
	return schemas[f]
}

var facturXLabels = map[profile.Level]string{
	profile.Minimum:  "MINIMUM",
	profile.BasicWL:  "BASIC WL",
	profile.Basic:    "BASIC",
	profile.EN16931:  "EN 16931",
	profile.Extended: "EXTENDED",
}

// LevelLabel returns the value of the ConformanceLevel property.
func LevelLabel(p profile.Profile) string {
	if p.Flavor() == profile.FacturX {
		return facturXLabels[p.Level()]
	}
	return strings.ToUpper(p.Level().String())
}

// DocumentType returns the value of the DocumentType property.
// Order-X documents use the upper case name of the order type,
// all other documents use INVOICE.
func DocumentType(f profile.Flavor, t profile.OrderType) string {
	if f == profile.OrderX && t != 0 {
		return strings.ToUpper(t.String())
	}
	return "INVOICE"
}

// Description collects everything needed to compose an XMP packet.
type Description struct {
	Profile   profile.Profile
	OrderType profile.OrderType

	// Fields is the human readable description of the document.
	// A nil value gives empty title, creator and description entries.
	Fields *Fields

	Producer    string
	CreatorTool string

	// Date is used both as creation and as modification date.
	Date time.Time
}

// XMPDateFormat is the layout used for dates in the XMP packet.
const XMPDateFormat = "2006-01-02T15:04:05+00:00"

// PacketHeader and PacketTrailer delimit the XMP packet.
const (
	PacketHeader  = "<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n"
	PacketTrailer = "<?xpacket end=\"w\"?>"
)

// XMP composes the XMP packet of a hybrid document.
// The output only depends on the contents of desc.
func XMP(desc *Description) ([]byte, error) {
	if desc.Profile.IsZero() {
		return nil, fmt.Errorf("metadata: missing profile")
	}
	f := desc.Profile.Flavor()
	if f == profile.OrderX && desc.OrderType == 0 {
		return nil, fmt.Errorf("metadata: %w: missing order type", profile.ErrUnrecognizedOrderType)
	}

	data := &xmpData{
		Fields:       desc.Fields.Sanitize(),
		Producer:     desc.Producer,
		CreatorTool:  desc.CreatorTool,
		Date:         desc.Date.UTC().Format(XMPDateFormat),
		Schema:       schemas[f],
		DocumentType: DocumentType(f, desc.OrderType),
		FileName:     f.Filename(),
		Version:      "1.0",
		Level:        LevelLabel(desc.Profile),
	}

	buf := &bytes.Buffer{}
	buf.WriteString(PacketHeader)
	err := xmpTmpl.Execute(buf, data)
	if err != nil {
		return nil, err
	}
	buf.WriteString(PacketTrailer)
	return buf.Bytes(), nil
}

type xmpData struct {
	*Fields
	Producer     string
	CreatorTool  string
	Date         string
	Schema       *Schema
	DocumentType string
	FileName     string
	Version      string
	Level        string
}

func escape(s string) string {
	buf := &strings.Builder{}
	_ = xml.EscapeText(buf, []byte(s))
	return buf.String()
}

var xmpTmpl = template.Must(template.New("xmp").Funcs(template.FuncMap{"x": escape}).Parse(
	`<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/" rdf:about="">
      <pdfaid:part>3</pdfaid:part>
      <pdfaid:conformance>B</pdfaid:conformance>
    </rdf:Description>
    <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/" rdf:about="">
      <dc:title>
        <rdf:Alt>
          <rdf:li xml:lang="x-default">{{x .Title}}</rdf:li>
        </rdf:Alt>
      </dc:title>
      <dc:creator>
        <rdf:Seq>
          <rdf:li>{{x .Author}}</rdf:li>
        </rdf:Seq>
      </dc:creator>
      <dc:description>
        <rdf:Alt>
          <rdf:li xml:lang="x-default">{{x .Subject}}</rdf:li>
        </rdf:Alt>
      </dc:description>
    </rdf:Description>
    <rdf:Description xmlns:pdf="http://ns.adobe.com/pdf/1.3/" rdf:about="">
      <pdf:Producer>{{x .Producer}}</pdf:Producer>
      <pdf:Keywords>{{x .Keywords}}</pdf:Keywords>
    </rdf:Description>
    <rdf:Description xmlns:xmp="http://ns.adobe.com/xap/1.0/" rdf:about="">
      <xmp:CreatorTool>{{x .CreatorTool}}</xmp:CreatorTool>
      <xmp:CreateDate>{{.Date}}</xmp:CreateDate>
      <xmp:ModifyDate>{{.Date}}</xmp:ModifyDate>
    </rdf:Description>
    <rdf:Description xmlns:pdfaExtension="http://www.aiim.org/pdfa/ns/extension/" xmlns:pdfaSchema="http://www.aiim.org/pdfa/ns/schema#" xmlns:pdfaProperty="http://www.aiim.org/pdfa/ns/property#" rdf:about="">
      <pdfaExtension:schemas>
        <rdf:Bag>
          <rdf:li rdf:parseType="Resource">
            <pdfaSchema:schema>{{x .Schema.Name}}</pdfaSchema:schema>
            <pdfaSchema:namespaceURI>{{x .Schema.URI}}</pdfaSchema:namespaceURI>
            <pdfaSchema:prefix>{{.Schema.Prefix}}</pdfaSchema:prefix>
            <pdfaSchema:property>
              <rdf:Seq>
{{- range .Schema.Properties}}
                <rdf:li rdf:parseType="Resource">
                  <pdfaProperty:name>{{.Name}}</pdfaProperty:name>
                  <pdfaProperty:valueType>Text</pdfaProperty:valueType>
                  <pdfaProperty:category>external</pdfaProperty:category>
                  <pdfaProperty:description>{{x .Description}}</pdfaProperty:description>
                </rdf:li>
{{- end}}
              </rdf:Seq>
            </pdfaSchema:property>
          </rdf:li>
        </rdf:Bag>
      </pdfaExtension:schemas>
    </rdf:Description>
    <rdf:Description xmlns:{{.Schema.Prefix}}="{{x .Schema.URI}}" rdf:about="">
      <{{.Schema.Prefix}}:DocumentType>{{.DocumentType}}</{{.Schema.Prefix}}:DocumentType>
      <{{.Schema.Prefix}}:DocumentFileName>{{x .FileName}}</{{.Schema.Prefix}}:DocumentFileName>
      <{{.Schema.Prefix}}:Version>{{.Version}}</{{.Schema.Prefix}}:Version>
      <{{.Schema.Prefix}}:ConformanceLevel>{{.Level}}</{{.Schema.Prefix}}:ConformanceLevel>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>
`))
