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

package profile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFlavor(t *testing.T) {
	cases := []struct {
		in   string
		want Flavor
	}{
		{"", 0},
		{"autodetect", 0},
		{"Factur-X", FacturX},
		{"factur_x", FacturX},
		{" FACTURX ", FacturX},
		{"zugferd2", FacturX},
		{"ZUGFeRD", ZUGFeRD},
		{"order-x", OrderX},
		{"OrderX", OrderX},
	}
	for _, c := range cases {
		got, err := ParseFlavor(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %s, want %s", c.in, got, c.want)
		}
	}

	_, err := ParseFlavor("x-rechnung")
	if !errors.Is(err, ErrUnrecognizedFlavor) {
		t.Errorf("expected ErrUnrecognizedFlavor, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"", 0},
		{"minimum", Minimum},
		{"Basic WL", BasicWL},
		{"basic-wl", BasicWL},
		{"BASICWL", BasicWL},
		{"basic", Basic},
		{"EN 16931", EN16931},
		{"en16931", EN16931},
		{"extended", Extended},
		{"Comfort", Comfort},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %s, want %s", c.in, got, c.want)
		}
	}

	_, err := ParseLevel("xrechnung")
	if !errors.Is(err, ErrUnrecognizedLevel) {
		t.Errorf("expected ErrUnrecognizedLevel, got %v", err)
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for l := Minimum; l <= Comfort; l++ {
		got, err := ParseLevel(l.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != l {
			t.Errorf("%s: got %s", l, got)
		}
	}
}

func TestCompatibility(t *testing.T) {
	cases := []struct {
		f    Flavor
		want []Level
	}{
		{FacturX, []Level{Minimum, BasicWL, Basic, EN16931, Extended}},
		{ZUGFeRD, []Level{Basic, Comfort, Extended}},
		{OrderX, []Level{Basic, Comfort, Extended}},
		{0, nil},
	}
	for _, c := range cases {
		if d := cmp.Diff(c.want, Levels(c.f)); d != "" {
			t.Errorf("%s (-want +got):\n%s", c.f, d)
		}
		for l := Minimum; l <= Comfort; l++ {
			_, err := New(c.f, l)
			if Valid(c.f, l) != (err == nil) {
				t.Errorf("New(%s, %s) = %v disagrees with Valid", c.f, l, err)
			}
		}
	}

	// the returned slice is a copy
	levels := Levels(FacturX)
	levels[0] = Extended
	if Levels(FacturX)[0] != Minimum {
		t.Error("Levels exposes the compatibility table")
	}
}

func TestCanonical(t *testing.T) {
	if l := Canonical(FacturX, Comfort); l != EN16931 {
		t.Errorf("got %s", l)
	}
	if l := Canonical(OrderX, Comfort); l != Comfort {
		t.Errorf("got %s", l)
	}
	if l := Canonical(ZUGFeRD, Basic); l != Basic {
		t.Errorf("got %s", l)
	}
}

func TestProfile(t *testing.T) {
	p, err := New(OrderX, Extended)
	if err != nil {
		t.Fatal(err)
	}
	if p.Flavor() != OrderX || p.Level() != Extended || p.IsZero() {
		t.Errorf("unexpected profile %s", p)
	}
	if p.String() != "order-x/extended" {
		t.Errorf("wrong string %q", p.String())
	}
	if !(Profile{}).IsZero() {
		t.Error("zero profile is not zero")
	}

	_, err = New(7, Basic)
	if !errors.Is(err, ErrUnrecognizedFlavor) {
		t.Errorf("expected ErrUnrecognizedFlavor, got %v", err)
	}
	_, err = New(ZUGFeRD, Minimum)
	if !errors.Is(err, ErrUnrecognizedLevel) {
		t.Errorf("expected ErrUnrecognizedLevel, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	for _, f := range []Flavor{FacturX, ZUGFeRD, OrderX} {
		if !IsReserved(f.Filename()) {
			t.Errorf("%s: %q is not reserved", f, f.Filename())
		}
	}
	if IsReserved("Factur-X.xml") {
		t.Error("reserved names must be case-sensitive")
	}
	if Flavor(0).Filename() != "" {
		t.Error("autodetect has a file name")
	}
}

func TestOrderType(t *testing.T) {
	cases := []struct {
		in   string
		want OrderType
	}{
		{"", 0},
		{"order", Order},
		{"Order_Change", OrderChange},
		{"order-response", OrderResponse},
		{"230", OrderChange},
		{" 231", OrderResponse},
	}
	for _, c := range cases {
		got, err := ParseOrderType(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %s, want %s", c.in, got, c.want)
		}
	}

	for _, tp := range []OrderType{Order, OrderChange, OrderResponse} {
		got, err := OrderTypeFromCode(tp.Code())
		if err != nil || got != tp {
			t.Errorf("%s: got %s, %v", tp, got, err)
		}
	}

	_, err := OrderTypeFromCode("380")
	if !errors.Is(err, ErrUnrecognizedOrderType) {
		t.Errorf("expected ErrUnrecognizedOrderType, got %v", err)
	}
	_, err = ParseOrderType("invoice")
	if !errors.Is(err, ErrUnrecognizedOrderType) {
		t.Errorf("expected ErrUnrecognizedOrderType, got %v", err)
	}
}
