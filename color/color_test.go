// seehuhn.de/go/pdf2dom - convert PDF drawing events into styled box trees
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package color

import (
	"errors"
	"testing"

	"seehuhn.de/go/icc"
)

func TestCSS(t *testing.T) {
	cases := []struct {
		c    Color
		want string
	}{
		{Black, "#000000"},
		{Transparent, "rgba(0,0,0,0)"},
		{RGB(1, 0, 0), "#ff0000"},
		{RGB(0.5, 0.5, 0.5), "#7f7f7f"},
		{Gray(1), "#ffffff"},
		{RGB(2, -1, 0), "#ff0000"},
		{CMYK(0, 0, 0, 1), "#000000"},
		{CMYK(1, 0, 0, 0), "#00ffff"},
	}
	for _, c := range cases {
		if got := c.c.CSS(); got != c.want {
			t.Errorf("%#v: got %q, want %q", c.c, got, c.want)
		}
	}
}

func TestFromComponents(t *testing.T) {
	c, err := FromComponents(0, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c != RGB(0, 1, 0) {
		t.Errorf("got %v, want #00ff00", c)
	}
	_, err = FromComponents(1, 2)
	if err == nil {
		t.Error("two components: missing error")
	}
}

// profileHeader returns a minimal ICC profile without tags.
func profileHeader(space icc.ColorSpace, version icc.Version) []byte {
	p := &icc.Profile{
		Version:    version,
		Class:      icc.DisplayDeviceProfile,
		ColorSpace: space,
		PCS:        icc.CIEXYZSpace,
	}
	return p.Encode()
}

func TestFromICC(t *testing.T) {
	profiles := [][]byte{
		profileHeader(icc.RGBSpace, icc.Version2_1_0),
		profileHeader(icc.RGBSpace, icc.Version4_2_0),
	}
	for _, profile := range profiles {
		c, err := FromICC(profile, 0, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if c != RGB(0, 0, 1) {
			t.Errorf("got %v, want #0000ff", c)
		}

		_, err = FromICC(profile, 0.5)
		if !errors.Is(err, ErrComponents) {
			t.Errorf("one component: got %v, want ErrComponents", err)
		}
	}

	c, err := FromICC(profileHeader(icc.GraySpace, icc.Version4_2_0), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if c != Gray(0.5) {
		t.Errorf("gray: got %v", c)
	}
	c, err = FromICC(profileHeader(icc.CMYKSpace, icc.Version2_1_0), 0, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c != CMYK(0, 0, 0, 1) {
		t.Errorf("cmyk: got %v", c)
	}
}

func TestLab(t *testing.T) {
	if c := Lab(100, 0, 0); c.R < 250 || c.G < 250 || c.B < 250 {
		t.Errorf("Lab white: got %s", c)
	}
	if got := Lab(0, 0, 0).CSS(); got != "#000000" {
		t.Errorf("Lab black: got %s", got)
	}
}
