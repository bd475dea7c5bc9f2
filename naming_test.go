/*
Copyright © 2022 the phoenix authors.
This file is part of phoenix.

phoenix is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

phoenix is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with phoenix.  If not, see <http://www.gnu.org/licenses/>.
*/

package phoenix

import "testing"

func TestStringifyMetallicity(t *testing.T) {
	for z, want := range map[float64]string{
		0:    "-0.0",
		-0.5: "-0.5",
		-1.5: "-1.5",
		-4:   "-4.0",
		0.5:  "+0.5",
		1:    "+1.0",
	} {
		if have := StringifyMetallicity(z); have != want {
			t.Errorf("%g: want %s but have %s", z, want, have)
		}
	}
}

func TestRawFilename(t *testing.T) {
	tests := []struct {
		p    Point
		name string
	}{
		{
			p:    Point{Temperature: 3000, Logg: 4.5, Metallicity: 0},
			name: "lte03000-4.50-0.0.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
		},
		{
			p:    Point{Temperature: 12000, Logg: 0, Metallicity: -1.5},
			name: "lte12000-0.00-1.5.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
		},
		{
			p:    Point{Temperature: 2300, Logg: 6, Metallicity: 0.5},
			name: "lte02300-6.00+0.5.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
		},
	}
	for _, test := range tests {
		if have := RawFilename(test.p); have != test.name {
			t.Errorf("%v: want %s but have %s", test.p, test.name, have)
		}
		for _, name := range []string{test.name, "/data/phoenix/Z-0.0/" + test.name} {
			p, err := ParseRawFilename(name)
			if err != nil {
				t.Errorf("%s: %v", name, err)
				continue
			}
			if p != test.p {
				t.Errorf("%s: want %v but have %v", name, test.p, p)
			}
		}
	}
}

func TestParseRawFilenameErrors(t *testing.T) {
	for _, name := range []string{
		"",
		"lte03000",
		"phoenix_flux_metallicity=0.0_R=100.nc",
		"lteABCDE-4.50-0.0.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
		"lte03000-x.yz-0.0.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
		"lte03000-4.50-a.b.PHOENIX-ACES-AGSS-COND-2011-HiRes.fits",
	} {
		if _, err := ParseRawFilename(name); err == nil {
			t.Errorf("%q: expected an error", name)
		}
	}
}

func TestGridFilename(t *testing.T) {
	tests := []struct {
		photons bool
		R, z    float64
		want    string
	}{
		{photons: true, R: 100, z: 0, want: "phoenix_photons_metallicity=0.0_R=100.nc"},
		{photons: false, R: 100000, z: -0.5, want: "phoenix_flux_metallicity=-0.5_R=100000.nc"},
		{photons: true, R: 3, z: 0.5, want: "phoenix_photons_metallicity=0.5_R=3.nc"},
	}
	for _, test := range tests {
		if have := GridFilename(test.photons, test.R, test.z); have != test.want {
			t.Errorf("want %s but have %s", test.want, have)
		}
	}
	l := NewLibrary("grids", false)
	if have, want := l.GridFilename(30, 0), "grids/phoenix_flux_metallicity=0.0_R=30.nc"; have != want {
		t.Errorf("library: want %s but have %s", want, have)
	}
}
