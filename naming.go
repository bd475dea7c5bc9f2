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

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Information about the raw model grid the precomputed grids are built from.
const (
	GridName     = "PHOENIX-ACES-AGSS-COND-2011"
	GridURL      = "https://phoenix.astro.physik.uni-goettingen.de/?page_id=15"
	GridCitation = "2013A&A...553A...6H"
)

// Units of the precomputed grids.
const (
	WavelengthUnit     = "nm"
	PhotonSpectrumUnit = "ph / (m2 nm s)"
	FluxSpectrumUnit   = "W / (m2 nm)"
)

const rawSuffix = ".PHOENIX-ACES-AGSS-COND-2011-HiRes.fits"

// SpectrumUnit returns the unit of grid spectra in photon or power units.
func SpectrumUnit(photons bool) string {
	if photons {
		return PhotonSpectrumUnit
	}
	return FluxSpectrumUnit
}

// GridFilename returns the base name of the precomputed grid file with
// resolution R and metallicity z.
func GridFilename(photons bool, R, z float64) string {
	units := "flux"
	if photons {
		units = "photons"
	}
	return fmt.Sprintf("phoenix_%s_metallicity=%3.1f_R=%.0f.nc", units, z, R)
}

// StringifyMetallicity formats a metallicity the way raw PHOENIX file
// names do. Solar and sub-solar values get a minus sign, so 0 is "-0.0".
func StringifyMetallicity(z float64) string {
	if z <= 0 {
		return fmt.Sprintf("-%03.1f", math.Abs(z))
	}
	return fmt.Sprintf("+%03.1f", z)
}

// RawFilename returns the name of the raw high-resolution PHOENIX model
// file for p, excluding the directory.
func RawFilename(p Point) string {
	return fmt.Sprintf("lte%05.0f-%04.2f%s%s",
		p.Temperature, p.Logg, StringifyMetallicity(p.Metallicity), rawSuffix)
}

// ParseRawFilename returns the stellar parameters encoded in the name of
// a raw PHOENIX model file. Any leading directory is ignored.
func ParseRawFilename(name string) (Point, error) {
	f := filepath.Base(name)
	if len(f) < 17 || !strings.HasPrefix(f, "lte") {
		return Point{}, fmt.Errorf("phoenix: %q is not a PHOENIX model filename", name)
	}
	t, err := strconv.ParseFloat(f[3:8], 64)
	if err != nil {
		return Point{}, fmt.Errorf("phoenix: parsing temperature from %q: %v", name, err)
	}
	g, err := strconv.ParseFloat(f[9:13], 64)
	if err != nil {
		return Point{}, fmt.Errorf("phoenix: parsing logg from %q: %v", name, err)
	}
	z, err := strconv.ParseFloat(f[13:17], 64)
	if err != nil {
		return Point{}, fmt.Errorf("phoenix: parsing metallicity from %q: %v", name, err)
	}
	if z == 0 {
		z = 0 // "-0.0" is solar.
	}
	return Point{Temperature: t, Logg: g, Metallicity: z}, nil
}
