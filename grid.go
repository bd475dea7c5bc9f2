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
	"errors"
	"fmt"
	"math"
	"sort"
)

// Indices of the grid axes.
const (
	TemperatureAxis = iota
	LoggAxis
	MetallicityAxis
)

// AxisNames are the names of the coordinates that index a grid,
// in the order they are used for indexing.
var AxisNames = [3]string{"temperature", "logg", "metallicity"}

// AxisLogSpace specifies whether interpolation along each axis is carried
// out in natural-log space. PHOENIX temperature grids are roughly
// logarithmically spaced; logg and metallicity are already logarithmic
// quantities.
var AxisLogSpace = [3]bool{true, false, false}

// Point holds the stellar parameters of a model spectrum.
type Point struct {
	Temperature float64 // K
	Logg        float64 // log10(g / (cm s⁻²))
	Metallicity float64 // log10(metals / solar)
}

func (p Point) coord(axis int) float64 {
	switch axis {
	case TemperatureAxis:
		return p.Temperature
	case LoggAxis:
		return p.Logg
	case MetallicityAxis:
		return p.Metallicity
	}
	panic(fmt.Errorf("phoenix: invalid axis %d", axis))
}

func (p Point) String() string {
	return fmt.Sprintf("(temperature=%g, logg=%g, metallicity=%g)", p.Temperature, p.Logg, p.Metallicity)
}

// Axis holds the sorted, unique values of one grid coordinate.
type Axis struct {
	Name   string
	Values []float64
}

// Min returns the smallest value on the axis, or NaN if the axis is empty.
func (a Axis) Min() float64 {
	if len(a.Values) == 0 {
		return math.NaN()
	}
	return a.Values[0]
}

// Max returns the largest value on the axis, or NaN if the axis is empty.
func (a Axis) Max() float64 {
	if len(a.Values) == 0 {
		return math.NaN()
	}
	return a.Values[len(a.Values)-1]
}

// index returns the position of v in the axis and whether v is exactly
// one of the axis values.
func (a Axis) index(v float64) (int, bool) {
	i := sort.SearchFloat64s(a.Values, v)
	return i, i < len(a.Values) && a.Values[i] == v
}

// Metadata describes a grid.
type Metadata struct {
	Grid           string  // name of the model grid, e.g. PHOENIX-ACES-AGSS-COND-2011
	URL            string  // where the raw models came from
	Citation       string  // reference for the raw models
	Photons        bool    // whether fluxes are photon rates rather than power
	R              float64 // spectral resolution λ/Δλ
	Metallicity    float64 // metallicity the grid was built for
	WavelengthUnit string
	SpectrumUnit   string
	Filename       string // base name of the persisted grid
	Version        string // version of the software that built the grid
}

// key identifies a lattice point by its indices along each axis.
type key [3]int

// Grid is a set of model spectra sampled on a shared wavelength axis
// and indexed by temperature, logg, and metallicity. A Grid is not
// modified after it is created, so it can be shared among goroutines.
type Grid struct {
	Metadata

	wavelength []float64
	axes       [3]Axis
	spectra    map[key][]float64
}

// NewGrid creates a grid from a shared wavelength array and a set of
// spectra keyed by their stellar parameters. The axis values of the grid
// are the sorted unique coordinates of the keys. Every spectrum must have
// the same length as wavelength. The inputs are copied.
func NewGrid(meta Metadata, wavelength []float64, models map[Point][]float64) (*Grid, error) {
	if len(wavelength) == 0 {
		return nil, errors.New("phoenix: grid has no wavelengths")
	}
	if len(models) == 0 {
		return nil, errors.New("phoenix: grid has no spectra")
	}

	var sets [3]map[float64]struct{}
	for i := range sets {
		sets[i] = make(map[float64]struct{})
	}
	for p, s := range models {
		if len(s) != len(wavelength) {
			return nil, fmt.Errorf("phoenix: spectrum for %v has %d values but there are %d wavelengths",
				p, len(s), len(wavelength))
		}
		for i := range sets {
			v := p.coord(i)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("phoenix: invalid %s in grid key %v", AxisNames[i], p)
			}
			if AxisLogSpace[i] && v <= 0 {
				return nil, fmt.Errorf("phoenix: %s must be positive but is %g in grid key %v",
					AxisNames[i], v, p)
			}
			sets[i][v] = struct{}{}
		}
	}

	g := &Grid{
		Metadata:   meta,
		wavelength: append([]float64(nil), wavelength...),
		spectra:    make(map[key][]float64, len(models)),
	}
	for i, set := range sets {
		vals := make([]float64, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		g.axes[i] = Axis{Name: AxisNames[i], Values: vals}
	}
	for p, s := range models {
		k, _ := g.keyOf(p)
		g.spectra[k] = append([]float64(nil), s...)
	}
	return g, nil
}

// keyOf returns the lattice key of p and whether every coordinate of p
// is exactly on the grid axes. It does not check whether a spectrum
// exists at that key.
func (g *Grid) keyOf(p Point) (key, bool) {
	var k key
	for i := range k {
		j, ok := g.axes[i].index(p.coord(i))
		if !ok {
			return k, false
		}
		k[i] = j
	}
	return k, true
}

// pointOf returns the stellar parameters at lattice key k.
func (g *Grid) pointOf(k key) Point {
	return Point{
		Temperature: g.axes[TemperatureAxis].Values[k[TemperatureAxis]],
		Logg:        g.axes[LoggAxis].Values[k[LoggAxis]],
		Metallicity: g.axes[MetallicityAxis].Values[k[MetallicityAxis]],
	}
}

// Wavelength returns the wavelengths shared by all spectra in the grid.
// The returned slice is shared by all callers and should not be modified.
func (g *Grid) Wavelength() []float64 { return g.wavelength }

// Axis returns the axis with the given index (TemperatureAxis, LoggAxis,
// or MetallicityAxis).
func (g *Grid) Axis(i int) Axis { return g.axes[i] }

// Axes returns all three grid axes in indexing order.
func (g *Grid) Axes() [3]Axis { return g.axes }

// Len returns the number of lattice points that have a spectrum.
func (g *Grid) Len() int { return len(g.spectra) }

// Has reports whether the grid holds a spectrum at exactly p.
func (g *Grid) Has(p Point) bool {
	k, ok := g.keyOf(p)
	if !ok {
		return false
	}
	_, ok = g.spectra[k]
	return ok
}

// Points returns the stellar parameters of every spectrum in the grid,
// sorted by temperature, then logg, then metallicity.
func (g *Grid) Points() []Point {
	keys := make([]key, 0, len(g.spectra))
	for k := range g.spectra {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for a := range keys[i] {
			if keys[i][a] != keys[j][a] {
				return keys[i][a] < keys[j][a]
			}
		}
		return false
	})
	out := make([]Point, len(keys))
	for i, k := range keys {
		out[i] = g.pointOf(k)
	}
	return out
}
