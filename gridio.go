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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// GridDataVersion is the version of the grid file format that this
// version of the software reads and writes. Files with a different
// data_version attribute are rejected.
const GridDataVersion = "1.0.0"

const (
	wavelengthDim = "wavelength"
	fluxVar       = "flux"
	presentVar    = "present"
)

// axisUnits are the units of the grid axes.
var axisUnits = [3]string{"K", "log10(cm/s**2)", "log10(Z/Zsun)"}

var axisDescriptions = [3]string{
	"Stellar effective temperature",
	"Base-10 logarithm of surface gravity",
	"Logarithmic metal abundance relative to solar",
}

// LoadGridFile reads a grid from the netCDF file at path.
func LoadGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &GridLoadError{Path: path, Err: err}
	}
	defer f.Close()
	g, err := LoadGrid(f)
	if err != nil {
		if gle, ok := err.(*GridLoadError); ok {
			gle.Path = path
		}
		return nil, err
	}
	return g, nil
}

// LoadGrid reads a grid from a netCDF file. All errors are returned as
// *GridLoadError.
func LoadGrid(rw cdf.ReaderWriterAt) (*Grid, error) {
	g, err := loadGrid(rw)
	if err != nil {
		return nil, &GridLoadError{Err: err}
	}
	return g, nil
}

func loadGrid(rw cdf.ReaderWriterAt) (*Grid, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, err
	}

	dataVersion, err := stringAttribute(f, "data_version")
	if err != nil {
		return nil, err
	}
	if dataVersion != GridDataVersion {
		return nil, fmt.Errorf("data version %s is incompatible with the required version %s",
			dataVersion, GridDataVersion)
	}

	var meta Metadata
	for _, a := range []struct {
		name string
		dst  *string
	}{
		{"grid", &meta.Grid},
		{"url", &meta.URL},
		{"citation", &meta.Citation},
		{"wavelength_unit", &meta.WavelengthUnit},
		{"spectrum_unit", &meta.SpectrumUnit},
		{"filename", &meta.Filename},
		{"software_version", &meta.Version},
	} {
		if *a.dst, err = stringAttribute(f, a.name); err != nil {
			return nil, err
		}
	}
	if meta.R, err = float64Attribute(f, "R"); err != nil {
		return nil, err
	}
	if meta.Metallicity, err = float64Attribute(f, "grid_metallicity"); err != nil {
		return nil, err
	}
	photons, ok := f.Header.GetAttribute("", "photons").([]int32)
	if !ok || len(photons) != 1 {
		return nil, fmt.Errorf("missing or invalid attribute `photons`")
	}
	meta.Photons = photons[0] != 0

	wavelength, err := readFloat64Var(f, wavelengthDim)
	if err != nil {
		return nil, err
	}
	var axes [3][]float64
	for i, name := range AxisNames {
		if axes[i], err = readFloat64Var(f, name); err != nil {
			return nil, err
		}
		for j := 1; j < len(axes[i]); j++ {
			if !(axes[i][j] > axes[i][j-1]) {
				return nil, fmt.Errorf("%s values are not in strictly ascending order", name)
			}
		}
	}
	nt, ng, nz, nw := len(axes[0]), len(axes[1]), len(axes[2]), len(wavelength)

	if err = checkLengths(f, fluxVar, nt, ng, nz, nw); err != nil {
		return nil, err
	}
	if err = checkLengths(f, presentVar, nt, ng, nz); err != nil {
		return nil, err
	}

	flux := sparse.ZerosDense(nt, ng, nz, nw)
	data, err := readFloat64Var(f, fluxVar)
	if err != nil {
		return nil, err
	}
	copy(flux.Elements, data)

	r := f.Reader(presentVar, nil, nil)
	presentBytes, ok := r.Zero(-1).([]uint8)
	if !ok {
		return nil, fmt.Errorf("variable `%s` has the wrong data type", presentVar)
	}
	if _, err = r.Read(presentBytes); err != nil {
		return nil, fmt.Errorf("reading `%s`: %v", presentVar, err)
	}
	present := sparse.ZerosDenseInt(nt, ng, nz)
	if len(presentBytes) < len(present.Elements) {
		return nil, fmt.Errorf("variable `%s` has %d values; want %d", presentVar, len(presentBytes), len(present.Elements))
	}
	for i := range present.Elements {
		present.Elements[i] = int(presentBytes[i])
	}

	models := make(map[Point][]float64)
	for it, t := range axes[TemperatureAxis] {
		for ig, lg := range axes[LoggAxis] {
			for iz, z := range axes[MetallicityAxis] {
				if present.Get(it, ig, iz) == 0 {
					continue
				}
				start := flux.Index1d(it, ig, iz, 0)
				models[Point{Temperature: t, Logg: lg, Metallicity: z}] = flux.Elements[start : start+nw]
			}
		}
	}
	g, err := NewGrid(meta, wavelength, models)
	if err != nil {
		return nil, err
	}
	// Axes listed in the file but holding no spectra would otherwise be
	// dropped silently.
	for i := range axes {
		if len(g.axes[i].Values) != len(axes[i]) {
			return nil, fmt.Errorf("%s axis has %d values but only %d are used by spectra",
				AxisNames[i], len(axes[i]), len(g.axes[i].Values))
		}
	}
	return g, nil
}

// Write writes g to w in netCDF format.
func (g *Grid) Write(w *os.File) error {
	nt, ng, nz := len(g.axes[0].Values), len(g.axes[1].Values), len(g.axes[2].Values)
	nw := len(g.wavelength)

	h := cdf.NewHeader(
		[]string{AxisNames[0], AxisNames[1], AxisNames[2], wavelengthDim},
		[]int{nt, ng, nz, nw})
	h.AddAttribute("", "comment", "PHOENIX model stellar spectrum grid")
	h.AddAttribute("", "data_version", GridDataVersion)
	h.AddAttribute("", "grid", g.Grid)
	h.AddAttribute("", "url", g.URL)
	h.AddAttribute("", "citation", g.Citation)
	var photons int32
	if g.Photons {
		photons = 1
	}
	h.AddAttribute("", "photons", []int32{photons})
	h.AddAttribute("", "R", []float64{g.R})
	h.AddAttribute("", "grid_metallicity", []float64{g.Metallicity})
	h.AddAttribute("", "wavelength_unit", g.WavelengthUnit)
	h.AddAttribute("", "spectrum_unit", g.SpectrumUnit)
	h.AddAttribute("", "filename", g.Filename)
	h.AddAttribute("", "software_version", g.Version)

	for i, name := range AxisNames {
		h.AddVariable(name, []string{name}, []float64{0})
		h.AddAttribute(name, "description", axisDescriptions[i])
		h.AddAttribute(name, "units", axisUnits[i])
	}
	h.AddVariable(wavelengthDim, []string{wavelengthDim}, []float64{0})
	h.AddAttribute(wavelengthDim, "description", "Wavelength shared by all spectra")
	h.AddAttribute(wavelengthDim, "units", g.WavelengthUnit)

	h.AddVariable(fluxVar, []string{AxisNames[0], AxisNames[1], AxisNames[2], wavelengthDim}, []float64{0})
	h.AddAttribute(fluxVar, "description", "Model spectrum; NaN where present == 0")
	h.AddAttribute(fluxVar, "units", g.SpectrumUnit)

	h.AddVariable(presentVar, []string{AxisNames[0], AxisNames[1], AxisNames[2]}, []uint8{0})
	h.AddAttribute(presentVar, "description", "1 where the grid holds a spectrum, otherwise 0")
	h.AddAttribute(presentVar, "units", "")
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}

	for i, name := range AxisNames {
		if err = writeNCF(f, name, g.axes[i].Values); err != nil {
			return fmt.Errorf("phoenix: writing variable %s to netcdf file: %v", name, err)
		}
	}
	if err = writeNCF(f, wavelengthDim, g.wavelength); err != nil {
		return fmt.Errorf("phoenix: writing variable %s to netcdf file: %v", wavelengthDim, err)
	}

	flux := sparse.ZerosDense(nt, ng, nz, nw)
	for i := range flux.Elements {
		flux.Elements[i] = math.NaN()
	}
	present := sparse.ZerosDenseInt(nt, ng, nz)
	for k, s := range g.spectra {
		copy(flux.Elements[flux.Index1d(k[0], k[1], k[2], 0):], s)
		present.Set(1, k[0], k[1], k[2])
	}
	if err = writeNCF(f, fluxVar, flux.Elements); err != nil {
		return fmt.Errorf("phoenix: writing variable %s to netcdf file: %v", fluxVar, err)
	}
	presentBytes := make([]uint8, len(present.Elements))
	for i, v := range present.Elements {
		presentBytes[i] = uint8(v)
	}
	if err = writeNCF(f, presentVar, presentBytes); err != nil {
		return fmt.Errorf("phoenix: writing variable %s to netcdf file: %v", presentVar, err)
	}
	return cdf.UpdateNumRecs(w)
}

// writeNCF writes all of the data for variable name.
func writeNCF(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	n := 1
	for _, v := range end {
		n *= v
	}
	var l int
	switch d := data.(type) {
	case []float64:
		l = len(d)
	case []uint8:
		l = len(d)
	default:
		return fmt.Errorf("unsupported data type %T", data)
	}
	if l != n {
		return fmt.Errorf("dims are %d but array length is %d", n, l)
	}
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	_, err := w.Write(data)
	return err
}

// readFloat64Var reads all of the data for a floating point variable.
func readFloat64Var(f *cdf.File, name string) ([]float64, error) {
	if !hasVariable(f, name) {
		return nil, fmt.Errorf("missing variable `%s`", name)
	}
	r := f.Reader(name, nil, nil)
	switch buf := r.Zero(-1).(type) {
	case []float64:
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("reading `%s`: %v", name, err)
		}
		return buf, nil
	case []float32:
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("reading `%s`: %v", name, err)
		}
		out := make([]float64, len(buf))
		for i, v := range buf {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable `%s` has unsupported data type %T", name, buf)
	}
}

// checkLengths returns an error if variable name does not have the
// given dimension lengths.
func checkLengths(f *cdf.File, name string, lengths ...int) error {
	if !hasVariable(f, name) {
		return fmt.Errorf("missing variable `%s`", name)
	}
	have := f.Header.Lengths(name)
	if len(have) != len(lengths) {
		return fmt.Errorf("variable `%s` has %d dimensions; want %d", name, len(have), len(lengths))
	}
	for i, l := range lengths {
		if have[i] != l {
			return fmt.Errorf("variable `%s` has shape %v; want %v", name, have, lengths)
		}
	}
	return nil
}

func hasVariable(f *cdf.File, name string) bool {
	for _, v := range f.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

func stringAttribute(f *cdf.File, name string) (string, error) {
	v, ok := f.Header.GetAttribute("", name).(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid attribute `%s`", name)
	}
	return v, nil
}

func float64Attribute(f *cdf.File, name string) (float64, error) {
	v, ok := f.Header.GetAttribute("", name).([]float64)
	if !ok || len(v) != 1 {
		return math.NaN(), fmt.Errorf("missing or invalid attribute `%s`", name)
	}
	return v[0], nil
}
