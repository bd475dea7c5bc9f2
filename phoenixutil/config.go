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

package phoenixutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/phoenix"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// NewLibrary creates a grid library from the configuration in cfg.
func NewLibrary(cfg *viper.Viper) (*phoenix.Library, error) {
	resolutions, err := getFloat64Slice("Resolutions", cfg)
	if err != nil {
		return nil, err
	}
	cacheSize := cfg.GetInt("CacheSize")
	if cacheSize < 1 {
		return nil, fmt.Errorf("phoenix: CacheSize must be at least 1 but is %d", cacheSize)
	}
	lib := phoenix.NewLibrary(os.ExpandEnv(cfg.GetString("GridDir")), cfg.GetBool("Photons"))
	lib.Metallicity = cfg.GetFloat64("GridMetallicity")
	lib.Resolutions = resolutions
	lib.CacheSize = cacheSize
	lib.Log = logrus.StandardLogger()
	return lib, nil
}

// PointFromConfig returns the stellar parameters in cfg.
func PointFromConfig(cfg *viper.Viper) (phoenix.Point, error) {
	var p phoenix.Point
	for _, v := range []struct {
		name string
		dst  *float64
	}{
		{"temperature", &p.Temperature},
		{"logg", &p.Logg},
		{"metallicity", &p.Metallicity},
	} {
		f, err := cast.ToFloat64E(cfg.Get(v.name))
		if err != nil {
			return p, fmt.Errorf("phoenix: invalid %s: %v", v.name, err)
		}
		*v.dst = f
	}
	return p, nil
}

// getFloat64Slice returns a []float64 from a viper configuration. The
// value can be a list in a configuration file, a list of command-line
// flags, or a comma-separated string.
func getFloat64Slice(varName string, cfg *viper.Viper) ([]float64, error) {
	var fields []interface{}
	switch v := cfg.Get(varName).(type) {
	case []float64:
		return v, nil
	case []interface{}:
		fields = v
	case []string:
		for _, s := range v {
			fields = append(fields, strings.TrimSpace(s))
		}
	case string:
		v = strings.Trim(v, "[]")
		for _, s := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
			fields = append(fields, s)
		}
	default:
		return nil, fmt.Errorf("phoenix: invalid type for %s: %#v", varName, v)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("phoenix: %s is empty", varName)
	}
	o := make([]float64, len(fields))
	for i, f := range fields {
		var err error
		if o[i], err = cast.ToFloat64E(f); err != nil {
			return nil, fmt.Errorf("phoenix: invalid value in %s: %v", varName, err)
		}
	}
	return o, nil
}

// selectResolution selects a grid resolution for R, logging a warning
// if the resolution is lower than requested.
func selectResolution(R float64, available []float64) (float64, error) {
	selected, err := phoenix.SelectResolution(R, available)
	if err != nil {
		var w phoenix.ResolutionDegradedWarning
		if !errors.As(err, &w) {
			return selected, err
		}
		logrus.WithFields(logrus.Fields{
			"requested": w.Requested,
			"available": w.Available,
		}).Warn(w.Error())
	}
	return selected, nil
}

func setLogLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("phoenix: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(l)
	return nil
}

// checkOutputFile expands any environment variables in f and makes sure
// that its directory exists. An empty f means standard output.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("phoenix: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// withOutput calls write with the file at path, or with the command's
// standard output if path is empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("phoenix: creating output file: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSpectrum writes a spectrum from grid g at point p to w as
// whitespace-separated columns, preceded by comment lines describing it.
func WriteSpectrum(w io.Writer, g *phoenix.Grid, p phoenix.Point, wavelength, flux []float64) error {
	if len(wavelength) != len(flux) {
		return fmt.Errorf("phoenix: %d wavelengths but %d flux values", len(wavelength), len(flux))
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# %s spectrum at %v, R=%g\n", g.Grid, p, g.R)
	fmt.Fprintf(b, "# wavelength (%s)\tflux (%s)\n", g.WavelengthUnit, g.SpectrumUnit)
	for i, wl := range wavelength {
		fmt.Fprintf(b, "%g\t%g\n", wl, flux[i])
	}
	return b.Flush()
}

// WriteAvailable writes the stellar parameters of every spectrum in g
// to w, one per line.
func WriteAvailable(w io.Writer, g *phoenix.Grid) error {
	b := bufio.NewWriter(w)
	fmt.Fprintln(b, "# temperature\tlogg\tmetallicity")
	for _, p := range g.Points() {
		fmt.Fprintf(b, "%g\t%g\t%g\n", p.Temperature, p.Logg, p.Metallicity)
	}
	return b.Flush()
}

type axisInfo struct {
	Min    float64   `toml:"min"`
	Max    float64   `toml:"max"`
	Values []float64 `toml:"values"`
}

type gridInfo struct {
	Grid           string   `toml:"grid"`
	URL            string   `toml:"url"`
	Citation       string   `toml:"citation"`
	Photons        bool     `toml:"photons"`
	R              float64  `toml:"R"`
	Metallicity    float64  `toml:"metallicity"`
	WavelengthUnit string   `toml:"wavelength_unit"`
	SpectrumUnit   string   `toml:"spectrum_unit"`
	Filename       string   `toml:"filename"`
	Version        string   `toml:"software_version"`
	Wavelengths    int      `toml:"wavelengths"`
	Spectra        int      `toml:"spectra"`
	Temperature    axisInfo `toml:"temperature"`
	Logg           axisInfo `toml:"logg"`
	Z              axisInfo `toml:"metallicity_axis"`
}

func newGridInfo(g *phoenix.Grid) gridInfo {
	axis := func(i int) axisInfo {
		a := g.Axis(i)
		return axisInfo{Min: a.Min(), Max: a.Max(), Values: a.Values}
	}
	return gridInfo{
		Grid:           g.Grid,
		URL:            g.URL,
		Citation:       g.Citation,
		Photons:        g.Photons,
		R:              g.R,
		Metallicity:    g.Metallicity,
		WavelengthUnit: g.WavelengthUnit,
		SpectrumUnit:   g.SpectrumUnit,
		Filename:       g.Filename,
		Version:        g.Version,
		Wavelengths:    len(g.Wavelength()),
		Spectra:        g.Len(),
		Temperature:    axis(phoenix.TemperatureAxis),
		Logg:           axis(phoenix.LoggAxis),
		Z:              axis(phoenix.MetallicityAxis),
	}
}
