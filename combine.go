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
	"math"

	"gonum.org/v1/gonum/floats"
)

// weightSumTolerance is the largest allowed difference between one and
// the sum of the interpolation weights for a query.
const weightSumTolerance = 1e-9

// Term is one lattice point that contributes to an interpolated spectrum.
type Term struct {
	Point  Point
	Weight float64 // product of the per-axis weights
	key    key
}

// Plan describes how the spectrum at a point is assembled from the
// spectra in a grid.
type Plan struct {
	Point   Point
	Bounds  [3]Bound     // enclosing grid values along each axis
	Weights [3][]float64 // per-axis weights, parallel to Bounds[i].Values
	Terms   []Term       // at most 8 lattice points

	grid *Grid
}

// Exact reports whether every coordinate of the point is on the grid,
// in which case the stored spectrum is used without interpolation.
func (p *Plan) Exact() bool {
	for _, b := range p.Bounds {
		if !b.Exact() {
			return false
		}
	}
	return true
}

// WeightSum returns the sum of the combined weights of all terms.
func (p *Plan) WeightSum() float64 {
	w := make([]float64, len(p.Terms))
	for i, t := range p.Terms {
		w[i] = t.Weight
	}
	return floats.Sum(w)
}

// Plan finds the lattice points of g that enclose p and the weight each
// of them should be given. It returns an OutOfBoundsError if p is outside
// the grid along any axis and a KeyNotFoundError if one of the enclosing
// lattice points has no spectrum.
func (g *Grid) Plan(p Point) (*Plan, error) {
	plan := &Plan{Point: p, grid: g}
	for i := range plan.Bounds {
		v := p.coord(i)
		b, err := FindBounds(v, g.axes[i])
		if err != nil {
			return nil, err
		}
		plan.Bounds[i] = b
		plan.Weights[i] = axisWeights(i, v, b)
	}

	bt, bg, bz := plan.Bounds[TemperatureAxis], plan.Bounds[LoggAxis], plan.Bounds[MetallicityAxis]
	for it, wt := range plan.Weights[TemperatureAxis] {
		for ig, wg := range plan.Weights[LoggAxis] {
			for iz, wz := range plan.Weights[MetallicityAxis] {
				k := key{bt.Indices[it], bg.Indices[ig], bz.Indices[iz]}
				if _, ok := g.spectra[k]; !ok {
					return nil, KeyNotFoundError{Point: g.pointOf(k)}
				}
				plan.Terms = append(plan.Terms, Term{
					Point:  g.pointOf(k),
					Weight: wt * wg * wz,
					key:    k,
				})
			}
		}
	}
	return plan, nil
}

// Combine returns the weighted sum of the spectra in plan. If the plan
// is exact, a copy of the stored spectrum is returned unchanged.
// Combine returns a WeightSumError if the weights in plan do not sum
// to one.
func (g *Grid) Combine(plan *Plan) ([]float64, error) {
	if plan.grid != g {
		return nil, errors.New("phoenix: interpolation plan was made for a different grid")
	}
	if len(plan.Terms) == 0 {
		return nil, errors.New("phoenix: interpolation plan has no terms")
	}
	if plan.Exact() {
		t := plan.Terms[0]
		s, ok := g.spectra[t.key]
		if !ok {
			return nil, KeyNotFoundError{Point: t.Point}
		}
		return append([]float64(nil), s...), nil
	}

	sum := plan.WeightSum()
	if math.IsNaN(sum) || math.Abs(sum-1) > weightSumTolerance {
		return nil, WeightSumError{Point: plan.Point, Sum: sum}
	}

	out := make([]float64, len(g.wavelength))
	for _, t := range plan.Terms {
		s, ok := g.spectra[t.key]
		if !ok {
			return nil, KeyNotFoundError{Point: t.Point}
		}
		floats.AddScaled(out, t.Weight, s)
	}
	floats.Scale(1/sum, out)
	return out, nil
}

// Spectrum returns the wavelengths and the spectrum of g at p,
// interpolating among the enclosing lattice points if p is not on the
// grid. Temperature is interpolated in log space; logg and metallicity
// are interpolated linearly. Fluxes are in the units of g.SpectrumUnit.
// Both returned slices belong to the caller.
func (g *Grid) Spectrum(p Point) (wavelength, flux []float64, err error) {
	plan, err := g.Plan(p)
	if err != nil {
		return nil, nil, err
	}
	flux, err = g.Combine(plan)
	if err != nil {
		return nil, nil, err
	}
	return append([]float64(nil), g.wavelength...), flux, nil
}
