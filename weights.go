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

import "math"

// Weights returns the linear interpolation weight of each value in b
// for the requested value. An exact bound gets a weight of 1. For a
// bound with values below and above, the weights are
//
//	(above - value) / (above - below)
//	(value - below) / (above - below)
//
// The two weights always sum to one.
func Weights(value float64, b Bound) []float64 {
	return weights(value, b, false)
}

// LogWeights is like Weights, but value and the bound values are replaced
// by their natural logarithms before the weights are calculated.
// It is used for temperature.
func LogWeights(value float64, b Bound) []float64 {
	return weights(value, b, true)
}

func weights(value float64, b Bound, logSpace bool) []float64 {
	if b.Exact() {
		return []float64{1}
	}
	below, above := b.Values[0], b.Values[1]
	if logSpace {
		value, below, above = math.Log(value), math.Log(below), math.Log(above)
	}
	span := above - below
	return []float64{(above - value) / span, (value - below) / span}
}

// axisWeights returns the weights for b along the axis with index axis.
func axisWeights(axis int, value float64, b Bound) []float64 {
	return weights(value, b, AxisLogSpace[axis])
}
