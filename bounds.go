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

// Bound holds the grid values along one axis that enclose a requested
// value. It holds either a single value, when the requested value is
// exactly on the grid, or the values immediately below and above it.
type Bound struct {
	Axis    string
	Indices []int     // positions of Values in the axis
	Values  []float64 // one exact value, or below and above
}

// Exact reports whether the requested value matched a grid value exactly.
func (b Bound) Exact() bool { return len(b.Values) == 1 }

// FindBounds returns the grid values of axis that enclose value.
// If value is one of the axis values, the returned Bound holds only that
// value. Otherwise it holds the largest axis value <= value and the
// smallest axis value > value. If either of those does not exist,
// an OutOfBoundsError is returned.
func FindBounds(value float64, axis Axis) (Bound, error) {
	i, exact := axis.index(value)
	if exact {
		return Bound{
			Axis:    axis.Name,
			Indices: []int{i},
			Values:  []float64{axis.Values[i]},
		}, nil
	}
	// i is the index of the smallest value > value.
	if math.IsNaN(value) || i == 0 || i == len(axis.Values) {
		return Bound{}, OutOfBoundsError{
			Axis:  axis.Name,
			Value: value,
			Min:   axis.Min(),
			Max:   axis.Max(),
		}
	}
	return Bound{
		Axis:    axis.Name,
		Indices: []int{i - 1, i},
		Values:  []float64{axis.Values[i-1], axis.Values[i]},
	}, nil
}
