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

import "fmt"

// GridLoadError is returned when a persisted grid is missing, corrupt,
// or internally inconsistent.
type GridLoadError struct {
	Path string // may be empty if the grid was not read from a named file
	Err  error
}

func (e *GridLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("phoenix: loading grid: %v", e.Err)
	}
	return fmt.Sprintf("phoenix: loading grid %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GridLoadError) Unwrap() error { return e.Err }

// OutOfBoundsError is returned when a requested coordinate lies outside
// the range covered by a grid axis. Values are never clamped to the
// edge of the grid.
type OutOfBoundsError struct {
	Axis     string
	Value    float64
	Min, Max float64
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("phoenix: requested %s=%g is outside the grid limits %g <= %s <= %g",
		e.Axis, e.Value, e.Min, e.Axis, e.Max)
}

// KeyNotFoundError is returned when a lattice point needed for
// interpolation is missing from a grid, which happens when the grid is
// not fully populated on its rectangular lattice.
type KeyNotFoundError struct {
	Point Point
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("phoenix: grid has no spectrum for %v; the grid is not fully "+
		"populated around the requested point", e.Point)
}

// WeightSumError is returned when the interpolation weights for a
// query do not sum to one. It indicates a bug rather than a bad query.
type WeightSumError struct {
	Point Point
	Sum   float64
}

func (e WeightSumError) Error() string {
	return fmt.Sprintf("phoenix: interpolation weights for %v sum to %.17g rather than 1", e.Point, e.Sum)
}

// ResolutionDegradedWarning is returned along with a valid resolution when
// the requested resolution is higher than the highest resolution
// available. It is not fatal: the highest available resolution can
// still be used.
type ResolutionDegradedWarning struct {
	Requested, Available float64
}

func (e ResolutionDegradedWarning) Error() string {
	return fmt.Sprintf("phoenix: requested resolution R=%g is higher than the largest "+
		"available grid (R=%g); using R=%g", e.Requested, e.Available, e.Available)
}
