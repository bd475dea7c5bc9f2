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

// AvailableResolutions are the resolutions (λ/Δλ) of the precomputed
// grids, in ascending order.
var AvailableResolutions = []float64{3, 10, 30, 100, 300, 1000, 3000, 10000, 30000, 100000}

// SelectResolution returns the smallest of the ascending resolutions in
// available that is at least as large as requested.
//
// If requested is larger than every available resolution, the largest
// available resolution is returned along with a ResolutionDegradedWarning.
// In that case the returned resolution is still valid to use.
func SelectResolution(requested float64, available []float64) (float64, error) {
	if len(available) == 0 {
		return math.NaN(), errors.New("phoenix: no grid resolutions are available")
	}
	if math.IsNaN(requested) {
		return math.NaN(), fmt.Errorf("phoenix: invalid requested resolution %g", requested)
	}
	i := sort.SearchFloat64s(available, requested)
	if i == len(available) {
		top := available[len(available)-1]
		return top, ResolutionDegradedWarning{Requested: requested, Available: top}
	}
	return available[i], nil
}

// checkResolutions returns an error if r is not in strictly ascending order.
func checkResolutions(r []float64) error {
	for i := 1; i < len(r); i++ {
		if !(r[i] > r[i-1]) {
			return fmt.Errorf("phoenix: grid resolutions must be in ascending order; have %v", r)
		}
	}
	return nil
}
