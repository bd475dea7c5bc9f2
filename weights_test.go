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
	"math"
	"testing"
)

func TestWeights(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		b     Bound
		log   bool
		want  []float64
	}{
		{
			name:  "exact",
			value: 4.5,
			b:     Bound{Indices: []int{1}, Values: []float64{4.5}},
			want:  []float64{1},
		},
		{
			name:  "exact log",
			value: 3000,
			b:     Bound{Indices: []int{1}, Values: []float64{3000}},
			log:   true,
			want:  []float64{1},
		},
		{
			name:  "midpoint",
			value: 4.75,
			b:     Bound{Indices: []int{0, 1}, Values: []float64{4.5, 5.0}},
			want:  []float64{0.5, 0.5},
		},
		{
			name:  "quarter",
			value: -0.375,
			b:     Bound{Indices: []int{0, 1}, Values: []float64{-0.5, 0}},
			want:  []float64{0.75, 0.25},
		},
		{
			name:  "log temperature",
			value: 3250,
			b:     Bound{Indices: []int{0, 1}, Values: []float64{3000, 3500}},
			log:   true,
			want: []float64{
				(math.Log(3500) - math.Log(3250)) / (math.Log(3500) - math.Log(3000)),
				(math.Log(3250) - math.Log(3000)) / (math.Log(3500) - math.Log(3000)),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var w []float64
			if test.log {
				w = LogWeights(test.value, test.b)
			} else {
				w = Weights(test.value, test.b)
			}
			if len(w) != len(test.want) {
				t.Fatalf("want %v but have %v", test.want, w)
			}
			for i := range w {
				if different(w[i], test.want[i], testTolerance) {
					t.Errorf("weight %d: want %g but have %g", i, test.want[i], w[i])
				}
			}
		})
	}
}

// Log-space weights favor the upper temperature more than linear
// weights do.
func TestLogWeightsDifferFromLinear(t *testing.T) {
	b := Bound{Indices: []int{0, 1}, Values: []float64{3000, 3500}}
	lin := Weights(3250, b)
	lg := LogWeights(3250, b)
	if !(lg[1] > lin[1]) {
		t.Errorf("log weight for 3500 K (%g) should exceed linear weight (%g)", lg[1], lin[1])
	}
	if different(lg[0], 0.480750213, 1e-8) {
		t.Errorf("log weight for 3000 K: have %g", lg[0])
	}
}

func TestWeightsSumToOne(t *testing.T) {
	b := Bound{Indices: []int{3, 4}, Values: []float64{2300, 12000}}
	for v := 2300.5; v < 12000; v += 97.3 {
		for _, log := range []bool{false, true} {
			w := weights(v, b, log)
			sum := w[0] + w[1]
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("v=%g log=%v: weights %v sum to %g", v, log, w, sum)
			}
			for _, wi := range w {
				if wi < 0 || wi > 1 {
					t.Errorf("v=%g log=%v: weight %g out of [0, 1]", v, log, wi)
				}
			}
		}
	}
}
