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
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// newTestLibrary writes grids with R=100 (4 wavelengths) and R=1000
// (8 wavelengths) to a temporary directory.
func newTestLibrary(t *testing.T) (*Library, *bytes.Buffer) {
	dir := t.TempDir()
	l := NewLibrary(dir, true)
	l.Resolutions = []float64{100, 1000}
	for _, R := range l.Resolutions {
		nw := 4
		if R == 1000 {
			nw = 8
		}
		g := newTestGrid(t, nw, []float64{3000, 3500}, []float64{4.5, 5.0}, []float64{0})
		g.R = R
		g.Filename = GridFilename(true, R, 0)
		writeTestGrid(t, dir, g.Filename, g)
	}
	buf := new(bytes.Buffer)
	log := logrus.New()
	log.Out = buf
	l.Log = log
	return l, buf
}

func TestLibraryUse(t *testing.T) {
	l, logBuf := newTestLibrary(t)
	ctx := context.Background()

	if _, _, err := l.GetSpectrum(Point{Temperature: 3000, Logg: 4.5}); err == nil {
		t.Error("expected an error with no active grid")
	}
	if l.Active() != nil {
		t.Error("no grid should be active")
	}

	tests := []struct {
		requested, R float64
		nw           int
		warning      bool
	}{
		{requested: 50, R: 100, nw: 4},
		{requested: 450, R: 1000, nw: 8},
		{requested: 100, R: 100, nw: 4},
		{requested: 5000, R: 1000, nw: 8, warning: true},
	}
	for _, test := range tests {
		logBuf.Reset()
		g, err := l.Use(ctx, test.requested)
		if err != nil {
			t.Fatal(err)
		}
		if g.R != test.R {
			t.Errorf("R=%g: want grid %g but have %g", test.requested, test.R, g.R)
		}
		if l.Active() != g {
			t.Errorf("R=%g: grid is not active", test.requested)
		}
		w, flux, err := l.GetSpectrum(Point{Temperature: 3250, Logg: 4.75})
		if err != nil {
			t.Fatal(err)
		}
		if len(w) != test.nw || len(flux) != test.nw {
			t.Errorf("R=%g: want %d wavelengths but have %d", test.requested, test.nw, len(w))
		}
		warned := strings.Contains(logBuf.String(), "higher than the largest")
		if warned != test.warning {
			t.Errorf("R=%g: warning logged: %v; log: %s", test.requested, warned, logBuf.String())
		}
	}
}

func TestLibraryLoadGridCache(t *testing.T) {
	l, _ := newTestLibrary(t)
	ctx := context.Background()

	g1, err := l.LoadGrid(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := l.LoadGrid(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if g1 != g2 {
		t.Error("grid was loaded twice")
	}

	if _, err := l.LoadGrid(ctx, 300, 0); err == nil {
		t.Error("expected an error for a resolution that is not available")
	}

	_, err = l.LoadGrid(ctx, 100, -0.5)
	var gle *GridLoadError
	if !errors.As(err, &gle) {
		t.Errorf("want GridLoadError for a missing grid file, have %v", err)
	}
}

// Concurrent first loads of the same grids all get the cached copy.
func TestLibraryLoadGridConcurrent(t *testing.T) {
	l, _ := newTestLibrary(t)
	ctx := context.Background()

	const n = 16
	grids := make([]*Grid, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			R := 100.
			if i%2 == 1 {
				R = 1000
			}
			grids[i], errs[i] = l.LoadGrid(ctx, R, 0)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
	}
	for i := 2; i < n; i++ {
		if grids[i] != grids[i%2] {
			t.Errorf("%d: grid R=%g was loaded more than once", i, grids[i].R)
		}
	}
	if grids[0].R != 100 || grids[1].R != 1000 {
		t.Errorf("wrong resolutions: %g, %g", grids[0].R, grids[1].R)
	}
}

// CacheSize only takes effect before the first load.
func TestLibraryCacheSizeFixed(t *testing.T) {
	l, _ := newTestLibrary(t)
	ctx := context.Background()

	g1, err := l.LoadGrid(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	l.CacheSize = 1
	if _, err = l.LoadGrid(ctx, 1000, 0); err != nil {
		t.Fatal(err)
	}
	g2, err := l.LoadGrid(ctx, 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if g1 != g2 {
		t.Error("grid was evicted after CacheSize was changed")
	}
}

func TestLibraryUseFailureKeepsActive(t *testing.T) {
	l, _ := newTestLibrary(t)
	ctx := context.Background()
	g, err := l.Use(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	l.Metallicity = -1 // no grid files for this metallicity
	if _, err := l.Use(ctx, 1000); err == nil {
		t.Fatal("expected an error")
	}
	if l.Active() != g {
		t.Error("active grid changed after a failed load")
	}
}

func TestLibrarySpectrum(t *testing.T) {
	l, _ := newTestLibrary(t)
	p := Point{Temperature: 3000, Logg: 5.0}
	_, flux, err := l.Spectrum(context.Background(), 1000, p)
	if err != nil {
		t.Fatal(err)
	}
	want := testSpectrum(p, 8)
	for i := range want {
		if flux[i] != want[i] {
			t.Errorf("%d: want %g but have %g", i, want[i], flux[i])
		}
	}
	if _, _, err := l.Spectrum(context.Background(), 1000, Point{Temperature: 9000, Logg: 5}); err == nil {
		t.Error("expected an out of bounds error")
	}
}

// Readers always see one complete grid while the active grid is
// swapped.
func TestLibraryConcurrentSwap(t *testing.T) {
	l, _ := newTestLibrary(t)
	ctx := context.Background()
	if _, err := l.Use(ctx, 100); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errc := make(chan error, 100)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				R := 100.
				if (i+j)%2 == 0 {
					R = 1000
				}
				if _, err := l.Use(ctx, R); err != nil {
					errc <- err
					return
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				w, flux, err := l.GetSpectrum(Point{Temperature: 3100, Logg: 4.9})
				if err != nil {
					errc <- err
					return
				}
				if len(w) != len(flux) || (len(w) != 4 && len(w) != 8) {
					errc <- errors.New("inconsistent spectrum")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		t.Error(err)
	}
}
