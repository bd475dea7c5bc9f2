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
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/phoenix/internal/hash"
)

// Library gives access to the precomputed PHOENIX grids stored in a
// directory, one file per resolution and metallicity. One grid at a
// time is active and used to answer GetSpectrum queries.
type Library struct {
	// Dir is the directory holding the grid files.
	Dir string

	// Photons specifies whether to use grids in photon units rather
	// than power units.
	Photons bool

	// Metallicity is the metallicity of the grid files to load.
	Metallicity float64

	// Resolutions are the resolutions of the grid files in Dir,
	// in ascending order.
	Resolutions []float64

	// CacheSize is the number of grids to hold in memory. It is read
	// when the first grid is loaded; later changes have no effect.
	CacheSize int

	// Log receives warnings and progress messages.
	Log logrus.FieldLogger

	cache     *requestcache.Cache
	cacheInit sync.Once
	// loadMu serializes cache requests. A requestcache.Request is not
	// safe to finalize from more than one goroutine.
	loadMu sync.Mutex

	mu     sync.RWMutex
	active *Grid
}

// NewLibrary returns a library of the grids in dir with the default
// resolutions and solar metallicity.
func NewLibrary(dir string, photons bool) *Library {
	return &Library{
		Dir:         dir,
		Photons:     photons,
		Resolutions: append([]float64(nil), AvailableResolutions...),
		CacheSize:   4,
		Log:         logrus.StandardLogger(),
	}
}

// GridFilename returns the path of the grid file with resolution R and
// metallicity z.
func (l *Library) GridFilename(R, z float64) string {
	return filepath.Join(l.Dir, GridFilename(l.Photons, R, z))
}

type gridRequest struct {
	Path string
	R    float64
}

// LoadGrid returns the grid with resolution R and metallicity z. R must
// be one of l.Resolutions. Grids are cached, and concurrent calls are
// served one at a time, so each grid file is read once while it stays
// in the cache. The returned grid is shared and must not be modified.
func (l *Library) LoadGrid(ctx context.Context, R, z float64) (*Grid, error) {
	if !l.hasResolution(R) {
		return nil, fmt.Errorf("phoenix: no grid is available for R=%g; available resolutions are %v",
			R, l.Resolutions)
	}
	l.cacheInit.Do(func() {
		l.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(gridRequest)
			l.logger().WithFields(logrus.Fields{"R": r.R, "file": r.Path}).Info("phoenix: loading grid")
			return LoadGridFile(r.Path)
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(l.CacheSize))
	})
	r := gridRequest{Path: l.GridFilename(R, z), R: R}
	l.loadMu.Lock()
	result, err := l.cache.NewRequest(ctx, r, "grid_"+hash.Hash(r)).Result()
	l.loadMu.Unlock()
	if err != nil {
		return nil, err
	}
	return result.(*Grid), nil
}

func (l *Library) hasResolution(R float64) bool {
	for _, r := range l.Resolutions {
		if r == R {
			return true
		}
	}
	return false
}

func (l *Library) logger() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

// Use makes the smallest grid with a resolution of at least R the active
// grid and returns it. If R is larger than every available resolution,
// the highest-resolution grid is used and a warning is logged.
// The active grid is only replaced if loading succeeds.
func (l *Library) Use(ctx context.Context, R float64) (*Grid, error) {
	if err := checkResolutions(l.Resolutions); err != nil {
		return nil, err
	}
	selected, err := SelectResolution(R, l.Resolutions)
	if err != nil {
		var w ResolutionDegradedWarning
		if !errors.As(err, &w) {
			return nil, err
		}
		l.logger().WithFields(logrus.Fields{
			"requested": w.Requested,
			"available": w.Available,
		}).Warn(w.Error())
	}
	g, err := l.LoadGrid(ctx, selected, l.Metallicity)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.active = g
	l.mu.Unlock()
	return g, nil
}

// Active returns the active grid, or nil if Use has not been called.
func (l *Library) Active() *Grid {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// GetSpectrum returns the wavelengths and the spectrum at p from the
// active grid.
func (l *Library) GetSpectrum(p Point) (wavelength, flux []float64, err error) {
	g := l.Active()
	if g == nil {
		return nil, nil, errors.New("phoenix: no grid is active; call Use first")
	}
	return g.Spectrum(p)
}

// Spectrum activates the grid for resolution R and returns the
// wavelengths and the spectrum at p.
func (l *Library) Spectrum(ctx context.Context, R float64, p Point) (wavelength, flux []float64, err error) {
	g, err := l.Use(ctx, R)
	if err != nil {
		return nil, nil, err
	}
	return g.Spectrum(p)
}
