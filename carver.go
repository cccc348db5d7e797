package carve

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Step describes a single carving iteration. It is handed to the Observer
// after the seam has been found and before it is removed from the grid.
type Step struct {
	Iteration   int
	Total       int
	Orientation Orientation
	Grid        Grid
	Energy      *mat.Dense
	Seam        Seam
	Cost        float64
}

// Observer receives every carving step, e.g. for writing preview images.
type Observer interface {
	Observe(Step) error
}

// ObserverFunc adapts an ordinary function to the Observer interface.
type ObserverFunc func(Step) error

// Observe calls f(s).
func (f ObserverFunc) Observe(s Step) error {
	return f(s)
}

// ProtectFn returns the regions of the current grid the seams should avoid.
type ProtectFn func(Grid) ([]Region, error)

// Carver removes a number of seams of the same orientation from a grid.
type Carver struct {
	Orientation Orientation
	// Mask marks an object to be removed. It is expressed in the
	// coordinates of the grid passed to Carve and only works with vertical seams.
	Mask *Region
	// Protect is called on every iteration with the current grid.
	Protect  ProtectFn
	Observer Observer
	Logger   log.FieldLogger

	costs []float64
}

// NewCarver initializes a carver removing seams of the given orientation.
func NewCarver(o Orientation) *Carver {
	return &Carver{
		Orientation: o,
		Logger:      log.StandardLogger(),
	}
}

// Costs returns the cumulative energy of every seam removed by the last Carve call.
func (c *Carver) Costs() []float64 {
	return append([]float64(nil), c.costs...)
}

// Carve removes n seams from the grid. Every iteration recomputes the energy
// of the grid produced by the previous one, finds the lowest energy seam and
// removes it. The source grid is never modified.
func (c *Carver) Carve(g Grid, n int) (Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	rows, cols := g.Rows(), g.Cols()
	dim := cols
	if c.Orientation == Horizontal {
		dim = rows
	}
	if n < 0 || n >= dim {
		return nil, errors.Wrapf(ErrExhaustedDimension,
			"cannot remove %d %s seams from a %dx%d grid", n, c.Orientation, rows, cols)
	}
	if c.Mask != nil {
		if c.Orientation != Vertical {
			return nil, errors.Errorf("object removal works only with %s seams", Vertical)
		}
		if err := c.Mask.Validate(rows, cols); err != nil {
			return nil, err
		}
	}

	c.costs = make([]float64, 0, n)
	grid := g.Clone()

	for i := 0; i < n; i++ {
		fields := log.Fields{
			"iteration":   i + 1,
			"total":       n,
			"orientation": c.Orientation,
		}
		logger.WithFields(fields).Debug("computing energy")

		energy, err := ComputeEnergy(grid)
		if err != nil {
			return nil, err
		}
		if c.Protect != nil {
			regions, err := c.Protect(grid)
			if err != nil {
				return nil, errors.Wrap(err, "could not detect the protected regions")
			}
			ApplyProtection(energy, regions)
		}
		if c.Mask != nil {
			if _, err := ApplyMask(energy, *c.Mask, i); err != nil {
				return nil, err
			}
		}

		seam, cost, err := FindSeam(energy, c.Orientation)
		if err != nil {
			return nil, err
		}
		c.costs = append(c.costs, cost)
		logger.WithFields(fields).WithField("cost", cost).Debug("lowest energy seam found")

		if c.Observer != nil {
			step := Step{
				Iteration:   i,
				Total:       n,
				Orientation: c.Orientation,
				Grid:        grid,
				Energy:      energy,
				Seam:        seam,
				Cost:        cost,
			}
			if err := c.Observer.Observe(step); err != nil {
				return nil, errors.Wrapf(err, "observer failed at iteration %d", i+1)
			}
		}

		if grid, err = RemoveSeam(grid, seam, c.Orientation); err != nil {
			return nil, err
		}
	}
	return grid, nil
}
