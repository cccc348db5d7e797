package carve

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/esimov/carve/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// MaskEnergy is assigned to the pixels of a region marked for removal.
	// It is low enough for every seam crossing the region to be cheaper
	// than any seam avoiding it.
	MaskEnergy = -10000000
	// ProtectEnergy is assigned to the pixels of a protected region.
	ProtectEnergy = 10000000
)

// Region is a rectangular area of the grid with inclusive bounds.
type Region struct {
	Top, Bottom int
	Left, Right int
}

// RegionFromRect converts an image rectangle (exclusive max point) to a region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{
		Top:    r.Min.Y,
		Bottom: r.Max.Y - 1,
		Left:   r.Min.X,
		Right:  r.Max.X - 1,
	}
}

// ParseRegion parses a region given as "top,bottom,left,right".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q should be provided as top,bottom,left,right", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, errors.Wrapf(err, "invalid region bound %q", p)
		}
		v[i] = n
	}
	return Region{Top: v[0], Bottom: v[1], Left: v[2], Right: v[3]}, nil
}

// Width returns the number of columns covered by the region.
func (r Region) Width() int {
	return utils.Max(r.Right-r.Left+1, 0)
}

// Empty reports whether the region covers no pixel.
func (r Region) Empty() bool {
	return r.Bottom < r.Top || r.Right < r.Left
}

// Shrink returns the region after n columns have been carved out of it.
func (r Region) Shrink(n int) Region {
	r.Right -= n
	return r
}

// Validate checks that the region lies inside a rows x cols grid.
func (r Region) Validate(rows, cols int) error {
	if r.Top < 0 || r.Left < 0 || r.Empty() || r.Bottom >= rows || r.Right >= cols {
		return errors.Wrapf(ErrRegionOutOfBounds, "region %+v, grid %dx%d", r, rows, cols)
	}
	return nil
}

// ApplyMask overwrites the energy of the region with MaskEnergy so that the
// next seam search routes the minimum seam through it. The region is given
// in the coordinates of the grid before the first removal: after iteration
// seams went through it the object is iteration columns narrower, and its
// right bound is clamped against the current energy width. The matrix is
// modified in place and returned. A fully consumed region leaves the
// energy untouched.
func ApplyMask(energy *mat.Dense, region Region, iteration int) (*mat.Dense, error) {
	if energy == nil || energy.IsEmpty() {
		return nil, errors.Wrap(ErrInvalidGrid, "empty energy matrix")
	}
	if iteration < 0 {
		return nil, errors.Wrapf(ErrRegionOutOfBounds, "negative iteration %d", iteration)
	}
	rows, cols := energy.Dims()
	if region.Top < 0 || region.Left < 0 || region.Empty() || region.Bottom >= rows {
		return nil, errors.Wrapf(ErrRegionOutOfBounds, "region %+v, grid %dx%d", region, rows, cols)
	}

	eff := region.Shrink(iteration)
	if eff.Empty() {
		return energy, nil
	}
	if eff.Left >= cols {
		return nil, errors.Wrapf(ErrRegionOutOfBounds, "region %+v, grid %dx%d", eff, rows, cols)
	}
	eff.Right = utils.Clamp(eff.Right, eff.Left, cols-1)

	fillRegion(energy, eff, MaskEnergy)
	return energy, nil
}

// ApplyProtection overwrites the energy of every region with ProtectEnergy,
// keeping the seams away from them. Regions are clipped to the matrix bounds.
func ApplyProtection(energy *mat.Dense, regions []Region) *mat.Dense {
	if energy == nil || energy.IsEmpty() {
		return energy
	}
	rows, cols := energy.Dims()
	for _, r := range regions {
		clip := Region{
			Top:    utils.Max(r.Top, 0),
			Bottom: utils.Min(r.Bottom, rows-1),
			Left:   utils.Max(r.Left, 0),
			Right:  utils.Min(r.Right, cols-1),
		}
		if clip.Empty() {
			continue
		}
		fillRegion(energy, clip, ProtectEnergy)
	}
	return energy
}

func fillRegion(energy *mat.Dense, r Region, v float64) {
	for y := r.Top; y <= r.Bottom; y++ {
		row := energy.RawRowView(y)
		for x := r.Left; x <= r.Right; x++ {
			row[x] = v
		}
	}
}
