package carve

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Orientation defines the direction of a seam.
type Orientation int

const (
	// Vertical seams run from the top to the bottom row and remove one column.
	Vertical Orientation = iota
	// Horizontal seams run from the left to the right column and remove one row.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "unknown"
}

// noParent marks the cells of the first row, which have no predecessor.
const noParent = -1

// CostCell holds the cumulative minimum cost of reaching a cell
// from the starting edge and the index of its predecessor on the previous row.
type CostCell struct {
	Cost   float64
	Parent int
}

// Seam holds one coordinate for every row (vertical seam) or
// every column (horizontal seam) of the grid.
type Seam []int

// Points converts the seam into (x, y) image coordinates.
func (s Seam) Points(o Orientation) []image.Point {
	pts := make([]image.Point, len(s))
	for i, v := range s {
		if o == Horizontal {
			pts[i] = image.Pt(i, v)
		} else {
			pts[i] = image.Pt(v, i)
		}
	}
	return pts
}

// check verifies that the seam has the expected length, stays
// inside [0, bound) and that its consecutive coordinates are connected.
func (s Seam) check(length, bound int) error {
	if len(s) != length {
		return errors.Wrapf(ErrSeamMismatch, "seam length %d, expected %d", len(s), length)
	}
	for i, v := range s {
		if v < 0 || v >= bound {
			return errors.Wrapf(ErrSeamMismatch, "coordinate %d at index %d outside of [0, %d)", v, i, bound)
		}
		if i > 0 && (v-s[i-1] > 1 || s[i-1]-v > 1) {
			return errors.Wrapf(ErrSeamMismatch, "coordinates at index %d and %d are not connected", i-1, i)
		}
	}
	return nil
}

// costTable is the dynamic programming table of a single seam search,
// stored as a flat slice indexed by x + y*width.
type costTable struct {
	width  int
	height int
	cells  []CostCell
}

func newCostTable(width, height int) *costTable {
	return &costTable{
		width:  width,
		height: height,
		cells:  make([]CostCell, width*height),
	}
}

func (t *costTable) get(x, y int) CostCell {
	return t.cells[x+y*t.width]
}

func (t *costTable) set(x, y int, c CostCell) {
	t.cells[x+y*t.width] = c
}

// FindSeam returns the minimum total energy seam of the given orientation
// together with its cumulative cost.
//
// Ties are resolved deterministically: among equal predecessors the one
// with the smallest index wins (up-left, then straight up, then up-right),
// and among equal final costs the smallest column wins. Horizontal seams
// are searched on the transposed energy matrix, so both orientations
// share the same rule.
func FindSeam(energy mat.Matrix, o Orientation) (Seam, float64, error) {
	if energy == nil {
		return nil, 0, errors.Wrap(ErrInvalidGrid, "nil energy matrix")
	}
	if r, c := energy.Dims(); r < 1 || c < 1 {
		return nil, 0, errors.Wrapf(ErrInvalidGrid, "energy matrix is %dx%d", r, c)
	}
	if o == Horizontal {
		energy = mat.DenseCopyOf(energy.T())
	}
	seam, cost := verticalSeam(energy)

	return seam, cost, nil
}

// verticalSeam traverses the energy matrix from the first to the last row,
// computing for every cell the cumulative minimum energy of all the
// connected seams reaching it, then walks back along the parent indexes.
func verticalSeam(energy mat.Matrix) (Seam, float64) {
	height, width := energy.Dims()
	table := newCostTable(width, height)

	prev := make([]float64, width)
	curr := make([]float64, width)

	for x := 0; x < width; x++ {
		prev[x] = energy.At(0, x)
		table.set(x, 0, CostCell{Cost: prev[x], Parent: noParent})
	}

	for y := 1; y < height; y++ {
		for x := 0; x < width; x++ {
			lo, hi := max(x-1, 0), min(x+1, width-1)
			parent := lo + floats.MinIdx(prev[lo:hi+1])

			curr[x] = energy.At(y, x) + prev[parent]
			table.set(x, y, CostCell{Cost: curr[x], Parent: parent})
		}
		prev, curr = curr, prev
	}

	// After the last swap prev holds the cumulative costs of the bottom row.
	px := floats.MinIdx(prev)
	cost := prev[px]

	seam := make(Seam, height)
	for y := height - 1; y >= 0; y-- {
		seam[y] = px
		px = table.get(px, y).Parent
	}

	return seam, cost
}
