package carve

import (
	"github.com/pkg/errors"
)

// Pixel is a single RGB color triple.
type Pixel struct {
	R, G, B uint8
}

// Grid is a rectangular, row major matrix of pixels.
type Grid [][]Pixel

// NewGrid returns a rows x cols grid filled with the provided pixel.
func NewGrid(rows, cols int, fill Pixel) Grid {
	g := make(Grid, rows)
	for r := range g {
		row := make([]Pixel, cols)
		for c := range row {
			row[c] = fill
		}
		g[r] = row
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Cols returns the number of columns, or zero for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks that the grid has at least one row and that every
// row has the same, non-zero length.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return errors.Wrap(ErrInvalidGrid, "no rows")
	}
	cols := len(g[0])
	if cols == 0 {
		return errors.Wrap(ErrInvalidGrid, "row 0 is empty")
	}
	for r, row := range g {
		if len(row) != cols {
			return errors.Wrapf(ErrInvalidGrid, "row %d has %d columns, expected %d", r, len(row), cols)
		}
	}
	return nil
}

// Clone returns a deep copy of the grid. The rows of the copy
// never share storage with the original.
func (g Grid) Clone() Grid {
	dst := make(Grid, len(g))
	for r, row := range g {
		dst[r] = append([]Pixel(nil), row...)
	}
	return dst
}

// Transpose swaps the grid rows and columns.
func (g Grid) Transpose() Grid {
	rows, cols := g.Rows(), g.Cols()
	dst := make(Grid, cols)
	for c := 0; c < cols; c++ {
		dst[c] = make([]Pixel, rows)
		for r := 0; r < rows; r++ {
			dst[c][r] = g[r][c]
		}
	}
	return dst
}

// Column returns a copy of the c-th column.
func (g Grid) Column(c int) []Pixel {
	col := make([]Pixel, len(g))
	for r, row := range g {
		col[r] = row[c]
	}
	return col
}
