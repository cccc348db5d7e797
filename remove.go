package carve

import (
	"github.com/pkg/errors"
)

// RemoveSeam deletes the seam pixels from the grid and returns a new grid,
// one column (vertical seam) or one row (horizontal seam) smaller.
// The relative order of the remaining pixels is preserved and the
// returned grid never shares its rows with the source grid.
func RemoveSeam(g Grid, s Seam, o Orientation) (Grid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if o == Horizontal {
		res, err := removeVerticalSeam(g.Transpose(), s)
		if err != nil {
			return nil, err
		}
		return res.Transpose(), nil
	}
	return removeVerticalSeam(g, s)
}

func removeVerticalSeam(g Grid, s Seam) (Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	if cols < 2 {
		return nil, errors.Wrap(ErrExhaustedDimension, "cannot remove the last remaining pixel line")
	}
	if err := s.check(rows, cols); err != nil {
		return nil, err
	}

	dst := make(Grid, rows)
	for y, row := range g {
		px := s[y]
		line := make([]Pixel, 0, cols-1)
		line = append(line, row[:px]...)
		line = append(line, row[px+1:]...)
		dst[y] = line
	}
	return dst, nil
}
