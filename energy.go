package carve

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// parallelThreshold is the minimum number of pixels for which
// the energy computation is split between multiple goroutines.
const parallelThreshold = 256 * 256

// EnergyAt returns the squared color gradient magnitude of the pixel
// found at row x and column y. Neighbors falling outside of the grid
// are replaced by the pixel itself, so the gradient collapses to zero
// along that axis on the image border.
func EnergyAt(g Grid, x, y int) float64 {
	rows, cols := g.Rows(), g.Cols()

	above, below := x-1, x+1
	left, right := y-1, y+1
	if above < 0 {
		above = x
	}
	if below >= rows {
		below = x
	}
	if left < 0 {
		left = y
	}
	if right >= cols {
		right = y
	}

	vert := gradient(g[above][y], g[below][y])
	horiz := gradient(g[x][left], g[x][right])

	return vert + horiz
}

// gradient sums the squared channel differences of two pixels.
func gradient(a, b Pixel) float64 {
	dr := float64(b.R) - float64(a.R)
	dg := float64(b.G) - float64(a.G)
	db := float64(b.B) - float64(a.B)

	return dr*dr + dg*dg + db*db
}

// ComputeEnergy computes the energy of every pixel and returns it as
// a matrix having the same dimensions as the grid.
func ComputeEnergy(g Grid) (*mat.Dense, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	rows, cols := g.Rows(), g.Cols()
	energy := mat.NewDense(rows, cols, nil)

	fill := func(from, to int) {
		for x := from; x < to; x++ {
			row := energy.RawRowView(x)
			for y := range row {
				row[y] = EnergyAt(g, x, y)
			}
		}
	}

	workers := runtime.NumCPU()
	if rows*cols < parallelThreshold || workers < 2 || rows < workers {
		fill(0, rows)
		return energy, nil
	}

	// Every worker owns a contiguous band of rows, so no two goroutines write the same cell.
	var wg sync.WaitGroup
	band := (rows + workers - 1) / workers
	for from := 0; from < rows; from += band {
		to := min(from+band, rows)
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			fill(from, to)
		}(from, to)
	}
	wg.Wait()

	return energy, nil
}
