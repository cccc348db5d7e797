package carve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSeam_UniformEnergy(t *testing.T) {
	assert := assert.New(t)

	energy := mat.NewDense(3, 3, nil)
	seam, cost, err := FindSeam(energy, Vertical)
	assert.NoError(err)
	assert.Equal(Seam{0, 0, 0}, seam)
	assert.Zero(cost)
}

func TestSeam_LowestEnergyPath(t *testing.T) {
	energy := mat.NewDense(3, 3, []float64{
		1, 4, 3,
		5, 2, 6,
		9, 9, 1,
	})
	seam, cost, err := FindSeam(energy, Vertical)
	require.NoError(t, err)
	assert.Equal(t, Seam{0, 1, 2}, seam)
	assert.Equal(t, 4.0, cost)
}

func TestSeam_TieBreakPrefersSmallestIndex(t *testing.T) {
	// Equal predecessors: the up-left one wins over straight up.
	energy := mat.NewDense(2, 3, []float64{
		1, 1, 5,
		0, 0, 0,
	})
	seam, cost, err := FindSeam(energy, Vertical)
	require.NoError(t, err)
	assert.Equal(t, Seam{0, 0}, seam)
	assert.Equal(t, 1.0, cost)

	// Equal bottom row costs: the smallest column wins.
	energy = mat.NewDense(2, 3, []float64{
		2, 1, 1,
		0, 0, 0,
	})
	seam, cost, err = FindSeam(energy, Vertical)
	require.NoError(t, err)
	assert.Equal(t, Seam{1, 0}, seam)
	assert.Equal(t, 1.0, cost)
}

func TestSeam_Horizontal(t *testing.T) {
	energy := mat.NewDense(3, 4, []float64{
		5, 5, 5, 5,
		0, 0, 0, 0,
		5, 5, 5, 5,
	})
	seam, cost, err := FindSeam(energy, Horizontal)
	require.NoError(t, err)
	assert.Equal(t, Seam{1, 1, 1, 1}, seam)
	assert.Zero(t, cost)

	// The horizontal search must not touch the source matrix.
	assert.Equal(t, 3, energy.RawMatrix().Rows)
	assert.Equal(t, 5.0, energy.At(0, 0))
}

func TestSeam_HorizontalMatchesTransposedVertical(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	data := make([]float64, 6*9)
	for i := range data {
		data[i] = float64(rnd.Intn(50))
	}
	energy := mat.NewDense(6, 9, data)

	hs, hc, err := FindSeam(energy, Horizontal)
	require.NoError(t, err)
	vs, vc, err := FindSeam(mat.DenseCopyOf(energy.T()), Vertical)
	require.NoError(t, err)

	assert.Equal(t, vs, hs)
	assert.Equal(t, vc, hc)
}

func TestSeam_Connected(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for _, dims := range [][2]int{{1, 1}, {1, 8}, {8, 1}, {12, 17}, {17, 12}} {
		rows, cols := dims[0], dims[1]
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = rnd.Float64() * 100
		}
		energy := mat.NewDense(rows, cols, data)

		seam, cost, err := FindSeam(energy, Vertical)
		require.NoError(t, err)
		require.NoError(t, seam.check(rows, cols))

		var sum float64
		for y, x := range seam {
			sum += energy.At(y, x)
		}
		assert.InDelta(t, sum, cost, 1e-9)

		seam, _, err = FindSeam(energy, Horizontal)
		require.NoError(t, err)
		assert.NoError(t, seam.check(cols, rows))
	}
}

func TestSeam_InvalidEnergy(t *testing.T) {
	_, _, err := FindSeam(nil, Vertical)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, _, err = FindSeam(&mat.Dense{}, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestSeam_Points(t *testing.T) {
	s := Seam{2, 3}
	assert.Equal(t, 3, s.Points(Vertical)[1].X)
	assert.Equal(t, 1, s.Points(Vertical)[1].Y)
	assert.Equal(t, 1, s.Points(Horizontal)[1].X)
	assert.Equal(t, 3, s.Points(Horizontal)[1].Y)
}

func TestSeam_Check(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Seam{0, 1, 1}.check(3, 2))
	assert.ErrorIs(Seam{0, 1}.check(3, 2), ErrSeamMismatch)
	assert.ErrorIs(Seam{0, 2, 1}.check(3, 2), ErrSeamMismatch)
	assert.ErrorIs(Seam{0, -1, 0}.check(3, 2), ErrSeamMismatch)
	assert.ErrorIs(Seam{0, 2, 4}.check(3, 5), ErrSeamMismatch)
}
