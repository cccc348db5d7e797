package carve

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMask_RoutesSeamThroughRegion(t *testing.T) {
	energy, err := ComputeEnergy(NewGrid(5, 5, Pixel{R: 0x80, G: 0x80, B: 0x80}))
	require.NoError(t, err)

	region := Region{Top: 1, Bottom: 3, Left: 1, Right: 3}
	energy, err = ApplyMask(energy, region, 0)
	require.NoError(t, err)

	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			assert.Equal(t, float64(MaskEnergy), energy.At(y, x))
		}
	}
	assert.Zero(t, energy.At(0, 0))
	assert.Zero(t, energy.At(4, 4))

	seam, cost, err := FindSeam(energy, Vertical)
	require.NoError(t, err)
	assert.Equal(t, Seam{0, 1, 1, 1, 0}, seam)
	assert.Equal(t, 3.0*MaskEnergy, cost)
}

func TestMask_ShrinksWithIterations(t *testing.T) {
	region := Region{Top: 0, Bottom: 1, Left: 1, Right: 3}

	energy, err := ApplyMask(mat.NewDense(2, 4, nil), region, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, MaskEnergy, 0, 0}, energy.RawRowView(0))
	assert.Equal(t, []float64{0, MaskEnergy, 0, 0}, energy.RawRowView(1))
}

func TestMask_ClampsToCurrentWidth(t *testing.T) {
	// The region extends past the matrix once the grid got narrower.
	region := Region{Top: 0, Bottom: 0, Left: 1, Right: 5}
	energy, err := ApplyMask(mat.NewDense(1, 3, nil), region, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, MaskEnergy, MaskEnergy}, energy.RawRowView(0))
}

func TestMask_ConsumedRegionLeavesEnergy(t *testing.T) {
	energy := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	res, err := ApplyMask(energy, Region{Top: 0, Bottom: 1, Left: 0, Right: 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, res.RawRowView(0))
	assert.Equal(t, []float64{3, 4}, res.RawRowView(1))
}

func TestMask_OutOfBounds(t *testing.T) {
	energy := mat.NewDense(3, 3, nil)
	for name, r := range map[string]Region{
		"rows below":    {Top: 1, Bottom: 3, Left: 0, Right: 1},
		"negative top":  {Top: -1, Bottom: 1, Left: 0, Right: 1},
		"negative left": {Top: 0, Bottom: 1, Left: -1, Right: 1},
		"left too far":  {Top: 0, Bottom: 1, Left: 3, Right: 4},
		"inverted rows": {Top: 2, Bottom: 1, Left: 0, Right: 1},
		"inverted cols": {Top: 0, Bottom: 9, Left: 3, Right: 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ApplyMask(energy, r, 0)
			assert.ErrorIs(t, err, ErrRegionOutOfBounds)
		})
	}

	// Inverted columns are rejected even when the rows fit.
	_, err := ApplyMask(energy, Region{Top: 0, Bottom: 1, Left: 2, Right: 1}, 0)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)

	// A region consumed by earlier iterations still has to fit the rows.
	_, err = ApplyMask(energy, Region{Top: 0, Bottom: 9, Left: 0, Right: 1}, 5)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)

	_, err = ApplyMask(energy, Region{Top: 0, Bottom: 0, Left: 0, Right: 0}, -1)
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)

	_, err = ApplyMask(nil, Region{}, 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestMask_Region(t *testing.T) {
	assert := assert.New(t)

	r, err := ParseRegion(" 1, 3,2 ,4")
	assert.NoError(err)
	assert.Equal(Region{Top: 1, Bottom: 3, Left: 2, Right: 4}, r)
	assert.Equal(3, r.Width())
	assert.False(r.Empty())
	assert.Equal(0, r.Shrink(3).Width())
	assert.True(r.Shrink(3).Empty())

	_, err = ParseRegion("1,2,3")
	assert.Error(err)
	_, err = ParseRegion("1,2,x,4")
	assert.Error(err)

	assert.Equal(Region{Top: 2, Bottom: 5, Left: 1, Right: 3}, RegionFromRect(image.Rect(1, 2, 4, 6)))

	assert.NoError(r.Validate(4, 5))
	assert.ErrorIs(r.Validate(3, 5), ErrRegionOutOfBounds)
	assert.ErrorIs(r.Validate(4, 4), ErrRegionOutOfBounds)
}

func TestMask_Protection(t *testing.T) {
	energy := mat.NewDense(3, 3, nil)
	ApplyProtection(energy, []Region{
		{Top: -2, Bottom: 0, Left: 1, Right: 9},
		{Top: 5, Bottom: 6, Left: 0, Right: 0},
	})
	assert.Equal(t, []float64{0, ProtectEnergy, ProtectEnergy}, energy.RawRowView(0))
	assert.Equal(t, []float64{0, 0, 0}, energy.RawRowView(1))
	assert.Equal(t, []float64{0, 0, 0}, energy.RawRowView(2))
}
