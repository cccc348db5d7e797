package carve

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, g Grid) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, g.Image()))
	return &buf
}

func TestProcessor_SeamCounts(t *testing.T) {
	tests := map[string]struct {
		p      Processor
		vs, hs int
		err    bool
	}{
		"absolute":        {p: Processor{VSeams: 4, HSeams: 2}, vs: 4, hs: 2},
		"percentage":      {p: Processor{VSeams: 10, HSeams: 25, Percentage: true}, vs: 5, hs: 3},
		"mask default":    {p: Processor{Mask: &Region{Top: 0, Bottom: 1, Left: 2, Right: 4}}, vs: 3},
		"mask explicit":   {p: Processor{VSeams: 6, Mask: &Region{Top: 0, Bottom: 1, Left: 2, Right: 4}}, vs: 6},
		"negative":        {p: Processor{VSeams: -1}, err: true},
		"over percentage": {p: Processor{HSeams: 120, Percentage: true}, err: true},
		"too many cols":   {p: Processor{VSeams: 50}, err: true},
		"too many rows":   {p: Processor{HSeams: 10}, err: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			vs, hs, err := tt.p.seamCounts(10, 50)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.vs, vs)
			assert.Equal(t, tt.hs, hs)
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := &Processor{VSeams: 5, HSeams: 3, Logger: logger}

	var out bytes.Buffer
	require.NoError(t, p.Process(encodePNG(t, randomGrid(16, 20, 21)), &out))

	img, format, err := image.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 15, img.Bounds().Dx())
	assert.Equal(t, 13, img.Bounds().Dy())

	costs := p.Costs()
	require.Len(t, costs, 2)
	assert.Equal(t, "vertical", costs[0].Name)
	assert.Len(t, costs[0].Costs, 5)
	assert.Equal(t, "horizontal", costs[1].Name)
	assert.Len(t, costs[1].Costs, 3)

	var carving int
	for _, e := range hook.AllEntries() {
		if e.Message == "carving" {
			carving++
		}
	}
	assert.Equal(t, 2, carving)
}

func TestProcessor_DebugOutputs(t *testing.T) {
	dir := t.TempDir()
	p := &Processor{
		VSeams:     2,
		HSeams:     1,
		PreviewDir: filepath.Join(dir, "preview"),
		EnergyPath: filepath.Join(dir, "energy.png"),
		PlotPath:   filepath.Join(dir, "plot.png"),
	}
	res, err := p.Resize(randomGrid(8, 8, 22).Image())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 7), res.Bounds())

	for _, name := range []string{
		"energy.png",
		"plot.png",
		filepath.Join("preview", "intermediate-1.png"),
		filepath.Join("preview", "intermediate-2.png"),
		filepath.Join("preview", "horizontal-intermediate-1.png"),
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestProcessor_MaskRemovesObject(t *testing.T) {
	src := NewGrid(6, 10, Pixel{R: 0xff, G: 0xff, B: 0xff})
	for r := 2; r <= 4; r++ {
		for c := 3; c <= 6; c++ {
			src[r][c] = Pixel{B: 0xff}
		}
	}
	p := &Processor{Mask: &Region{Top: 2, Bottom: 4, Left: 3, Right: 6}}
	res, err := p.Resize(src.Image())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 6), res.Bounds())

	g := FromImage(res)
	for _, row := range g {
		for _, px := range row {
			assert.NotEqual(t, Pixel{B: 0xff}, px)
		}
	}
}

func TestProcessor_Errors(t *testing.T) {
	p := &Processor{VSeams: 1}
	err := p.Process(strings.NewReader("not an image"), &bytes.Buffer{})
	assert.Error(t, err)

	p = &Processor{VSeams: 20}
	err = p.Process(encodePNG(t, randomGrid(4, 20, 23)), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrExhaustedDimension)

	p = &Processor{HSeams: 1, Mask: &Region{Top: 0, Bottom: 9, Left: 0, Right: 1}}
	_, err = p.Resize(randomGrid(4, 6, 24).Image())
	assert.ErrorIs(t, err, ErrRegionOutOfBounds)
}
