package carve

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/esimov/carve/imop"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// seamBand is the number of pixels painted on each side of the seam.
const seamBand = 2

// DefaultSeamColor is used for painting the seams on the preview images.
var DefaultSeamColor = color.NRGBA{R: 0xff, A: 0xff}

// VisualizeSeam returns a copy of the grid with the seam painted over it.
// The seam is widened by a couple of pixels on both sides to be visible.
func VisualizeSeam(g Grid, s Seam, o Orientation, c color.NRGBA, blend *imop.Blend) Grid {
	if blend == nil {
		blend = imop.NewBlend()
	}
	dst := g.Clone()
	rows, cols := dst.Rows(), dst.Cols()

	paint := func(y, x int) {
		p := dst[y][x]
		m := blend.Mix(c, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 0xff}, float64(c.A)/255)
		dst[y][x] = Pixel{R: m.R, G: m.G, B: m.B}
	}

	for i, v := range s {
		if o == Horizontal {
			if i >= cols {
				break
			}
			for y := max(v-seamBand, 0); y <= min(v+seamBand, rows-1); y++ {
				paint(y, i)
			}
			continue
		}
		if i >= rows {
			break
		}
		for x := max(v-seamBand, 0); x <= min(v+seamBand, cols-1); x++ {
			paint(i, x)
		}
	}
	return dst
}

// EnergyImage converts the energy matrix into a grayscale heat map,
// where brighter pixels represent higher energy. The values are
// normalized by the highest energy, negative values map to black.
func EnergyImage(energy *mat.Dense) *image.Gray {
	rows, cols := energy.Dims()
	dst := image.NewGray(image.Rect(0, 0, cols, rows))

	maxEnergy := 0.0
	for y := 0; y < rows; y++ {
		maxEnergy = math.Max(maxEnergy, floats.Max(energy.RawRowView(y)))
	}
	if maxEnergy <= 0 {
		return dst
	}

	for y := 0; y < rows; y++ {
		for x, v := range energy.RawRowView(y) {
			if v <= 0 {
				continue
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(math.Round(math.Min(v, maxEnergy) / maxEnergy * 255))})
		}
	}
	return dst
}

// PreviewWriter is an Observer saving every carving step as an image with
// the current seam painted over it.
type PreviewWriter struct {
	Dir   string
	Color color.NRGBA
	Blend *imop.Blend
	// MaxSize limits the preview width and height, preserving the aspect ratio.
	MaxSize int
	// Prefix is prepended to the file names, e.g. "vertical-".
	Prefix string
}

var _ Observer = (*PreviewWriter)(nil)

// NewPreviewWriter creates the preview directory if it does not exist.
func NewPreviewWriter(dir string) (*PreviewWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create the preview directory %s", dir)
	}
	return &PreviewWriter{
		Dir:   dir,
		Color: DefaultSeamColor,
		Blend: imop.NewBlend(),
	}, nil
}

// Path returns the preview file name of the given zero based iteration.
func (pw *PreviewWriter) Path(iteration int) string {
	return filepath.Join(pw.Dir, fmt.Sprintf("%sintermediate-%d.png", pw.Prefix, iteration+1))
}

// Observe implements the Observer interface.
func (pw *PreviewWriter) Observe(s Step) error {
	var img image.Image = VisualizeSeam(s.Grid, s.Seam, s.Orientation, pw.Color, pw.Blend).Image()
	if pw.MaxSize > 0 {
		b := img.Bounds()
		if b.Dx() > pw.MaxSize || b.Dy() > pw.MaxSize {
			img = imaging.Fit(img, pw.MaxSize, pw.MaxSize, imaging.Lanczos)
		}
	}
	return saveImg(pw.Path(s.Iteration), img)
}
