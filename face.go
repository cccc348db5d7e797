package carve

import (
	"image"
	"os"

	"github.com/esimov/carve/utils"
	pigo "github.com/esimov/pigo/core"
	"github.com/pkg/errors"
)

// FaceDetector finds the faces of a grid using the pigo cascade classifier.
// The detected faces are reported as regions to be protected from carving.
type FaceDetector struct {
	classifier *pigo.Pigo
	// Angle is the in-plane rotation of the searched faces, in [0, 1] (0 is upright).
	Angle float64
	// MinSize is the smallest face size, in pixels, taken into account.
	MinSize int
	// Threshold discards the detections with a lower score.
	Threshold float32
}

// NewFaceDetector unpacks the binary cascade classifier.
func NewFaceDetector(cascade []byte, angle float64) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, errors.Wrap(err, "error unpacking the cascade file")
	}
	return &FaceDetector{
		classifier: classifier,
		Angle:      angle,
		MinSize:    20,
		Threshold:  5.0,
	}, nil
}

// LoadFaceDetector reads the cascade classifier from a file.
func LoadFaceDetector(path string, angle float64) (*FaceDetector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading the cascade file")
	}
	return NewFaceDetector(cascade, angle)
}

// Detect returns the face regions of the grid. Its signature matches ProtectFn.
func (fd *FaceDetector) Detect(g Grid) ([]Region, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	rows, cols := g.Rows(), g.Cols()

	params := pigo.CascadeParams{
		MinSize:     fd.MinSize,
		MaxSize:     utils.Max(rows, cols),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: rgbToGrayscale(g),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := fd.classifier.RunCascade(params, fd.Angle)
	// Overlapping detections of the same face are merged into one.
	dets = fd.classifier.ClusterDetections(dets, 0.2)

	return faceRegions(dets, fd.Threshold), nil
}

// faceRegions keeps the detections scoring above the threshold and converts
// their center and scale to the bounding region.
func faceRegions(dets []pigo.Detection, threshold float32) []Region {
	regions := make([]Region, 0, len(dets))
	for _, d := range dets {
		if d.Q <= threshold {
			continue
		}
		half := d.Scale / 2
		rect := image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half)
		regions = append(regions, RegionFromRect(rect))
	}
	return regions
}
