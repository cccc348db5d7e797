package carve

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/esimov/carve/imop"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SeamCarver is an interface that Processor uses to implement the Resize function.
// It takes an image as parameter and returns the carved image.
type SeamCarver interface {
	Resize(image.Image) (image.Image, error)
}

var _ SeamCarver = (*Processor)(nil)

// Processor holds the options of a carving run: how many seams to remove,
// the object to remove or the faces to protect, and the optional debug outputs.
type Processor struct {
	// VSeams and HSeams are the number of vertical (column) and
	// horizontal (row) seams to remove.
	VSeams int
	HSeams int
	// Percentage interprets VSeams and HSeams as a percentage of the image width and height.
	Percentage bool
	// Mask marks an object to be removed with vertical seams. When VSeams is zero
	// as many seams are removed as the object is wide.
	Mask         *Region
	FaceDetector *FaceDetector

	PreviewDir  string
	PreviewSize int
	SeamColor   color.NRGBA
	Blend       *imop.Blend
	// EnergyPath and PlotPath are optional outputs for the energy heat
	// map of the source image and the seam cost chart.
	EnergyPath string
	PlotPath   string

	Logger log.FieldLogger

	costs []CostSeries
}

// Resize implements the SeamCarver interface.
func Resize(s SeamCarver, img image.Image) (image.Image, error) {
	return s.Resize(img)
}

// Costs returns the seam costs recorded by the last Resize call.
func (p *Processor) Costs() []CostSeries {
	return append([]CostSeries(nil), p.costs...)
}

func (p *Processor) logger() log.FieldLogger {
	if p.Logger == nil {
		return log.StandardLogger()
	}
	return p.Logger
}

// seamCounts returns the number of vertical and horizontal seams to remove from a rows x cols grid.
func (p *Processor) seamCounts(rows, cols int) (int, int, error) {
	vs, hs := p.VSeams, p.HSeams
	if vs < 0 || hs < 0 {
		return 0, 0, errors.New("the number of seams to remove cannot be negative")
	}
	if p.Percentage {
		if vs > 100 || hs > 100 {
			return 0, 0, errors.New("percentage values should be between 0 and 100")
		}
		vs = int(math.Round(float64(cols) * float64(vs) / 100))
		hs = int(math.Round(float64(rows) * float64(hs) / 100))
	}
	if p.Mask != nil && vs == 0 {
		vs = p.Mask.Width()
	}
	if vs >= cols {
		return 0, 0, errors.Wrapf(ErrExhaustedDimension, "cannot remove %d columns from an image %d pixels wide", vs, cols)
	}
	if hs >= rows {
		return 0, 0, errors.Wrapf(ErrExhaustedDimension, "cannot remove %d rows from an image %d pixels high", hs, rows)
	}
	return vs, hs, nil
}

// Resize carves the vertical seams first, then the horizontal ones.
func (p *Processor) Resize(img image.Image) (image.Image, error) {
	grid := FromImage(img)
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	logger := p.logger()
	p.costs = nil

	vs, hs, err := p.seamCounts(grid.Rows(), grid.Cols())
	if err != nil {
		return nil, err
	}

	if p.EnergyPath != "" {
		energy, err := ComputeEnergy(grid)
		if err != nil {
			return nil, err
		}
		if err := saveImg(p.EnergyPath, EnergyImage(energy)); err != nil {
			return nil, err
		}
		logger.WithField("path", p.EnergyPath).Info("energy map saved")
	}

	passes := []struct {
		orientation Orientation
		seams       int
	}{
		{Vertical, vs},
		{Horizontal, hs},
	}
	for _, pass := range passes {
		if pass.seams == 0 {
			continue
		}
		c, err := p.newCarver(pass.orientation)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{
			"orientation": pass.orientation,
			"seams":       pass.seams,
			"width":       grid.Cols(),
			"height":      grid.Rows(),
		}).Info("carving")

		if grid, err = c.Carve(grid, pass.seams); err != nil {
			return nil, err
		}
		p.costs = append(p.costs, CostSeries{Name: pass.orientation.String(), Costs: c.Costs()})
	}

	if p.PlotPath != "" {
		if err := PlotCosts(p.PlotPath, p.costs...); err != nil {
			return nil, err
		}
		logger.WithField("path", p.PlotPath).Info("cost plot saved")
	}
	return grid.Image(), nil
}

func (p *Processor) newCarver(o Orientation) (*Carver, error) {
	c := NewCarver(o)
	c.Logger = p.logger()
	if o == Vertical {
		c.Mask = p.Mask
	}
	if p.FaceDetector != nil {
		c.Protect = p.FaceDetector.Detect
	}
	if p.PreviewDir != "" {
		pw, err := NewPreviewWriter(p.PreviewDir)
		if err != nil {
			return nil, err
		}
		if p.SeamColor != (color.NRGBA{}) {
			pw.Color = p.SeamColor
		}
		if p.Blend != nil {
			pw.Blend = p.Blend
		}
		pw.MaxSize = p.PreviewSize
		if o == Horizontal {
			pw.Prefix = "horizontal-"
		}
		c.Observer = pw
	}
	return c, nil
}

// Process decodes the source image, carves it and encodes the result into w.
// We are using the io package, since we can provide different input and output types,
// as long as they implement the io.Reader and io.Writer interface.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return errors.Wrap(err, "could not decode the source image")
	}
	res, err := Resize(p, src)
	if err != nil {
		return err
	}
	return encodeImg(w, res)
}
