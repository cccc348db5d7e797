// Package imop implements the blending modes used for mixing the seam
// overlay color with the underlying image when the carving steps are
// visualized. The color is first blended with the backdrop using one of
// the supported modes, then composed over it with the requested opacity.
package imop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/esimov/carve/utils"
)

const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

// Modes lists the supported blend modes.
var Modes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend using the normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activate one of the supported blend mode.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(Modes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	if len(o.OpType) > 0 {
		return o.OpType
	}
	return Normal
}

// Mix blends the src color with the dst backdrop and composes the result
// over the backdrop using the provided opacity, clamped to [0, 1].
func (o *Blend) Mix(src, dst color.NRGBA, opacity float64) color.NRGBA {
	a := utils.Clamp(opacity, 0, 1)
	mix := func(s, b uint8) uint8 {
		sn, bn := float64(s)/255, float64(b)/255
		v := a*o.channel(sn, bn) + (1-a)*bn
		return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
	}

	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: dst.A,
	}
}

// channel applies the blend formula on a normalized source and backdrop value.
func (o *Blend) channel(s, b float64) float64 {
	switch o.Get() {
	case Darken:
		return utils.Min(s, b)
	case Lighten:
		return utils.Max(s, b)
	case Multiply:
		return s * b
	case Screen:
		return 1 - (1-s)*(1-b)
	case Overlay:
		if b <= 0.5 {
			return 2 * s * b
		}
		return 1 - 2*(1-s)*(1-b)
	}
	return s
}
