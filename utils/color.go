package utils

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// HexToRGBA converts a hex color string (e.g. "#ff0000") to color.NRGBA.
func HexToRGBA(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid color %q", hex)
	}
	r, g, b := c.RGB255()

	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
