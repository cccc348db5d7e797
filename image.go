package carve

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// FromImage converts any image type to a pixel grid. The alpha
// channel is dropped, the color values are kept unpremultiplied.
func FromImage(img image.Image) Grid {
	src := imaging.Clone(img)
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	g := make(Grid, dy)
	for y := 0; y < dy; y++ {
		row := make([]Pixel, dx)
		off := src.PixOffset(0, y)
		for x := 0; x < dx; x++ {
			i := off + x*4
			row[x] = Pixel{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2]}
		}
		g[y] = row
	}
	return g
}

// Image converts the grid to an opaque *image.NRGBA.
func (g Grid) Image() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, g.Cols(), g.Rows()))
	for y, row := range g {
		off := dst.PixOffset(0, y)
		for x, p := range row {
			i := off + x*4
			dst.Pix[i+0] = p.R
			dst.Pix[i+1] = p.G
			dst.Pix[i+2] = p.B
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// encodeImg encodes an image to a destination of type io.Writer.
// The format is taken from the destination file extension, falling back to jpeg.
func encodeImg(w io.Writer, img image.Image) error {
	ext := ""
	if f, ok := w.(*os.File); ok {
		ext = strings.ToLower(filepath.Ext(f.Name()))
	}
	return encodeImgExt(w, ext, img)
}

func encodeImgExt(w io.Writer, ext string, img image.Image) error {
	switch ext {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, nil)
	}
	return fmt.Errorf("unsupported image format: %q", ext)
}

// saveImg writes the image into the named file.
func saveImg(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	if err := encodeImgExt(f, strings.ToLower(filepath.Ext(path)), img); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not encode %s", path)
	}
	return f.Close()
}

// rgbToGrayscale converts an image to grayscale mode and
// returns the pixel values as an one dimensional array.
func rgbToGrayscale(g Grid) []uint8 {
	width := g.Cols()
	gray := make([]uint8, g.Rows()*width)

	for y, row := range g {
		for x, p := range row {
			gray[y*width+x] = color.GrayModel.Convert(color.NRGBA{R: p.R, G: p.G, B: p.B, A: 0xff}).(color.Gray).Y
		}
	}
	return gray
}
