/*
Package carve is a content aware image reduction library. It shrinks an image
column by column or row by row, removing every time the seam of pixels with the
lowest total energy, so that the important parts of the image are kept intact.

The pipeline is built from small, independently usable steps:

	energy, _ := carve.ComputeEnergy(grid)
	seam, cost, _ := carve.FindSeam(energy, carve.Vertical)
	grid, _ = carve.RemoveSeam(grid, seam, carve.Vertical)

The Carver type repeats these steps for a number of seams, optionally removing
a marked object or protecting the detected faces, while the Processor wires the
carvers to image decoding and encoding:

	p := &carve.Processor{
		VSeams: 20,
		HSeams: 10,
	}
	if err := p.Process(in, out); err != nil {
		fmt.Printf("Error carving the image: %s", err.Error())
	}

The package also provides a command line interface. To check the supported flags type:

	$ carve --help
*/
package carve
