package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/esimov/carve"
	"github.com/esimov/carve/imop"
	"github.com/esimov/carve/utils"
	log "github.com/sirupsen/logrus"
)

const helpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐
│  ├─┤├┬┘└┐┌┘├┤
└─┘┴ ┴┴└─ └┘ └─┘

Content aware image reduction.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	newWidth    = flag.Int("width", 0, "Number of columns (vertical seams) to remove")
	newHeight   = flag.Int("height", 0, "Number of rows (horizontal seams) to remove")
	percentage  = flag.Bool("perc", false, "Interpret width and height as percentages")
	maskRegion  = flag.String("mask", "", "Object to remove, as top,bottom,left,right")
	faceDetect  = flag.Bool("face", false, "Protect the detected faces")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	cascade     = flag.String("cc", "", "Cascade classifier used for face detection")
	previewDir  = flag.String("preview", "", "Directory where the intermediate seam images are saved")
	previewSize = flag.Int("psize", 0, "Maximum size of the intermediate images")
	seamColor   = flag.String("color", "#ff0000", "Seam color of the intermediate images")
	blendMode   = flag.String("blend", imop.Normal, "Blend mode of the seam color")
	energyPath  = flag.String("energy", "", "Save the energy map of the source image")
	plotPath    = flag.String("plot", "", "Save the seam cost chart")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	proc, err := newProcessor()
	if err != nil {
		fatal(err)
	}

	if *newWidth == 0 && *newHeight == 0 && proc.Mask == nil {
		flag.Usage()
		fatal(fmt.Errorf("please provide a width, height or mask for image carving"))
	}

	op := &carve.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}
	if !*verbose {
		op.Spinner = utils.NewSpinner(utils.StatusLine("carving the image...", utils.DefaultMessage), 80*time.Millisecond, true)
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		if op.Spinner != nil {
			op.Spinner.RestoreCursor()
		}
		os.Exit(1)
	}()

	now := time.Now()
	if err := op.Execute(proc); err != nil {
		fatal(err)
	}
	if *destination != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s\n", utils.DecorateText(*destination, utils.SuccessMessage))
		fmt.Fprintf(os.Stderr, "Execution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
}

// newProcessor builds the processor from the command line flags.
func newProcessor() (*carve.Processor, error) {
	proc := &carve.Processor{
		VSeams:      *newWidth,
		HSeams:      *newHeight,
		Percentage:  *percentage,
		PreviewDir:  *previewDir,
		PreviewSize: *previewSize,
		EnergyPath:  *energyPath,
		PlotPath:    *plotPath,
		Logger:      log.StandardLogger(),
	}

	if *maskRegion != "" {
		region, err := carve.ParseRegion(*maskRegion)
		if err != nil {
			return nil, err
		}
		proc.Mask = &region
	}

	if *faceDetect {
		if len(*cascade) == 0 {
			return nil, fmt.Errorf("please specify a face classifier in case you are using the -face flag")
		}
		fd, err := carve.LoadFaceDetector(*cascade, *faceAngle)
		if err != nil {
			return nil, err
		}
		proc.FaceDetector = fd
	}

	col, err := utils.HexToRGBA(*seamColor)
	if err != nil {
		return nil, err
	}
	proc.SeamColor = col

	blend := imop.NewBlend()
	if err := blend.Set(*blendMode); err != nil {
		return nil, err
	}
	proc.Blend = blend

	return proc, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n\t%s\n",
		utils.DecorateText("Error carving the image:", utils.ErrorMessage),
		utils.DecorateText(err.Error(), utils.DefaultMessage),
	)
	os.Exit(1)
}
