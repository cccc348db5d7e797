package carve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/carve/utils"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the supported image file extensions.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// Ops describes the source and destination of a carving run.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Spinner is optional, it is shown while a single image is processed.
	Spinner *utils.Spinner
}

// result holds the relevant information about the carving process of a single file.
type result struct {
	path string
	err  error
}

// Execute runs the processor over the source. The source can be a local file,
// an URL, a pipe or a directory; in the latter case the supported image files
// are processed concurrently and saved into the destination directory.
func (op *Ops) Execute(p *Processor) error {
	var (
		fs  os.FileInfo
		err error
	)
	src := op.Src

	// Check if the source path is a local image or URL.
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to load the source image")
		}
		defer os.Remove(f.Name())
		f.Close()
		src = f.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load the source image")
	}

	now := time.Now()
	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.executeDir(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		ext := strings.ToLower(filepath.Ext(op.Dst))
		if op.Dst != op.PipeName && !utils.Contains(validExtensions, ext) {
			return fmt.Errorf("%v file type not supported", ext)
		}
		err = op.processWithSpinner(p, src, op.Dst)
	default:
		return fmt.Errorf("unsupported source: %s", src)
	}
	if err != nil {
		return err
	}
	log.WithField("elapsed", utils.FormatTime(time.Since(now))).Info("execution finished")
	return nil
}

// executeDir processes recursively the image files found in the source directory.
func (op *Ops) executeDir(p *Processor, src string) error {
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return pkgerrors.Wrap(err, "unable to create the destination directory")
	}

	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	// Per image debug outputs would overwrite each other.
	proto := *p
	proto.PreviewDir, proto.EnergyPath, proto.PlotPath = "", "", ""

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, src, validExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			// Every worker owns a copy of the processor.
			proc := proto
			op.consumer(&proc, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var failed []string
	for res := range ch {
		if res.err != nil {
			log.WithError(res.err).WithField("path", res.path).Error("carving failed")
			failed = append(failed, filepath.Base(res.path))
			continue
		}
		log.WithField("path", res.path).Info("image carved")
	}

	if err := <-errc; err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d image(s) could not be carved: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

// consumer reads the path names from the paths channel and calls the processor against the source image.
func (op *Ops) consumer(
	p *Processor,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		dst := filepath.Join(op.Dst, filepath.Base(src))
		err := op.process(p, src, dst)

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

func (op *Ops) processWithSpinner(p *Processor, in, out string) error {
	if op.Spinner == nil {
		return op.process(p, in, out)
	}
	op.Spinner.Start()
	err := op.process(p, in, out)
	if err != nil {
		op.Spinner.StopMsg = utils.StatusLine("carving the image failed ✘\n", utils.ErrorMessage)
	} else {
		op.Spinner.StopMsg = utils.StatusLine("the image has been carved successfully ✔\n", utils.SuccessMessage)
	}
	op.Spinner.Stop()
	return err
}

// process calls the processor over the source image and returns the error in case exists.
func (op *Ops) process(p *Processor, in, out string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				log.Warnf("could not close the opened file: %v", err)
			}
		}
	}()

	err = p.Process(src, dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			// remove the generated image file in case of an error
			os.Remove(f.Name())
		}
	}
	return err
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		ctype, err := utils.DetectContentType(in)
		if err != nil {
			return nil, nil, err
		}
		if !strings.Contains(ctype, "image") {
			return nil, nil, fmt.Errorf("%s should be an image file", filepath.Base(in))
		}
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(err, "unable to open the source file")
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, pkgerrors.Wrap(err, "unable to create the destination file")
		}
	}
	return src, dst, nil
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
