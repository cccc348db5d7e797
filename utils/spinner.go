package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	hideCursorSeq = "\033[?25l"
	showCursorSeq = "\033[?25h"
)

var spinnerFrames = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// Spinner is a terminal progress indicator redrawn on a fixed interval.
type Spinner struct {
	StopMsg string

	mu         sync.Mutex
	wg         sync.WaitGroup
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	hideCursor bool
	done       chan struct{}
}

// NewSpinner returns a spinner writing to the standard error.
func NewSpinner(msg string, d time.Duration, hideCursor bool) *Spinner {
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	return &Spinner{
		delay:      d,
		writer:     os.Stderr,
		message:    msg,
		hideCursor: hideCursor && runtime.GOOS != "windows",
	}
}

// SetWriter redirects the spinner output.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	s.writer = w
	s.mu.Unlock()
}

// Start draws the spinner until Stop is called. Calling it on a running spinner has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	if s.hideCursor {
		fmt.Fprint(s.writer, hideCursorSeq)
	}

	done := make(chan struct{})
	s.done = done
	s.wg.Add(1)
	go s.run(done)
}

func (s *Spinner) run(done <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		s.lastOutput = fmt.Sprintf("\r%s%s %c%s", s.message, SuccessColor, spinnerFrames[i%len(spinnerFrames)], DefaultColor)
		fmt.Fprint(s.writer, s.lastOutput)
		s.mu.Unlock()

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the spinner, clears its line and prints StopMsg.
// Nothing is written by the spinner after Stop returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.done = nil
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.restoreCursor()
	if s.StopMsg != "" {
		fmt.Fprint(s.writer, s.StopMsg)
	}
}

// RestoreCursor makes the cursor visible again, e.g. on an interrupt signal.
func (s *Spinner) RestoreCursor() {
	s.mu.Lock()
	s.restoreCursor()
	s.mu.Unlock()
}

func (s *Spinner) restoreCursor() {
	if s.hideCursor {
		fmt.Fprint(s.writer, showCursorSeq)
	}
}

// clear erases the last drawn frame. The caller holds the lock.
func (s *Spinner) clear() {
	n := utf8.RuneCountInString(s.lastOutput)
	s.lastOutput = ""
	if runtime.GOOS == "windows" {
		fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", n)+"\r")
		return
	}
	fmt.Fprint(s.writer, "\r\033[K")
}
