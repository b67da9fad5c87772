// Package imageio writes rendered pixels to image files and streams.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
)

var (
	// ErrNotStarted is returned when pixels are written before Begin
	ErrNotStarted = errors.New("image writer not started")
	// ErrTooManyPixels is returned when more than width*height pixels are written
	ErrTooManyPixels = errors.New("more pixels than the image holds")
	// ErrIncomplete is returned by Finish when pixels are missing
	ErrIncomplete = errors.New("image is incomplete")
)

// PPMWriter writes a plain-text (P3) portable pixel map: a three line
// header followed by one "r g b" line per pixel.
type PPMWriter struct {
	w       *bufio.Writer
	total   int
	written int
	started bool
}

// NewPPMWriter creates a PPM writer on top of w
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// Begin writes the header
func (p *PPMWriter) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	p.total = width * height
	p.written = 0
	p.started = true
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WritePixel writes the next pixel in row-major order
func (p *PPMWriter) WritePixel(c color.RGBA) error {
	if !p.started {
		return ErrNotStarted
	}
	if p.written >= p.total {
		return ErrTooManyPixels
	}
	p.written++
	_, err := fmt.Fprintf(p.w, "%d %d %d\n", c.R, c.G, c.B)
	return err
}

// Finish flushes the stream. It fails if fewer than width*height pixels were written.
func (p *PPMWriter) Finish() error {
	if !p.started {
		return ErrNotStarted
	}
	if err := p.w.Flush(); err != nil {
		return err
	}
	if p.written != p.total {
		return fmt.Errorf("%w: wrote %d of %d pixels", ErrIncomplete, p.written, p.total)
	}
	return nil
}
