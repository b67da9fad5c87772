package imageio

import (
	"fmt"
	"image"
	"image/color"
)

// ImageBuffer collects pixels into an in-memory RGBA image
type ImageBuffer struct {
	img     *image.RGBA
	written int
}

// NewImageBuffer creates an empty buffer; Begin sizes it
func NewImageBuffer() *ImageBuffer {
	return &ImageBuffer{}
}

// Begin allocates the image
func (b *ImageBuffer) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	b.img = image.NewRGBA(image.Rect(0, 0, width, height))
	b.written = 0
	return nil
}

// WritePixel stores the next pixel in row-major order
func (b *ImageBuffer) WritePixel(c color.RGBA) error {
	if b.img == nil {
		return ErrNotStarted
	}
	width := b.img.Bounds().Dx()
	if b.written >= width*b.img.Bounds().Dy() {
		return ErrTooManyPixels
	}
	b.img.SetRGBA(b.written%width, b.written/width, c)
	b.written++
	return nil
}

// Finish checks that every pixel was written
func (b *ImageBuffer) Finish() error {
	if b.img == nil {
		return ErrNotStarted
	}
	bounds := b.img.Bounds()
	if total := bounds.Dx() * bounds.Dy(); b.written != total {
		return fmt.Errorf("%w: wrote %d of %d pixels", ErrIncomplete, b.written, total)
	}
	return nil
}

// Image returns the buffered image, nil before Begin
func (b *ImageBuffer) Image() *image.RGBA {
	return b.img
}
