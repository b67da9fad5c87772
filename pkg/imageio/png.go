package imageio

import (
	"image/png"
	"io"
)

// PNGWriter buffers pixels into an RGBA image and encodes it as PNG on Finish
type PNGWriter struct {
	ImageBuffer
	w io.Writer
}

// NewPNGWriter creates a PNG writer on top of w
func NewPNGWriter(w io.Writer) *PNGWriter {
	return &PNGWriter{w: w}
}

// Finish encodes the image
func (p *PNGWriter) Finish() error {
	if err := p.ImageBuffer.Finish(); err != nil {
		return err
	}
	return png.Encode(p.w, p.img)
}
