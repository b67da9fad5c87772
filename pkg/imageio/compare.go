package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrSizeMismatch is returned when compared images have different dimensions
var ErrSizeMismatch = errors.New("image sizes differ")

// Writer is the pixel sink every writer in this package implements
type Writer interface {
	Begin(width, height int) error
	WritePixel(c color.RGBA) error
	Finish() error
}

type multiWriter struct {
	writers []Writer
}

// MultiWriter duplicates every call to all writers, like io.MultiWriter.
// The first error stops the call.
func MultiWriter(writers ...Writer) Writer {
	return &multiWriter{writers: writers}
}

func (m *multiWriter) Begin(width, height int) error {
	for _, w := range m.writers {
		if err := w.Begin(width, height); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiWriter) WritePixel(c color.RGBA) error {
	for _, w := range m.writers {
		if err := w.WritePixel(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiWriter) Finish() error {
	var errs []error
	for _, w := range m.writers {
		errs = append(errs, w.Finish())
	}
	return errors.Join(errs...)
}

// DiffStats summarizes per-channel differences between two images
type DiffStats struct {
	TotalPixels     int
	DifferingPixels int     // Pixels where any RGB channel differs
	MaxChannelDelta int     // Largest absolute 8-bit channel difference
	MeanAbsDelta    float64 // Mean absolute difference over all RGB channels
}

// Compare reports how far b is from a. Alpha is ignored.
func Compare(a, b image.Image) (DiffStats, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return DiffStats{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	stats := DiffStats{TotalPixels: ab.Dx() * ab.Dy()}
	var sum int
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.RGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y)).(color.RGBA)
			cb := color.RGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)).(color.RGBA)

			differs := false
			for _, d := range [3]int{
				absDiff(ca.R, cb.R),
				absDiff(ca.G, cb.G),
				absDiff(ca.B, cb.B),
			} {
				sum += d
				if d > 0 {
					differs = true
				}
				stats.MaxChannelDelta = max(stats.MaxChannelDelta, d)
			}
			if differs {
				stats.DifferingPixels++
			}
		}
	}
	if stats.TotalPixels > 0 {
		stats.MeanAbsDelta = float64(sum) / float64(3*stats.TotalPixels)
	}
	return stats, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
