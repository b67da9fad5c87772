package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCompare(t *testing.T) {
	gray := color.RGBA{100, 100, 100, 255}

	t.Run("identical", func(t *testing.T) {
		stats, err := Compare(solidImage(4, 3, gray), solidImage(4, 3, gray))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		expected := DiffStats{TotalPixels: 12}
		if stats != expected {
			t.Errorf("Expected %+v, got %+v", expected, stats)
		}
	})

	t.Run("one pixel differs", func(t *testing.T) {
		b := solidImage(2, 2, gray)
		b.SetRGBA(1, 1, color.RGBA{110, 94, 100, 255})

		stats, err := Compare(solidImage(2, 2, gray), b)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if stats.DifferingPixels != 1 || stats.MaxChannelDelta != 10 {
			t.Errorf("Expected 1 differing pixel with max delta 10, got %+v", stats)
		}
		// (10 + 6) over 4 pixels * 3 channels
		if stats.MeanAbsDelta != 16.0/12.0 {
			t.Errorf("Expected mean delta %f, got %f", 16.0/12.0, stats.MeanAbsDelta)
		}
	})

	t.Run("offset bounds", func(t *testing.T) {
		shifted := solidImage(3, 3, gray).SubImage(image.Rect(1, 1, 3, 3))
		stats, err := Compare(solidImage(2, 2, gray), shifted)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if stats.DifferingPixels != 0 {
			t.Errorf("Expected no differences, got %+v", stats)
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		if _, err := Compare(solidImage(2, 2, gray), solidImage(2, 3, gray)); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("Expected ErrSizeMismatch, got %v", err)
		}
	})
}

func TestImageBuffer(t *testing.T) {
	b := NewImageBuffer()
	if b.Image() != nil {
		t.Error("Expected nil image before Begin")
	}
	if err := b.WritePixel(color.RGBA{}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}

	if err := b.Begin(2, 1); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	red := color.RGBA{255, 0, 0, 255}
	if err := b.WritePixel(red); err != nil {
		t.Fatalf("WritePixel: %v", err)
	}
	if err := b.Finish(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Expected ErrIncomplete, got %v", err)
	}
	if err := b.WritePixel(red); err != nil {
		t.Fatalf("WritePixel: %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if b.Image().RGBAAt(1, 0) != red {
		t.Errorf("Expected red at (1,0), got %v", b.Image().RGBAAt(1, 0))
	}
}

func TestMultiWriter(t *testing.T) {
	var ppm, pngBuf bytes.Buffer
	buffer := NewImageBuffer()
	w := MultiWriter(NewPPMWriter(&ppm), NewPNGWriter(&pngBuf), buffer)

	if err := w.Begin(1, 2); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	pixels := []color.RGBA{{1, 2, 3, 255}, {4, 5, 6, 255}}
	for _, p := range pixels {
		if err := w.WritePixel(p); err != nil {
			t.Fatalf("WritePixel: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if ppm.String() != "P3\n1 2\n255\n1 2 3\n4 5 6\n" {
		t.Errorf("Unexpected PPM output %q", ppm.String())
	}
	decoded, err := png.Decode(&pngBuf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	stats, err := Compare(buffer.Image(), decoded)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if stats.DifferingPixels != 0 {
		t.Errorf("Expected all outputs to agree, got %+v", stats)
	}
}

func TestMultiWriter_FinishReportsEveryWriter(t *testing.T) {
	// Neither writer was started, so both fail
	err := MultiWriter(NewPPMWriter(&bytes.Buffer{}), NewImageBuffer()).Finish()
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("Expected ErrNotStarted, got %v", err)
	}
}
