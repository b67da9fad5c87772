package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodePPM_RoundTrip(t *testing.T) {
	pixels := []color.RGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255},
		{12, 34, 56, 255}, {0, 0, 0, 255}, {255, 255, 255, 255},
	}

	var buf bytes.Buffer
	w := NewPPMWriter(&buf)
	if err := w.Begin(3, 2); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for _, p := range pixels {
		if err := w.WritePixel(p); err != nil {
			t.Fatalf("WritePixel: %v", err)
		}
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	img, err := DecodePPM(&buf)
	if err != nil {
		t.Fatalf("DecodePPM: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Expected 3x2 image, got %v", img.Bounds())
	}
	for k, want := range pixels {
		if got := img.RGBAAt(k%3, k/3); got != want {
			t.Errorf("Pixel %d: expected %v, got %v", k, want, got)
		}
	}
}

func TestDecodePPM_CommentsAndScaling(t *testing.T) {
	input := "P3\n# written by hand\n2 1 # size\n15\n15 0 5\n0 15 # trailing\n 10\n"

	img, err := DecodePPM(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodePPM: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 85, 255}) {
		t.Errorf("Expected first pixel scaled to (255,0,85), got %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{0, 255, 170, 255}) {
		t.Errorf("Expected second pixel scaled to (0,255,170), got %v", got)
	}
}

func TestDecodePPM_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"binary magic", "P6\n1 1\n255\n"},
		{"missing height", "P3\n1"},
		{"zero width", "P3\n0 1\n255\n"},
		{"max value too large", "P3\n1 1\n65535\n0 0 0\n"},
		{"truncated pixels", "P3\n2 1\n255\n1 2 3\n4 5\n"},
		{"channel out of range", "P3\n1 1\n255\n256 0 0\n"},
		{"not a number", "P3\n1 1\n255\nred 0 0\n"},
		{"overflowing size", "P3\n3037000500 3037000500\n255\n"},
		{"dimension too large", "P3\n70000 1\n255\n"},
		{"too many pixels", "P3\n65536 65536\n255\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePPM(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := DecodePPM(strings.NewReader("P6 1 1 255")); !errors.Is(err, ErrNotPPM) {
		t.Errorf("Expected ErrNotPPM, got %v", err)
	}
}

func TestImageDecode_RecognizesPPM(t *testing.T) {
	cfg, format, err := image.DecodeConfig(strings.NewReader("P3\n4 2\n255\n"))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "ppm" || cfg.Width != 4 || cfg.Height != 2 {
		t.Errorf("Unexpected config %q %+v", format, cfg)
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	ppmPath := filepath.Join(dir, "image.ppm")
	if err := os.WriteFile(ppmPath, []byte("P3\n1 1\n255\n10 20 30\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	pngPath := filepath.Join(dir, "image.png")
	if err := os.WriteFile(pngPath, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for _, path := range []string{ppmPath, pngPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			img, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage: %v", err)
			}
			got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
			if got != (color.RGBA{10, 20, 30, 255}) {
				t.Errorf("Expected (10,20,30), got %v", got)
			}
		})
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.ppm")); err == nil {
		t.Error("Expected error for missing file")
	}
}
