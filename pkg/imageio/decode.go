package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	"io"
	"os"
	"strconv"
)

// ErrNotPPM is returned when the input does not start with a P3 header
var ErrNotPPM = errors.New("not a plain PPM (P3) image")

// Limits on decoded image size; larger headers are rejected before allocating
const (
	maxPPMDimension = 1 << 16
	maxPPMPixels    = 1 << 26
)

func init() {
	image.RegisterFormat("ppm", "P3", func(r io.Reader) (image.Image, error) {
		return DecodePPM(r)
	}, decodePPMConfig)
}

// ppmScanner reads whitespace separated tokens, skipping '#' comments
type ppmScanner struct {
	s *bufio.Scanner
}

func newPPMScanner(r io.Reader) *ppmScanner {
	s := bufio.NewScanner(r)
	s.Split(splitPPMTokens)
	return &ppmScanner{s: s}
}

func splitPPMTokens(data []byte, atEOF bool) (int, []byte, error) {
	i := 0
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			i++
		case '#':
			end := i
			for end < len(data) && data[end] != '\n' {
				end++
			}
			if end == len(data) && !atEOF {
				return i, nil, nil
			}
			i = end
		default:
			start := i
			for i < len(data) && !isPPMSpace(data[i]) && data[i] != '#' {
				i++
			}
			if i == len(data) && !atEOF {
				return start, nil, nil
			}
			return i, data[start:i], nil
		}
	}
	return i, nil, nil
}

func isPPMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func (p *ppmScanner) token() (string, error) {
	if !p.s.Scan() {
		if err := p.s.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return p.s.Text(), nil
}

func (p *ppmScanner) nextInt(what string) (int, error) {
	tok, err := p.token()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	return v, nil
}

// header reads the magic number, size and maximum channel value
func (p *ppmScanner) header() (width, height, maxVal int, err error) {
	magic, err := p.token()
	if err != nil || magic != "P3" {
		return 0, 0, 0, ErrNotPPM
	}
	if width, err = p.nextInt("width"); err != nil {
		return 0, 0, 0, err
	}
	if height, err = p.nextInt("height"); err != nil {
		return 0, 0, 0, err
	}
	if maxVal, err = p.nextInt("max value"); err != nil {
		return 0, 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if width > maxPPMDimension || height > maxPPMDimension || width > maxPPMPixels/height {
		return 0, 0, 0, fmt.Errorf("image size %dx%d exceeds the %d pixel limit", width, height, maxPPMPixels)
	}
	if maxVal <= 0 || maxVal > 255 {
		return 0, 0, 0, fmt.Errorf("unsupported max value %d", maxVal)
	}
	return width, height, maxVal, nil
}

func decodePPMConfig(r io.Reader) (image.Config, error) {
	width, height, _, err := newPPMScanner(r).header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: width, Height: height}, nil
}

// DecodePPM reads a plain-text PPM image. Channels are rescaled to 0-255
// when the header's maximum value is smaller.
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	p := newPPMScanner(r)
	width, height, maxVal, err := p.header()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]uint8
			for c := range rgb {
				v, err := p.nextInt(fmt.Sprintf("pixel (%d, %d)", x, y))
				if err != nil {
					return nil, err
				}
				if v < 0 || v > maxVal {
					return nil, fmt.Errorf("pixel (%d, %d): channel %d outside 0-%d", x, y, v, maxVal)
				}
				rgb[c] = uint8(v * 255 / maxVal)
			}
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}
	return img, nil
}

// LoadImage loads a PPM, PNG or JPEG file
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
