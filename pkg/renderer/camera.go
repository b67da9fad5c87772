package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

var (
	// ErrInvalidWidth is returned for a non-positive image width
	ErrInvalidWidth = errors.New("image width must be positive")
	// ErrInvalidAspectRatio is returned for a non-positive or non-finite aspect ratio
	ErrInvalidAspectRatio = errors.New("aspect ratio must be positive and finite")
)

const (
	focalLength    = 1.0
	viewportHeight = 2.0
)

// CameraConfig contains the inputs the camera geometry is derived from
type CameraConfig struct {
	AspectRatio float64 // Image width divided by image height
	Width       int     // Image width in pixels
}

// DefaultCameraConfig returns a 400 pixel wide 16:9 camera
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio: 16.0 / 9.0,
		Width:       400,
	}
}

// Camera generates rays for rendering. It sits at the origin looking down -Z,
// with image row 0 at the top. All fields are derived once in NewCamera.
type Camera struct {
	width       int
	height      int
	center      core.Vec3 // Camera center
	pixel00     core.Vec3 // Center of pixel (0, 0)
	pixelDeltaU core.Vec3 // Offset to the pixel on the right
	pixelDeltaV core.Vec3 // Offset to the pixel below
}

// NewCamera derives the viewport geometry from the config
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, config.Width)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidAspectRatio, config.AspectRatio)
	}

	width := config.Width
	height := max(1, int(float64(width)/config.AspectRatio))

	// Use the real width/height ratio, not the requested one, so pixels stay square
	viewportWidth := viewportHeight * (float64(width) / float64(height))
	center := core.NewVec3(0, 0, 0)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := core.NewVec3(viewportWidth, 0, 0)
	viewportV := core.NewVec3(0, -viewportHeight, 0)

	pixelDeltaU := viewportU.Divide(float64(width))
	pixelDeltaV := viewportV.Divide(float64(height))

	viewportUpperLeft := center.
		Subtract(core.NewVec3(0, 0, focalLength)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	return &Camera{
		width:       width,
		height:      height,
		center:      center,
		pixel00:     pixel00,
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
	}, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.height
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// PixelCenter returns the world-space center of pixel (i, j)
func (c *Camera) PixelCenter(i, j int) core.Vec3 {
	return c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i))).
		Add(c.pixelDeltaV.Multiply(float64(j)))
}

// GetRay returns a ray from the camera center through a random point inside pixel (i, j)
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := core.SampleSquare(sampler)
	pixelSample := c.PixelCenter(i, j).
		Add(c.pixelDeltaU.Multiply(offset.X)).
		Add(c.pixelDeltaV.Multiply(offset.Y))

	return core.NewRay(c.center, pixelSample.Subtract(c.center))
}
