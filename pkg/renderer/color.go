package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// intensity is the displayable range of a linear color channel
var intensity = core.NewInterval(0.0, 1.0)

// LinearToGamma applies the gamma 2 transform. Non-positive values map to 0.
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// quantizeChannel clamps, gamma-corrects and scales one channel to [0, 255].
// 255.999 keeps an input of exactly 1.0 from rounding up to 256.
func quantizeChannel(linear float64) uint8 {
	return uint8(255.999 * LinearToGamma(intensity.Clamp(linear)))
}

// QuantizeColor converts a linear Vec3 color to an opaque 8-bit RGBA color
func QuantizeColor(colorVec core.Vec3) color.RGBA {
	return color.RGBA{
		R: quantizeChannel(colorVec.X),
		G: quantizeChannel(colorVec.Y),
		B: quantizeChannel(colorVec.Z),
		A: 255,
	}
}
