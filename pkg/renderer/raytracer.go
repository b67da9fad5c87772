package renderer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

const (
	// DiffuseReflectance is the fraction of light kept at every diffuse bounce
	DiffuseReflectance = 0.9

	// shadowAcneEpsilon skips hits at the origin of a bounced ray
	shadowAcneEpsilon = 0.001
)

var (
	skyTopColor    = core.NewVec3(0.5, 0.7, 1.0)
	skyBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// ErrInvalidSamplingConfig is returned by SamplingConfig.Validate
var ErrInvalidSamplingConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; row j draws from its own stream seeded Seed+j
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate checks the sampling config before any rendering starts
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel must be at least 1, got %d", ErrInvalidSamplingConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidSamplingConfig, c.MaxDepth)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidSamplingConfig, c.NumWorkers)
	}
	return nil
}

// ImageWriter receives quantized pixels in row-major order, top row first
type ImageWriter interface {
	Begin(width, height int) error
	WritePixel(c color.RGBA) error
	Finish() error
}

// Raytracer handles the rendering process. The world is only read during a
// render, so one Raytracer can serve many workers at once.
type Raytracer struct {
	camera *Camera
	world  core.Shape
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(camera *Camera, world core.Shape, config SamplingConfig, logger core.Logger) (*Raytracer, error) {
	if camera == nil {
		return nil, errors.New("raytracer needs a camera")
	}
	if world == nil {
		return nil, errors.New("raytracer needs a world")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Raytracer{
		camera: camera,
		world:  world,
		config: config,
		logger: logger,
	}, nil
}

// Camera returns the camera this raytracer renders through
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// backgroundGradient returns the sky color seen along a ray that hits nothing
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-a)*bottom + a*top
	return skyBottomColor.Multiply(1.0 - a).Add(skyTopColor.Multiply(a))
}

// rayColor returns the color seen along r with depth bounces left
func (rt *Raytracer) rayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := rt.world.Hit(r, core.NewInterval(shadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return rt.backgroundGradient(r)
	}

	scattered := scatterDiffuse(hit, sampler)
	return rt.rayColor(scattered, depth-1, sampler).Multiply(DiffuseReflectance)
}

// scatterDiffuse bounces a ray off a hit point in a Lambertian-distributed direction
func scatterDiffuse(hit *core.HitRecord, sampler core.Sampler) core.Ray {
	direction := hit.Normal.Add(core.RandomUnitVector(sampler))
	return core.NewRay(hit.Point, direction)
}

// SamplePixel traces SamplesPerPixel jittered rays through pixel (i, j)
// and returns the accumulated statistics
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) PixelStats {
	var ps PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		ray := rt.camera.GetRay(i, j, sampler)
		ps.AddSample(rt.rayColor(ray, rt.config.MaxDepth, sampler))
	}
	return ps
}

// rowSampler returns the random stream owned by image row j
func (rt *Raytracer) rowSampler(j int) core.Sampler {
	return core.NewSeededSampler(rt.config.Seed + int64(j))
}

// RenderRow renders image row j and returns its quantized pixels, left to
// right, with the sum of their luminance variances.
// The result depends only on the config seed and j.
func (rt *Raytracer) RenderRow(j int) ([]color.RGBA, float64) {
	sampler := rt.rowSampler(j)
	pixels := make([]color.RGBA, rt.camera.Width())
	varianceSum := 0.0
	for i := range pixels {
		ps := rt.SamplePixel(i, j, sampler)
		pixels[i] = QuantizeColor(ps.GetColor())
		varianceSum += ps.LuminanceVariance()
	}
	return pixels, varianceSum
}

// Render renders every row on the worker pool and writes the pixels to out
// top to bottom, regardless of the order in which rows finish.
func (rt *Raytracer) Render(ctx context.Context, out ImageWriter) (RenderStats, error) {
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	width, height := rt.camera.Width(), rt.camera.Height()
	renderID := uuid.New().String()

	ctx, cancel := context.WithCancel(ctx)
	pool := NewWorkerPool(ctx, rt, rt.config.NumWorkers, height)
	pool.Start()
	defer pool.Stop()
	defer cancel()

	rt.logger.Printf("Render %s: %dx%d, %d samples/pixel, max depth %d, %d workers\n",
		renderID, width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	startTime := time.Now()
	if err := out.Begin(width, height); err != nil {
		return RenderStats{}, fmt.Errorf("writing image header: %w", err)
	}

	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j})
	}

	// Rows may finish in any order; hold them until every row above is written
	pending := make(map[int][]color.RGBA)
	varianceSum := 0.0
	next := 0
	for next < height {
		result, ok := pool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return RenderStats{}, result.Error
		}
		pending[result.Row] = result.Pixels
		varianceSum += result.LuminanceVariance

		for pixels, ready := pending[next]; ready; pixels, ready = pending[next] {
			for _, pixel := range pixels {
				if err := out.WritePixel(pixel); err != nil {
					return RenderStats{}, fmt.Errorf("writing row %d: %w", next, err)
				}
			}
			delete(pending, next)
			next++
			rt.logger.Printf("\rScanlines remaining: %d ", height-next)
		}
	}

	if err := out.Finish(); err != nil {
		return RenderStats{}, fmt.Errorf("finishing image: %w", err)
	}

	totalPixels := width * height
	stats := RenderStats{
		RenderID:       renderID,
		TotalPixels:    totalPixels,
		TotalSamples:   totalPixels * rt.config.SamplesPerPixel,
		AverageSamples: float64(rt.config.SamplesPerPixel),
		NumWorkers:     pool.GetNumWorkers(),
		RenderTime:     time.Since(startTime),

		MeanLuminanceVariance: varianceSum / float64(totalPixels),
	}
	rt.logger.Printf("\rDone.                      \n")
	rt.logger.Printf("Render %s completed in %v (mean luminance variance %.4f)\n",
		renderID, stats.RenderTime, stats.MeanLuminanceVariance)

	return stats, nil
}
