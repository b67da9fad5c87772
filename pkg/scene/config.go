package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/geometry"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// ErrInvalidScene is returned when a scene file parses but describes an unusable scene
var ErrInvalidScene = errors.New("invalid scene")

// Config is the JSON form of a scene. Omitted numeric fields take the
// renderer defaults.
type Config struct {
	Name            string        `json:"name,omitempty"`
	AspectRatio     float64       `json:"aspectRatio,omitempty"`
	Width           int           `json:"width,omitempty"`
	SamplesPerPixel int           `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int          `json:"maxDepth,omitempty"` // 0 is meaningful, so nil means default
	Seed            *int64        `json:"seed,omitempty"`
	Spheres         []SphereCfg   `json:"spheres,omitempty"`
	Planes          []PlaneCfg    `json:"planes,omitempty"`
	Triangles       []TriangleCfg `json:"triangles,omitempty"`
}

// SphereCfg is a sphere given by center and radius
type SphereCfg struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// PlaneCfg is an infinite plane through Point; Normal need not be unit length
type PlaneCfg struct {
	Point  [3]float64 `json:"point"`
	Normal [3]float64 `json:"normal"`
}

// TriangleCfg is a triangle given by its three vertices
type TriangleCfg struct {
	Vertices [3][3]float64 `json:"vertices"`
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// Load reads a JSON scene file
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON scene and validates it. Unknown fields are rejected.
func Parse(r io.Reader) (*Scene, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return cfg.Build()
}

// Build turns the config into a scene, filling defaults and validating
// every shape, the camera and the sampling settings
func (cfg Config) Build() (*Scene, error) {
	s := &Scene{
		Name:     cfg.Name,
		World:    geometry.NewShapeList(),
		Camera:   renderer.DefaultCameraConfig(),
		Sampling: renderer.DefaultSamplingConfig(),
	}
	if s.Name == "" {
		s.Name = "custom"
	}

	if cfg.AspectRatio != 0 {
		s.Camera.AspectRatio = cfg.AspectRatio
	}
	if cfg.Width != 0 {
		s.Camera.Width = cfg.Width
	}
	if cfg.SamplesPerPixel != 0 {
		s.Sampling.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth != nil {
		s.Sampling.MaxDepth = *cfg.MaxDepth
	}
	if cfg.Seed != nil {
		s.Sampling.Seed = *cfg.Seed
	}

	for i, sc := range cfg.Spheres {
		sphere, err := geometry.NewSphere(vec(sc.Center), sc.Radius)
		if err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %w", ErrInvalidScene, i, err)
		}
		s.World.Add(sphere)
	}
	for i, pc := range cfg.Planes {
		plane, err := geometry.NewPlane(vec(pc.Point), vec(pc.Normal))
		if err != nil {
			return nil, fmt.Errorf("%w: plane %d: %w", ErrInvalidScene, i, err)
		}
		s.World.Add(plane)
	}
	for i, tc := range cfg.Triangles {
		tri, err := geometry.NewTriangle(vec(tc.Vertices[0]), vec(tc.Vertices[1]), vec(tc.Vertices[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: triangle %d: %w", ErrInvalidScene, i, err)
		}
		s.World.Add(tri)
	}

	if _, err := renderer.NewCamera(s.Camera); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if err := s.Sampling.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	return s, nil
}
