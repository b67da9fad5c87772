// Package scene describes what gets rendered: the world, the camera and the
// sampling settings, either built in or loaded from a JSON file.
package scene

import (
	"github.com/df07/go-ppm-raytracer/pkg/core"
	"github.com/df07/go-ppm-raytracer/pkg/geometry"
	"github.com/df07/go-ppm-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name     string
	World    *geometry.ShapeList
	Camera   renderer.CameraConfig
	Sampling renderer.SamplingConfig
}

// NewRaytracer builds the camera and a raytracer for this scene
func (s *Scene) NewRaytracer(logger core.Logger) (*renderer.Raytracer, error) {
	camera, err := renderer.NewCamera(s.Camera)
	if err != nil {
		return nil, err
	}
	return renderer.NewRaytracer(camera, s.World, s.Sampling, logger)
}

// NewDefaultScene creates the default scene: a small sphere resting on a
// very large one that acts as the ground
func NewDefaultScene() *Scene {
	return &Scene{
		Name: "default",
		World: geometry.NewShapeList(
			&geometry.Sphere{Center: core.NewVec3(0, 0, -1), Radius: 0.5},
			&geometry.Sphere{Center: core.NewVec3(0, -100.5, -1), Radius: 100},
		),
		Camera:   renderer.DefaultCameraConfig(),
		Sampling: renderer.DefaultSamplingConfig(),
	}
}

// NewSingleSphereScene creates a scene with one sphere floating in the sky
func NewSingleSphereScene() *Scene {
	return &Scene{
		Name: "sphere",
		World: geometry.NewShapeList(
			&geometry.Sphere{Center: core.NewVec3(0, 0, -1), Radius: 0.5},
		),
		Camera:   renderer.DefaultCameraConfig(),
		Sampling: renderer.DefaultSamplingConfig(),
	}
}

// NewPlaneScene creates a sphere above an infinite ground plane
func NewPlaneScene() *Scene {
	return &Scene{
		Name: "plane",
		World: geometry.NewShapeList(
			&geometry.Sphere{Center: core.NewVec3(0, 0, -1), Radius: 0.5},
			&geometry.Plane{Point: core.NewVec3(0, -0.5, 0), Normal: core.NewVec3(0, 1, 0)},
		),
		Camera:   renderer.DefaultCameraConfig(),
		Sampling: renderer.DefaultSamplingConfig(),
	}
}
