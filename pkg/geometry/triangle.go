package geometry

import (
	"errors"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// ErrDegenerateTriangle is returned when the three vertices are collinear
var ErrDegenerateTriangle = errors.New("triangle vertices must not be collinear")

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices, counter-clockwise seen from the front
	normal     core.Vec3 // Cached normal vector
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) (*Triangle, error) {
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	if cross.LengthSquared() == 0 {
		return nil, ErrDegenerateTriangle
	}
	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		normal: cross.Normalize(),
	}, nil
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return nil, false
	}

	tParam := f * edge2.Dot(q)
	if !rayT.Surrounds(tParam) {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:     tParam,
		Point: ray.At(tParam),
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	return hitRecord, true
}
