package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

// ErrInvalidNormal is returned when a plane is built with a zero-length normal
var ErrInvalidNormal = errors.New("plane normal must be non-zero")

// parallelEpsilon is the smallest |D·N| still treated as crossing the plane
const parallelEpsilon = 1e-8

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal vector
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) (*Plane, error) {
	if normal.LengthSquared() == 0 {
		return nil, ErrInvalidNormal
	}
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(),
	}, nil
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !rayT.Surrounds(t) {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:     t,
		Point: ray.At(t),
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}
