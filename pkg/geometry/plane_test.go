package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-ppm-raytracer/pkg/core"
)

func mustPlane(t *testing.T, point, normal core.Vec3) *Plane {
	t.Helper()
	plane, err := NewPlane(point, normal)
	if err != nil {
		t.Fatalf("NewPlane(%v, %v): %v", point, normal, err)
	}
	return plane
}

func TestNewPlane_ZeroNormal(t *testing.T) {
	_, err := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0))
	if !errors.Is(err, ErrInvalidNormal) {
		t.Errorf("Expected ErrInvalidNormal, got %v", err)
	}
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0))
	if plane.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected unit normal (0,1,0), got %v", plane.Normal)
	}
}

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Create a horizontal plane at y=0
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray, defaultRange)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 1.0
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
	}

	expectedPoint := core.NewVec3(0, 0, 0)
	tolerance := 1e-9
	if math.Abs(hit.Point.X-expectedPoint.X) > tolerance ||
		math.Abs(hit.Point.Y-expectedPoint.Y) > tolerance ||
		math.Abs(hit.Point.Z-expectedPoint.Z) > tolerance {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestPlane_Hit_Misses(t *testing.T) {
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name string
		ray  core.Ray
		rayT core.Interval
	}{
		{"parallel ray", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)), defaultRange},
		{"intersection behind ray", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), defaultRange},
		{"intersection on upper bound", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), core.NewInterval(0, 1)},
		{"empty interval", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), core.EmptyInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(tt.ray, tt.rayT)
			if isHit {
				t.Errorf("Expected miss, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestPlane_Hit_FaceNormal(t *testing.T) {
	// Create a horizontal plane at y=0
	plane := mustPlane(t, core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit (from above)",
			rayOrigin:      core.NewVec3(0, 1, 0),
			rayDirection:   core.NewVec3(0, -1, 0),
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:           "back face hit (from below)",
			rayOrigin:      core.NewVec3(0, -1, 0),
			rayDirection:   core.NewVec3(0, 1, 0),
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := plane.Hit(ray, defaultRange)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if math.Abs(hit.Normal.X-tt.expectedNormal.X) > tolerance ||
				math.Abs(hit.Normal.Y-tt.expectedNormal.Y) > tolerance ||
				math.Abs(hit.Normal.Z-tt.expectedNormal.Z) > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}
