package geometry

import "github.com/df07/go-ppm-raytracer/pkg/core"

// ShapeList is an ordered collection of shapes that is itself a shape.
// Members are shared handles: the list may be read by many render workers
// at once as long as nobody calls Add or Clear during the render.
type ShapeList struct {
	shapes []core.Shape
}

// NewShapeList creates a list holding the given shapes in order
func NewShapeList(shapes ...core.Shape) *ShapeList {
	list := &ShapeList{}
	for _, shape := range shapes {
		list.Add(shape)
	}
	return list
}

// Add appends a shape to the list
func (l *ShapeList) Add(shape core.Shape) {
	l.shapes = append(l.shapes, shape)
}

// Clear removes all shapes
func (l *ShapeList) Clear() {
	l.shapes = nil
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.shapes)
}

// Shapes returns a copy of the member slice
func (l *ShapeList) Shapes() []core.Shape {
	return append([]core.Shape(nil), l.shapes...)
}

// Hit returns the closest hit among all members. Each member is queried with
// the upper bound shrunk to the nearest hit found so far, so on equal t the
// earlier member wins.
func (l *ShapeList) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := rayT.Max

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
