package geometry

import "github.com/df07/go-stratified-raytracer/pkg/core"

// ShapeList is an ordered collection of shapes that is hit like a single shape.
// Intersection is a linear scan; the nearest hit across all shapes wins.
type ShapeList struct {
	shapes []Shape
}

// NewShapeList creates a list that owns the given shapes
func NewShapeList(shapes ...Shape) *ShapeList {
	owned := make([]Shape, len(shapes))
	copy(owned, shapes)
	return &ShapeList{shapes: owned}
}

// Len returns the number of shapes in the list
func (l *ShapeList) Len() int {
	return len(l.shapes)
}

// Shapes returns a copy of the shapes in iteration order
func (l *ShapeList) Shapes() []Shape {
	shapes := make([]Shape, len(l.shapes))
	copy(shapes, l.shapes)
	return shapes
}

// Hit returns the nearest intersection among all shapes.
// Each shape is asked only about hits closer than the best found so far.
func (l *ShapeList) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := tMax

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
