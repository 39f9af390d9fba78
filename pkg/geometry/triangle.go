package geometry

import "github.com/df07/go-stratified-raytracer/pkg/core"

// Triangle represents a single two-sided triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	normal     core.Vec3 // Unit normal, (V1-V0)×(V2-V0) normalized
}

// NewTriangle creates a new triangle. Collinear vertices are rejected with
// core.ErrDegenerateVector.
func NewTriangle(v0, v1, v2 core.Vec3) (*Triangle, error) {
	normal, err := v1.Subtract(v0).Cross(v2.Subtract(v0)).Unit()
	if err != nil {
		return nil, err
	}
	return &Triangle{V0: v0, V1: v1, V2: v2, normal: normal}, nil
}

// Normal returns the winding-order normal of the triangle
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
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

	root := f * edge2.Dot(q)
	if root <= tMin || root >= tMax {
		return nil, false
	}

	return &HitRecord{
		T:      root,
		Point:  ray.At(root),
		Normal: faceNormal(ray, t.normal),
	}, true
}

// faceNormal returns the side of a two-sided surface's normal facing the
// incoming ray, so a diffuse bounce always leaves on the side it arrived from
func faceNormal(ray core.Ray, normal core.Vec3) core.Vec3 {
	if ray.Direction.Dot(normal) > 0 {
		return normal.Negate()
	}
	return normal
}
