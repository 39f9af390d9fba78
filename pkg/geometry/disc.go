package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// Disc represents a two-sided circular disc
type Disc struct {
	Center core.Vec3
	Normal core.Vec3 // Unit normal of the disc's plane
	Radius float64
}

// NewDisc creates a new disc. The normal is normalized; a zero normal or a
// negative radius is an error.
func NewDisc(center, normal core.Vec3, radius float64) (*Disc, error) {
	if radius < 0 {
		return nil, fmt.Errorf("disc radius must not be negative, got %g", radius)
	}
	unit, err := normal.Unit()
	if err != nil {
		return nil, err
	}
	return &Disc{Center: center, Normal: unit, Radius: radius}, nil
}

// Hit tests if a ray intersects with the disc
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-8 {
		return nil, false // Ray is parallel to disc
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t <= tMin || t >= tMax {
		return nil, false
	}

	point := ray.At(t)
	if point.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}

	return &HitRecord{
		T:      t,
		Point:  point,
		Normal: faceNormal(ray, d.Normal),
	}, true
}
