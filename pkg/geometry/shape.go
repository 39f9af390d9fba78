package geometry

import "github.com/df07/go-stratified-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection.
// A record is owned by the caller that received it.
type HitRecord struct {
	T      float64   // Parameter t along the ray, strictly inside (tMin, tMax)
	Point  core.Vec3 // Point of intersection, equal to ray.At(T)
	Normal core.Vec3 // Unit outward surface normal at Point
}

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection with t in the open interval (tMin, tMax).
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
}
