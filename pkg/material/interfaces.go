package material

import (
	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
)

// Material interface for surfaces that scatter rays
type Material interface {
	// Scatter generates a bounce ray leaving the hit point. It returns false
	// when no ray leaves the surface, in which case the path contributes black.
	Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Incoming    core.Ray  // The incoming ray
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation applied to the scattered contribution
}
