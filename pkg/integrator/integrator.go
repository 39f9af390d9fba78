package integrator

import (
	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use as long as every goroutine
// passes its own sampler.
type Integrator interface {
	// RayColor computes the linear color carried back along ray from world
	RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3
}
