package material

import (
	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
)

// DefaultAlbedo halves the contribution of every diffuse bounce
var DefaultAlbedo = core.NewVec3(0.5, 0.5, 0.5)

// minDirectionLengthSquared below which a scattered direction is treated as degenerate
const minDirectionLengthSquared = 1e-16

// Lambertian represents a diffuse material. It bounces towards a random
// point in the unit sphere sitting on the surface normal.
type Lambertian struct {
	Albedo core.Vec3 // Fraction of light reflected per bounce
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// NewDefaultLambertian creates a grey lambertian with DefaultAlbedo
func NewDefaultLambertian() *Lambertian {
	return NewLambertian(DefaultAlbedo)
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// target = p + n + random point in unit sphere, so direction = n + random
	target := hit.Point.Add(hit.Normal).Add(core.SamplePointInUnitSphere(sampler))
	direction := target.Subtract(hit.Point)

	// The random offset cancelled the normal
	if direction.LengthSquared() < minDirectionLengthSquared {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo,
	}, true
}
