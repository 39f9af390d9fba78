package integrator

import (
	"math"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/material"
)

// Config holds the parameters of the diffuse integrator
type Config struct {
	MaxDepth    int               // Maximum number of surface hits per path; black past it
	TMin        float64           // Lower intersection bound, keeps bounces off the surface they left
	TMax        float64           // Upper intersection bound
	BottomColor core.Vec3         // Background color looking straight down
	TopColor    core.Vec3         // Background color looking straight up
	Material    material.Material // Material applied to every surface
}

// DefaultConfig returns the reference settings: 50 bounces, a white to sky-blue
// background and a grey lambertian with albedo 0.5.
func DefaultConfig() Config {
	return Config{
		MaxDepth:    50,
		TMin:        0.001,
		TMax:        math.Inf(1),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		Material:    material.NewDefaultLambertian(),
	}
}

// DiffuseIntegrator traces diffuse bounces until a ray escapes to the background
type DiffuseIntegrator struct {
	config Config
}

// NewDiffuseIntegrator creates a new diffuse integrator. A nil material falls
// back to the default lambertian.
func NewDiffuseIntegrator(config Config) *DiffuseIntegrator {
	if config.Material == nil {
		config.Material = material.NewDefaultLambertian()
	}
	return &DiffuseIntegrator{config: config}
}

// Config returns the integrator settings
func (d *DiffuseIntegrator) Config() Config {
	return d.config
}

// RayColor implements the Integrator interface
func (d *DiffuseIntegrator) RayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	return d.rayColor(ray, world, sampler, d.config.MaxDepth)
}

func (d *DiffuseIntegrator) rayColor(ray core.Ray, world geometry.Shape, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, d.config.TMin, d.config.TMax)
	if !isHit {
		return d.Background(ray)
	}

	scatter, didScatter := d.config.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(d.rayColor(scatter.Scattered, world, sampler, depth-1))
}

// Background returns the sky color seen along ray
func (d *DiffuseIntegrator) Background(ray core.Ray) core.Vec3 {
	return BackgroundGradient(ray.Direction, d.config.BottomColor, d.config.TopColor)
}

// BackgroundGradient blends bottom into top by the height of the unit direction:
// t = 0.5*(y+1). A zero direction sees nothing and returns black.
func BackgroundGradient(direction, bottom, top core.Vec3) core.Vec3 {
	unitDirection, err := direction.Unit()
	if err != nil {
		return core.Vec3{}
	}
	t := 0.5 * (unitDirection.Y + 1.0)
	return bottom.Lerp(top, t)
}
