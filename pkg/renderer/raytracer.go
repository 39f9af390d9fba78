package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/integrator"
)

// Pixel estimators. The zero value is stratified.
const (
	StrategyStratified = "stratified"
	StrategyUniform    = "uniform" // GridSize² samples drawn anywhere in the pixel, for comparison
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	GridSize int    `json:"gridSize"`           // Pixels are split into GridSize x GridSize strata, one sample each
	MaxDepth int    `json:"maxDepth"`           // Maximum ray bounce depth
	Strategy string `json:"strategy,omitempty"` // StrategyStratified (default) or StrategyUniform
}

// Validate reports a configuration the renderer cannot use
func (c SamplingConfig) Validate() error {
	if c.GridSize < 1 || c.MaxDepth < 1 {
		return fmt.Errorf("invalid sampling: grid %d, depth %d", c.GridSize, c.MaxDepth)
	}
	switch c.Strategy {
	case "", StrategyStratified, StrategyUniform:
		return nil
	default:
		return fmt.Errorf("unknown sampling strategy %q", c.Strategy)
	}
}

// DefaultSamplingConfig returns the reference values: a 5x5 grid and 50 bounces
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		GridSize: 5,
		MaxDepth: 50,
	}
}

// SamplesPerPixel returns the number of camera rays traced per pixel
func (c SamplingConfig) SamplesPerPixel() int {
	g := max(1, c.GridSize)
	return g * g
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Shape
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetSamplingConfig() SamplingConfig
}

// Raytracer computes pixel colors for a scene. It is safe for concurrent use
// as long as every goroutine passes its own sampler.
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	sampler    core.Sampler
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	rt := &Raytracer{
		scene:   scene,
		width:   width,
		height:  height,
		sampler: core.NewSeededSampler(42), // Deterministic for testing
	}
	rt.SetSamplingConfig(scene.GetSamplingConfig())
	return rt
}

// SetSamplingConfig updates the sampling configuration and rebuilds the integrator
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	if config.GridSize < 1 {
		config.GridSize = 1
	}
	rt.config = config

	integratorConfig := integrator.DefaultConfig()
	integratorConfig.MaxDepth = config.MaxDepth
	integratorConfig.TopColor, integratorConfig.BottomColor = rt.scene.GetBackgroundColors()
	rt.integrator = integrator.NewDiffuseIntegrator(integratorConfig)
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// PixelColor estimates the linear color of pixel (i, j), with j = 0 the bottom row.
// The pixel covers [i-0.5, i+0.5) x [j-0.5, j+0.5); each of the GridSize² strata
// gets one jittered sample and the result is their mean. StrategyUniform draws
// the same number of samples anywhere in the pixel instead.
func (rt *Raytracer) PixelColor(i, j int, sampler core.Sampler) core.Vec3 {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	grid := rt.config.GridSize
	step := 1.0 / float64(grid)
	lowI := float64(i) - 0.5
	lowJ := float64(j) - 0.5

	colorAccum := core.Vec3{}
	if rt.config.Strategy == StrategyUniform {
		for n := 0; n < grid*grid; n++ {
			u := (lowI + sampler.Get1D()) / float64(rt.width)
			v := (lowJ + sampler.Get1D()) / float64(rt.height)
			colorAccum = colorAccum.Add(rt.integrator.RayColor(camera.GetRay(u, v), world, sampler))
		}
		return colorAccum.Multiply(1.0 / float64(grid*grid))
	}

	for jj := 0; jj < grid; jj++ {
		for ii := 0; ii < grid; ii++ {
			u := (lowI + float64(ii)*step + sampler.Get1D()*step) / float64(rt.width)
			v := (lowJ + float64(jj)*step + sampler.Get1D()*step) / float64(rt.height)

			ray := camera.GetRay(u, v)
			colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, world, sampler))
		}
	}

	return colorAccum.Multiply(1.0 / float64(grid*grid))
}

// RenderBounds renders the pixels inside bounds, given in image coordinates
// (row 0 at the top), into fb.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *Framebuffer, sampler core.Sampler) RenderStats {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		// Image rows run top-down, camera rows bottom-up
		j := rt.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fb.Set(x, y, rt.PixelColor(x, j, sampler))
		}
	}

	pixels := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:     pixels,
		TotalSamples:    pixels * rt.config.SamplesPerPixel(),
		SamplesPerPixel: rt.config.SamplesPerPixel(),
	}
}

// RenderPass renders the whole image on the calling goroutine
func (rt *Raytracer) RenderPass() (*Framebuffer, RenderStats) {
	fb := NewFramebuffer(rt.width, rt.height)
	stats := rt.RenderBounds(image.Rect(0, 0, rt.width, rt.height), fb, rt.sampler)
	return fb, stats
}
