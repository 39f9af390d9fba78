package scene

import (
	"errors"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene or file
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Width, Height  int // Image size the camera was set up for
	Camera         *renderer.Camera
	Shapes         []geometry.Shape // Objects in the scene
	TopColor       core.Vec3        // Background color looking straight up
	BottomColor    core.Vec3        // Background color looking straight down
	SamplingConfig renderer.SamplingConfig

	world *geometry.ShapeList // Aggregate built by Preprocess
}

// Preprocess prepares the scene for rendering by collecting the shapes into
// the list every ray is intersected against
func (s *Scene) Preprocess() {
	s.world = geometry.NewShapeList(s.Shapes...)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetWorld returns the aggregate of all shapes
func (s *Scene) GetWorld() geometry.Shape {
	if s.world == nil {
		return geometry.NewShapeList(s.Shapes...)
	}
	return s.world
}

// GetBackgroundColors returns the sky gradient endpoints
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetSamplingConfig returns the sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// defaultBackground returns the white to sky-blue gradient shared by the built-in scenes
func defaultBackground() (topColor, bottomColor core.Vec3) {
	return core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)
}
