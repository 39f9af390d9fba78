package scene

import (
	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

// NewDefaultScene creates the reference scene: a small sphere resting on a
// huge one that acts as the ground, seen by the canonical 200x100 camera
func NewDefaultScene() *Scene {
	camera := renderer.NewCamera(
		core.NewVec3(-2.0, -1.0, -1.0), // lower-left corner
		core.NewVec3(4.0, 0.0, 0.0),    // horizontal
		core.NewVec3(0.0, 2.0, 0.0),    // vertical
		core.NewVec3(0.0, 0.0, 0.0),    // origin
	)

	topColor, bottomColor := defaultBackground()
	s := &Scene{
		Name:           "default",
		Width:          200,
		Height:         100,
		Camera:         camera,
		TopColor:       topColor,
		BottomColor:    bottomColor,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100),
		},
	}

	s.Preprocess()
	return s
}
