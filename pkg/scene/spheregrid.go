package scene

import (
	"fmt"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

// NewSphereGridScene creates a scene with a grid of spheres resting on a ground plane
func NewSphereGridScene() (*Scene, error) {
	width, height := 400, 200

	cameraConfig := renderer.CameraConfig{
		Center:      core.NewVec3(0, 3, 8),   // Above and in front of the grid
		LookAt:      core.NewVec3(0, 0.3, 0), // Grid center, slightly raised
		Up:          core.NewVec3(0, 1, 0),   // Standard up direction
		VFov:        40.0,                    // Narrow enough to fill the frame with the grid
		AspectRatio: float64(width) / float64(height),
	}
	camera, err := renderer.NewLookAtCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("sphere grid camera: %w", err)
	}

	ground, err := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("sphere grid ground: %w", err)
	}

	topColor, bottomColor := defaultBackground()
	s := &Scene{
		Name:        "sphere-grid",
		Width:       width,
		Height:      height,
		Camera:      camera,
		TopColor:    topColor,
		BottomColor: bottomColor,
		SamplingConfig: renderer.SamplingConfig{
			GridSize: 4,
			MaxDepth: 30, // Spheres sit on the plane, so some paths bounce for a while
		},
		Shapes: []geometry.Shape{ground},
	}

	// Spacing and radius chosen so neighbouring spheres almost touch
	gridSize := 5
	spacing := 1.0
	sphereRadius := spacing * 0.4
	offset := spacing * float64(gridSize-1) / 2

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			// Sphere sits on the ground plane
			center := core.NewVec3(float64(i)*spacing-offset, sphereRadius, float64(j)*spacing-offset)
			s.Shapes = append(s.Shapes, geometry.NewSphere(center, sphereRadius))
		}
	}

	s.Preprocess()
	return s, nil
}
