package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// Camera generates rays through a view plane spanned from its lower-left corner.
// u runs left to right and v bottom to top, both in [0, 1].
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from its view plane vectors
func NewCamera(lowerLeftCorner, horizontal, vertical, origin core.Vec3) *Camera {
	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
	}
}

// CameraConfig describes a camera by position and field of view
type CameraConfig struct {
	Center      core.Vec3 `json:"center"`      // Eye position
	LookAt      core.Vec3 `json:"lookAt"`      // Point the camera looks at
	Up          core.Vec3 `json:"up"`          // Approximate up direction
	VFov        float64   `json:"vfov"`        // Vertical field of view in degrees
	AspectRatio float64   `json:"aspectRatio"` // Width / height
}

// DefaultCameraConfig returns the configuration equivalent to the canonical
// camera: corner (-2,-1,-1), spans (4,0,0) and (0,2,0), eye at the origin.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90.0,
		AspectRatio: 2.0,
	}
}

// NewLookAtCamera derives the view plane one unit in front of the eye
func NewLookAtCamera(config CameraConfig) (*Camera, error) {
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("invalid vertical field of view %g", config.VFov)
	}
	if config.AspectRatio <= 0 {
		return nil, fmt.Errorf("invalid aspect ratio %g", config.AspectRatio)
	}

	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points backwards, u right, v up
	w, err := config.Center.Subtract(config.LookAt).Unit()
	if err != nil {
		return nil, fmt.Errorf("camera looks at its own position: %w", err)
	}
	u, err := config.Up.Cross(w).Unit()
	if err != nil {
		return nil, fmt.Errorf("up vector parallel to view direction: %w", err)
	}
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return NewCamera(lowerLeftCorner, horizontal, vertical, config.Center), nil
}

// GetRay generates a ray for viewport coordinates (u, v) where 0 <= u,v <= 1
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 { return c.origin }

// LowerLeftCorner returns the lower-left corner of the view plane
func (c *Camera) LowerLeftCorner() core.Vec3 { return c.lowerLeftCorner }

// Horizontal returns the horizontal span of the view plane
func (c *Camera) Horizontal() core.Vec3 { return c.horizontal }

// Vertical returns the vertical span of the view plane
func (c *Camera) Vertical() core.Vec3 { return c.vertical }
