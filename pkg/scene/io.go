package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/geometry"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

// Vec is a JSON triple, written as [x, y, z]
type Vec [3]float64

func (v Vec) toVec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Description is the JSON form of a scene
type Description struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Group       string                   `json:"group,omitempty"`
	Width       int                      `json:"width"`
	Height      int                      `json:"height"`
	Camera      CameraDescription        `json:"camera"`
	Background  *BackgroundDescription   `json:"background,omitempty"`
	Sampling    *renderer.SamplingConfig `json:"sampling,omitempty"`
	Spheres     []SphereDescription      `json:"spheres,omitempty"`
	Planes      []PlaneDescription       `json:"planes,omitempty"`
	Triangles   []TriangleDescription    `json:"triangles,omitempty"`
	Discs       []DiscDescription        `json:"discs,omitempty"`
}

// CameraDescription holds either the four view plane vectors or a look-at setup.
// The view plane form wins when LowerLeft is set.
type CameraDescription struct {
	LowerLeft  *Vec `json:"lowerLeft,omitempty"`
	Horizontal *Vec `json:"horizontal,omitempty"`
	Vertical   *Vec `json:"vertical,omitempty"`
	Origin     *Vec `json:"origin,omitempty"`

	LookFrom *Vec    `json:"lookFrom,omitempty"`
	LookAt   *Vec    `json:"lookAt,omitempty"`
	Up       *Vec    `json:"up,omitempty"`
	VFov     float64 `json:"vfov,omitempty"`
}

// BackgroundDescription holds the sky gradient endpoints
type BackgroundDescription struct {
	Top    Vec `json:"top"`
	Bottom Vec `json:"bottom"`
}

// SphereDescription is a sphere in a scene file
type SphereDescription struct {
	Center Vec     `json:"center"`
	Radius float64 `json:"radius"`
}

// PlaneDescription is an infinite plane in a scene file
type PlaneDescription struct {
	Point  Vec `json:"point"`
	Normal Vec `json:"normal"`
}

// TriangleDescription is a two-sided triangle in a scene file
type TriangleDescription struct {
	Vertices [3]Vec `json:"vertices"`
}

// DiscDescription is a two-sided disc in a scene file
type DiscDescription struct {
	Center Vec     `json:"center"`
	Normal Vec     `json:"normal"`
	Radius float64 `json:"radius"`
}

// LoadScene reads a JSON scene file and builds the scene
func LoadScene(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := ParseDescription(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc.Build()
}

// SaveScene writes a scene description as indented JSON
func SaveScene(path string, desc Description) error {
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// ParseDescription decodes a scene description, rejecting unknown fields
func ParseDescription(r io.Reader) (Description, error) {
	var desc Description
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&desc); err != nil {
		return Description{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	return desc, nil
}

// Build validates the description and constructs the scene
func (d Description) Build() (*Scene, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", d.Width, d.Height)
	}

	camera, err := d.Camera.build(float64(d.Width) / float64(d.Height))
	if err != nil {
		return nil, err
	}

	topColor, bottomColor := defaultBackground()
	if d.Background != nil {
		topColor, bottomColor = d.Background.Top.toVec3(), d.Background.Bottom.toVec3()
	}

	sampling := renderer.DefaultSamplingConfig()
	if d.Sampling != nil {
		sampling = *d.Sampling
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		Name:           d.Name,
		Width:          d.Width,
		Height:         d.Height,
		Camera:         camera,
		TopColor:       topColor,
		BottomColor:    bottomColor,
		SamplingConfig: sampling,
	}

	for i, sphere := range d.Spheres {
		// A zero radius is legal and simply never hit
		if sphere.Radius < 0 {
			return nil, fmt.Errorf("sphere %d: negative radius %g", i, sphere.Radius)
		}
		s.Shapes = append(s.Shapes, geometry.NewSphere(sphere.Center.toVec3(), sphere.Radius))
	}
	for i, plane := range d.Planes {
		p, err := geometry.NewPlane(plane.Point.toVec3(), plane.Normal.toVec3())
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, p)
	}
	for i, triangle := range d.Triangles {
		v := triangle.Vertices
		tri, err := geometry.NewTriangle(v[0].toVec3(), v[1].toVec3(), v[2].toVec3())
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, tri)
	}
	for i, disc := range d.Discs {
		dsc, err := geometry.NewDisc(disc.Center.toVec3(), disc.Normal.toVec3(), disc.Radius)
		if err != nil {
			return nil, fmt.Errorf("disc %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, dsc)
	}

	s.Preprocess()
	return s, nil
}

func (c CameraDescription) build(aspectRatio float64) (*renderer.Camera, error) {
	if c.LowerLeft != nil {
		if c.Horizontal == nil || c.Vertical == nil {
			return nil, fmt.Errorf("camera: lowerLeft requires horizontal and vertical")
		}
		origin := core.Vec3{}
		if c.Origin != nil {
			origin = c.Origin.toVec3()
		}
		return renderer.NewCamera(c.LowerLeft.toVec3(), c.Horizontal.toVec3(), c.Vertical.toVec3(), origin), nil
	}

	config := renderer.DefaultCameraConfig()
	config.AspectRatio = aspectRatio
	if c.LookFrom != nil {
		config.Center = c.LookFrom.toVec3()
	}
	if c.LookAt != nil {
		config.LookAt = c.LookAt.toVec3()
	}
	if c.Up != nil {
		config.Up = c.Up.toVec3()
	}
	if c.VFov != 0 {
		config.VFov = c.VFov
	}

	camera, err := renderer.NewLookAtCamera(config)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	return camera, nil
}

// DefaultDescription describes the scene built by NewDefaultScene
func DefaultDescription() Description {
	sampling := renderer.DefaultSamplingConfig()
	return Description{
		Name:        "default",
		Description: "Small sphere on a large ground sphere",
		Width:       200,
		Height:      100,
		Camera: CameraDescription{
			LowerLeft:  &Vec{-2, -1, -1},
			Horizontal: &Vec{4, 0, 0},
			Vertical:   &Vec{0, 2, 0},
			Origin:     &Vec{0, 0, 0},
		},
		Background: &BackgroundDescription{Top: Vec{0.5, 0.7, 1.0}, Bottom: Vec{1, 1, 1}},
		Sampling:   &sampling,
		Spheres: []SphereDescription{
			{Center: Vec{0, 0, -1}, Radius: 0.5},
			{Center: Vec{0, -100.5, -1}, Radius: 100},
		},
	}
}
