package renderer

import (
	"image"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// Framebuffer holds linear colors in image row order, row 0 at the top
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the color at (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	fb.Pixels[y*fb.Width+x] = c
}

// Bounds returns the pixel rectangle covered by the framebuffer
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Crop copies the pixels inside bounds into a new framebuffer
func (fb *Framebuffer) Crop(bounds image.Rectangle) *Framebuffer {
	bounds = bounds.Intersect(fb.Bounds())
	cropped := NewFramebuffer(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := fb.Pixels[y*fb.Width+bounds.Min.X : y*fb.Width+bounds.Max.X]
		copy(cropped.Pixels[(y-bounds.Min.Y)*cropped.Width:], row)
	}
	return cropped
}

// AverageLuminance returns the mean linear luminance of all pixels
func (fb *Framebuffer) AverageLuminance() float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}
	var total float64
	for _, c := range fb.Pixels {
		total += c.Luminance()
	}
	return total / float64(len(fb.Pixels))
}
