package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

func TestFramebuffer_SetAt(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Set(2, 1, core.NewVec3(1, 2, 3))

	if fb.At(2, 1) != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected stored color, got %v", fb.At(2, 1))
	}
	if fb.Pixels[5] != core.NewVec3(1, 2, 3) {
		t.Error("Pixels should be stored row-major")
	}
	if !fb.At(0, 0).IsZero() {
		t.Error("New framebuffer should be black")
	}
}

func TestFramebuffer_Crop(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			fb.Set(x, y, core.NewVec3(float64(x), float64(y), 0))
		}
	}

	cropped := fb.Crop(image.Rect(1, 2, 3, 4))
	if cropped.Width != 2 || cropped.Height != 2 {
		t.Fatalf("Expected 2x2 crop, got %dx%d", cropped.Width, cropped.Height)
	}
	if cropped.At(0, 0) != core.NewVec3(1, 2, 0) || cropped.At(1, 1) != core.NewVec3(2, 3, 0) {
		t.Errorf("Unexpected crop contents %v", cropped.Pixels)
	}

	// Bounds beyond the image are clipped
	clipped := fb.Crop(image.Rect(3, 3, 10, 10))
	if clipped.Width != 1 || clipped.Height != 1 {
		t.Errorf("Expected 1x1 clipped crop, got %dx%d", clipped.Width, clipped.Height)
	}
}

func TestFramebuffer_AverageLuminance(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))

	// (0.2126 + 0.7152 + 0.0722 + 0) / 4
	if got := fb.AverageLuminance(); got < 0.2499 || got > 0.2501 {
		t.Errorf("Expected average luminance 0.25, got %f", got)
	}
	if got := NewFramebuffer(0, 0).AverageLuminance(); got != 0 {
		t.Errorf("Empty framebuffer should have zero luminance, got %f", got)
	}
}
