package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
)

func TestArchive_PreservesLinearColors(t *testing.T) {
	fb := renderer.NewFramebuffer(4, 3)
	for i := range fb.Pixels {
		// Values outside [0, 1] must survive, unlike in 8-bit images
		fb.Pixels[i] = core.NewVec3(float64(i)*0.1, -float64(i), 1.0/3.0)
	}

	for _, codec := range []Codec{CodecZstd, CodecSnappy} {
		t.Run(codec.String(), func(t *testing.T) {
			data, err := EncodeArchive(fb, codec)
			if err != nil {
				t.Fatalf("EncodeArchive() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("RTFB")) {
				t.Error("Expected RTFB magic")
			}

			decoded, err := ReadArchive(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("ReadArchive() error: %v", err)
			}
			if decoded.Width != fb.Width || decoded.Height != fb.Height {
				t.Fatalf("Expected %dx%d, got %dx%d", fb.Width, fb.Height, decoded.Width, decoded.Height)
			}
			for i := range fb.Pixels {
				if decoded.Pixels[i] != fb.Pixels[i] {
					t.Fatalf("Pixel %d: expected %v, got %v", i, fb.Pixels[i], decoded.Pixels[i])
				}
			}
		})
	}
}

func TestArchive_Compresses(t *testing.T) {
	// A flat render compresses well with either codec
	fb := renderer.NewFramebuffer(64, 64)
	for i := range fb.Pixels {
		fb.Pixels[i] = core.NewVec3(0.5, 0.7, 1.0)
	}
	raw := len(fb.Pixels) * 24

	for _, codec := range []Codec{CodecZstd, CodecSnappy} {
		data, err := EncodeArchive(fb, codec)
		if err != nil {
			t.Fatalf("%v: EncodeArchive() error: %v", codec, err)
		}
		if len(data) >= raw/4 {
			t.Errorf("%v: expected strong compression, got %d of %d bytes", codec, len(data), raw)
		}
	}
}

func TestReadArchive_Invalid(t *testing.T) {
	valid, err := EncodeArchive(renderer.NewFramebuffer(2, 2), CodecZstd)
	if err != nil {
		t.Fatalf("EncodeArchive() error: %v", err)
	}

	badMagic := append([]byte("XXXX"), valid[4:]...)
	if _, err := ReadArchive(bytes.NewReader(badMagic)); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Bad magic: expected ErrInvalidArchive, got %v", err)
	}

	badCodec := append([]byte{}, valid...)
	badCodec[5] = 9
	if _, err := ReadArchive(bytes.NewReader(badCodec)); !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Bad codec: expected ErrInvalidArchive, got %v", err)
	}

	noisy := renderer.NewFramebuffer(16, 16)
	for i := range noisy.Pixels {
		noisy.Pixels[i] = core.NewVec3(float64(i)*1.37, float64(i*i)/7, -float64(i)/3)
	}
	full, err := EncodeArchive(noisy, CodecSnappy)
	if err != nil {
		t.Fatalf("EncodeArchive() error: %v", err)
	}
	if _, err := ReadArchive(bytes.NewReader(full[:len(full)/2])); err == nil {
		t.Error("Truncated archive: expected error")
	}

	if _, err := ReadArchive(bytes.NewReader(valid[:6])); err == nil {
		t.Error("Truncated header: expected error")
	}
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		name     string
		expected Codec
		wantErr  bool
	}{
		{"zstd", CodecZstd, false},
		{"ZSTD", CodecZstd, false},
		{"snappy", CodecSnappy, false},
		{"gzip", 0, true},
	}

	for _, tt := range tests {
		codec, err := ParseCodec(tt.name)
		if (err != nil) != tt.wantErr || codec != tt.expected {
			t.Errorf("ParseCodec(%q) = %v, %v", tt.name, codec, err)
		}
	}
}
