package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-stratified-raytracer/pkg/config"
	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/output"
	"github.com/df07/go-stratified-raytracer/pkg/publish"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
	"github.com/df07/go-stratified-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"sphere-grid scene", "sphere-grid", false},
		{"spheregrid alias", "spheregrid", false},

		// Scene files (by name)
		{"three-spheres file", "three-spheres", false},
		{"sphere-on-plane file", "sphere-on-plane", false},

		// Scene files (by path)
		{"direct JSON path", "scenes/three-spheres.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid JSON path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := scene.CreateScene(tt.sceneType)

			if tt.expectError {
				if !errors.Is(err, scene.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for '%s', got %v", tt.sceneType, err)
				}
				if sc != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if sc.Width <= 0 || sc.Height <= 0 {
				t.Errorf("Scene size should be positive, got %dx%d", sc.Width, sc.Height)
			}
			if sc.SamplingConfig.GridSize <= 0 || sc.SamplingConfig.MaxDepth <= 0 {
				t.Errorf("Scene sampling should be positive, got %+v", sc.SamplingConfig)
			}
			if sc.Camera == nil {
				t.Error("Scene should have a camera")
			}
		})
	}
}

func TestCreateOutputDir(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		sceneName string
		expected  string
	}{
		{"default", "default"},
		{"sphere-grid", "sphere-grid"},
		{"scenes/three-spheres.json", "three-spheres"},
		{"", "default"},
	}

	for _, tt := range tests {
		dir, err := createOutputDir(root, tt.sceneName)
		if err != nil {
			t.Fatalf("createOutputDir(%q) error: %v", tt.sceneName, err)
		}
		if dir != filepath.Join(root, tt.expected) {
			t.Errorf("createOutputDir(%q): expected %s, got %s", tt.sceneName, filepath.Join(root, tt.expected), dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}
}

func TestApplySamplingOverrides(t *testing.T) {
	base := renderer.SamplingConfig{GridSize: 5, MaxDepth: 50}

	if got := applySamplingOverrides(base, options{}); got != base {
		t.Errorf("Zero flags should keep scene settings, got %+v", got)
	}
	got := applySamplingOverrides(base, options{gridSize: 2, maxDepth: 8, strategy: renderer.StrategyUniform})
	if got.GridSize != 2 || got.MaxDepth != 8 || got.Strategy != renderer.StrategyUniform {
		t.Errorf("Expected overrides to apply, got %+v", got)
	}
}

func TestRun_UnknownStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	opts := options{sceneName: "default", width: 8, height: 4, gridSize: 1, maxDepth: 1, format: "png", strategy: "sobol"}
	if err := run(context.Background(), opts, cfg); err == nil || !strings.Contains(err.Error(), "sobol") {
		t.Errorf("Expected unknown strategy error, got %v", err)
	}
}

func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(40, 20)
	for i := range fb.Pixels {
		fb.Pixels[i] = core.NewVec3(0.5, 0.7, 1.0)
	}
	return fb
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	opts := options{format: "ppm", thumbSize: 10, archive: "snappy"}

	files, err := writeOutputs(testFramebuffer(), dir, "render_test", opts)
	if err != nil {
		t.Fatalf("writeOutputs() error: %v", err)
	}

	expected := []string{"render_test.ppm", "render_test_thumb.png", "render_test.rtfb.sz"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %v", len(expected), files)
	}
	for i, name := range expected {
		if filepath.Base(files[i]) != name {
			t.Errorf("File %d: expected %s, got %s", i, name, files[i])
		}
	}

	archive, err := os.Open(files[2])
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()
	fb, err := output.ReadArchive(archive)
	if err != nil {
		t.Fatalf("ReadArchive() error: %v", err)
	}
	if fb.Width != 40 || fb.Height != 20 {
		t.Errorf("Archive has wrong size %dx%d", fb.Width, fb.Height)
	}
}

func TestWriteOutputs_BadArchiveCodec(t *testing.T) {
	_, err := writeOutputs(testFramebuffer(), t.TempDir(), "render", options{format: "png", archive: "lz4"})
	if err == nil {
		t.Error("Expected error for unknown archive codec")
	}
}

type mockS3 struct {
	s3iface.S3API
	keys []string
}

func (m *mockS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	m.keys = append(m.keys, aws.StringValue(input.Key))
	return &s3.PutObjectOutput{}, nil
}

func TestUploadFiles(t *testing.T) {
	dir := t.TempDir()
	files, err := writeOutputs(testFramebuffer(), dir, "render_1", options{format: "png", archive: "zstd"})
	if err != nil {
		t.Fatalf("writeOutputs() error: %v", err)
	}

	mock := &mockS3{}
	uploader := publish.NewUploader(mock, "gallery", "renders", nil)
	if err := uploadFiles(context.Background(), uploader, "default", files); err != nil {
		t.Fatalf("uploadFiles() error: %v", err)
	}

	expected := []string{"renders/default/render_1.png", "renders/default/render_1.rtfb.zst"}
	if strings.Join(mock.keys, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected keys %v, got %v", expected, mock.keys)
	}
}

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.TileSize = 8

	opts := options{sceneName: "default", width: 24, height: 12, gridSize: 1, maxDepth: 3, seed: 1, format: "png"}
	if err := run(context.Background(), opts, cfg); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(cfg.OutputDir, "default"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".png") {
		t.Errorf("Expected one png in the output directory, got %v", entries)
	}
}

func TestRun_UnknownScene(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	err := run(context.Background(), options{sceneName: "nonexistent"}, cfg)
	if !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestRun_UploadWithoutBucket(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()

	opts := options{sceneName: "default", width: 8, height: 4, gridSize: 1, maxDepth: 1, format: "png", upload: true}
	if err := run(context.Background(), opts, cfg); !errors.Is(err, publish.ErrNoBucket) {
		t.Errorf("Expected ErrNoBucket, got %v", err)
	}
}
