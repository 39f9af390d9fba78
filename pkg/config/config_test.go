package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv unsets every variable Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RAYTRACER_WORKERS", "RAYTRACER_TILE_SIZE", "RAYTRACER_SEED",
		"RAYTRACER_OUTPUT_DIR", "RAYTRACER_ADDR",
		"RAYTRACER_S3_BUCKET", "RAYTRACER_S3_REGION", "RAYTRACER_S3_ENDPOINT",
		"RAYTRACER_S3_ACCESS_KEY", "RAYTRACER_S3_SECRET_KEY", "RAYTRACER_S3_PREFIX",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), cfg)
	}
	if cfg.S3.Enabled() {
		t.Error("S3 should be disabled without a bucket")
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_WORKERS", "3")
	t.Setenv("RAYTRACER_TILE_SIZE", "16")
	t.Setenv("RAYTRACER_SEED", "7")
	t.Setenv("RAYTRACER_OUTPUT_DIR", "/tmp/renders")
	t.Setenv("RAYTRACER_S3_BUCKET", "gallery")
	t.Setenv("RAYTRACER_S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Workers != 3 || cfg.TileSize != 16 || cfg.Seed != 7 {
		t.Errorf("Unexpected render settings: %+v", cfg)
	}
	if cfg.OutputDir != "/tmp/renders" {
		t.Errorf("Expected output dir override, got %q", cfg.OutputDir)
	}
	if !cfg.S3.Enabled() || cfg.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Unexpected S3 settings: %+v", cfg.S3)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("Expected default region, got %q", cfg.S3.Region)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RAYTRACER_ADDR", ":9999")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "RAYTRACER_TILE_SIZE=8\nRAYTRACER_ADDR=:1234\nRAYTRACER_S3_BUCKET=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets these directly, so undo them after the test
	t.Cleanup(func() {
		os.Unsetenv("RAYTRACER_TILE_SIZE")
		os.Unsetenv("RAYTRACER_S3_BUCKET")
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TileSize != 8 || cfg.S3.Bucket != "from-file" {
		t.Errorf("Expected values from .env, got %+v", cfg)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Environment should win over .env, got %q", cfg.Addr)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Missing .env should be ignored, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RAYTRACER_WORKERS", "many"},
		{"RAYTRACER_WORKERS", "-1"},
		{"RAYTRACER_TILE_SIZE", "0"},
		{"RAYTRACER_SEED", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
