// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// S3Config holds the object storage settings used to publish renders
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether enough is configured to attempt an upload
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Config holds settings shared by the CLI and the preview server
type Config struct {
	Workers   int    // 0 means runtime.NumCPU()
	TileSize  int    // Tile edge in pixels
	Seed      int64  // Base seed for per-tile samplers
	OutputDir string // Root of output/<scene>/ directories
	Addr      string // Preview server listen address
	S3        S3Config
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Workers:   0,
		TileSize:  32,
		Seed:      42,
		OutputDir: "output",
		Addr:      ":8080",
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "renders",
		},
	}
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then builds a Config from
// RAYTRACER_* variables. An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		// A missing .env file is normal outside development
		_ = godotenv.Load(envFile)
	}

	defaults := Default()
	cfg := Config{
		OutputDir: getEnv("RAYTRACER_OUTPUT_DIR", defaults.OutputDir),
		Addr:      getEnv("RAYTRACER_ADDR", defaults.Addr),
		S3: S3Config{
			Bucket:    os.Getenv("RAYTRACER_S3_BUCKET"),
			Region:    getEnv("RAYTRACER_S3_REGION", defaults.S3.Region),
			Endpoint:  os.Getenv("RAYTRACER_S3_ENDPOINT"),
			AccessKey: os.Getenv("RAYTRACER_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("RAYTRACER_S3_SECRET_KEY"),
			Prefix:    getEnv("RAYTRACER_S3_PREFIX", defaults.S3.Prefix),
		},
	}

	var err error
	if cfg.Workers, err = getEnvInt("RAYTRACER_WORKERS", defaults.Workers); err != nil {
		return Config{}, err
	}
	if cfg.TileSize, err = getEnvInt("RAYTRACER_TILE_SIZE", defaults.TileSize); err != nil {
		return Config{}, err
	}
	seed, err := getEnvInt("RAYTRACER_SEED", int(defaults.Seed))
	if err != nil {
		return Config{}, err
	}
	cfg.Seed = int64(seed)

	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("RAYTRACER_WORKERS must not be negative, got %d", cfg.Workers)
	}
	if cfg.TileSize <= 0 {
		return Config{}, fmt.Errorf("RAYTRACER_TILE_SIZE must be positive, got %d", cfg.TileSize)
	}
	return cfg, nil
}

// getEnv returns the value of key, or fallback when it is unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
