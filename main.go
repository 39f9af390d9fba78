package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/df07/go-stratified-raytracer/pkg/config"
	"github.com/df07/go-stratified-raytracer/pkg/output"
	"github.com/df07/go-stratified-raytracer/pkg/publish"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
	"github.com/df07/go-stratified-raytracer/pkg/scene"
)

// options holds the command line flags. Zero values keep the scene's settings.
type options struct {
	sceneName string
	width     int
	height    int
	gridSize  int
	maxDepth  int
	strategy  string
	seed      int64
	format    string
	thumbSize uint
	archive   string
	upload    bool
	envFile   string
}

func main() {
	var opts options
	flag.StringVar(&opts.sceneName, "scene", "default", "Scene name ('default', 'sphere-grid'), a scene in scenes/, or a .json path")
	flag.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&opts.gridSize, "grid", 0, "Stratification grid size G, G*G samples per pixel (0 = scene default)")
	flag.IntVar(&opts.maxDepth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.StringVar(&opts.strategy, "strategy", "", "Pixel estimator: 'stratified' or 'uniform' (empty = scene default)")
	flag.Int64Var(&opts.seed, "seed", -1, "Base sampler seed (-1 = RAYTRACER_SEED or 42)")
	flag.StringVar(&opts.format, "out", "png", "Output format: png, jpg, ppm")
	flag.UintVar(&opts.thumbSize, "thumb", 0, "Also write a thumbnail no larger than this many pixels (0 = off)")
	flag.StringVar(&opts.archive, "archive", "", "Also write the linear framebuffer: 'zstd' or 'snappy'")
	flag.BoolVar(&opts.upload, "upload", false, "Upload outputs to the configured S3 bucket")
	flag.StringVar(&opts.envFile, "env", ".env", "Environment file to load before reading RAYTRACER_* variables")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, cfg); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

func printHelp() {
	fmt.Println("Stratified Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.BuiltInScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}
	fmt.Println("  <name>       scenes/<name>.json")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
}

func run(ctx context.Context, opts options, cfg config.Config) error {
	log.Println("Starting Stratified Raytracer...")

	sc, err := scene.CreateScene(opts.sceneName)
	if err != nil {
		return err
	}
	sc.Preprocess()

	width, height := sc.Width, sc.Height
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}

	sampling := applySamplingOverrides(sc.GetSamplingConfig(), opts)
	if err := sampling.Validate(); err != nil {
		return err
	}
	log.Printf("Scene %q: %dx%d, %d primitives, %d samples per pixel, max depth %d",
		sc.Name, width, height, sc.GetPrimitiveCount(), sampling.SamplesPerPixel(), sampling.MaxDepth)

	parallelConfig := renderer.ParallelConfig{
		TileSize:   cfg.TileSize,
		NumWorkers: cfg.Workers,
		Seed:       cfg.Seed,
	}
	if opts.seed >= 0 {
		parallelConfig.Seed = opts.seed
	}

	raytracer := renderer.NewParallelRaytracer(sc, width, height, parallelConfig, renderer.NewDefaultLogger())
	raytracer.SetSamplingConfig(sampling)

	fb, stats, err := raytracer.Render(ctx, nil)
	if err != nil {
		return err
	}
	log.Printf("Render completed in %v (%d tiles, %d workers, %.0f samples per pixel)",
		stats.Duration, stats.Tiles, stats.Workers, stats.AverageSamples())

	outputDir, err := createOutputDir(cfg.OutputDir, opts.sceneName)
	if err != nil {
		return err
	}
	base := fmt.Sprintf("render_%s", time.Now().Format("20060102_150405"))

	files, err := writeOutputs(fb, outputDir, base, opts)
	if err != nil {
		return err
	}
	for _, file := range files {
		log.Printf("Saved %s", file)
	}

	if !opts.upload {
		return nil
	}
	uploader, err := publish.NewS3Uploader(cfg.S3, renderer.NewDefaultLogger())
	if err != nil {
		return err
	}
	return uploadFiles(ctx, uploader, filepath.Base(outputDir), files)
}

// applySamplingOverrides replaces the scene's sampling settings with any
// positive flag values
func applySamplingOverrides(sampling renderer.SamplingConfig, opts options) renderer.SamplingConfig {
	if opts.gridSize > 0 {
		sampling.GridSize = opts.gridSize
	}
	if opts.maxDepth > 0 {
		sampling.MaxDepth = opts.maxDepth
	}
	if opts.strategy != "" {
		sampling.Strategy = opts.strategy
	}
	return sampling
}

// createOutputDir creates <root>/<scene> and returns its path. Scene file
// paths are reduced to their base name without extension.
func createOutputDir(root, sceneName string) (string, error) {
	name := filepath.Base(sceneName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "default"
	}

	outputDir := filepath.Join(root, name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	return outputDir, nil
}

// writeOutputs saves the image plus the optional thumbnail and archive and
// returns the paths written
func writeOutputs(fb *renderer.Framebuffer, dir, base string, opts options) ([]string, error) {
	format := strings.TrimPrefix(strings.ToLower(opts.format), ".")
	if format == "" {
		format = "png"
	}

	imagePath := filepath.Join(dir, base+"."+format)
	if err := output.Save(imagePath, fb); err != nil {
		return nil, err
	}
	files := []string{imagePath}

	if opts.thumbSize > 0 {
		thumbPath := filepath.Join(dir, base+"_thumb.png")
		if err := imaging.Save(output.Thumbnail(output.ToImage(fb), opts.thumbSize), thumbPath); err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		files = append(files, thumbPath)
	}

	if opts.archive != "" {
		codec, err := output.ParseCodec(opts.archive)
		if err != nil {
			return nil, err
		}
		archivePath := filepath.Join(dir, base+codec.Extension())
		file, err := os.Create(archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive: %w", err)
		}
		if err := output.WriteArchive(file, fb, codec); err != nil {
			file.Close()
			return nil, err
		}
		if err := file.Close(); err != nil {
			return nil, err
		}
		files = append(files, archivePath)
	}

	return files, nil
}

func uploadFiles(ctx context.Context, uploader *publish.Uploader, sceneDir string, files []string) error {
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		name := filepath.Base(file)
		if _, err := uploader.Upload(ctx, sceneDir+"/"+name, data, publish.ContentType(name)); err != nil {
			return err
		}
	}
	return nil
}
