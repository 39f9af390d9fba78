package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// ParallelConfig contains configuration for tiled parallel rendering
type ParallelConfig struct {
	TileSize   int   // Size of each square tile
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed for the per-tile samplers
}

// DefaultParallelConfig returns sensible default values
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       42,
	}
}

// TileCompletion describes a finished tile for progress callbacks
type TileCompletion struct {
	TileID      int
	Bounds      image.Rectangle // Pixel bounds in image coordinates
	Framebuffer *Framebuffer    // Linear colors of just this tile

	// Progress information
	TileNumber int // Tiles completed so far, including this one (1-based)
	TotalTiles int
}

// ParallelRaytracer renders an image by distributing tiles over a worker pool
type ParallelRaytracer struct {
	scene         Scene
	width, height int
	config        ParallelConfig
	sampling      SamplingConfig
	logger        core.Logger
}

// NewParallelRaytracer creates a new parallel raytracer. A nil logger discards output.
func NewParallelRaytracer(scene Scene, width, height int, config ParallelConfig, logger core.Logger) *ParallelRaytracer {
	if logger == nil {
		logger = discardLogger{}
	}
	return &ParallelRaytracer{
		scene:    scene,
		width:    width,
		height:   height,
		config:   config,
		sampling: scene.GetSamplingConfig(),
		logger:   logger,
	}
}

// SetSamplingConfig overrides the scene's sampling configuration
func (pr *ParallelRaytracer) SetSamplingConfig(config SamplingConfig) {
	pr.sampling = config
}

// Render renders every tile and returns the assembled framebuffer.
// onTile, when non-nil, is called from the calling goroutine after each tile.
// Rendering stops early with ctx.Err() when ctx is cancelled.
func (pr *ParallelRaytracer) Render(ctx context.Context, onTile func(TileCompletion)) (*Framebuffer, RenderStats, error) {
	if pr.width <= 0 || pr.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", pr.width, pr.height)
	}

	startTime := time.Now()
	fb := NewFramebuffer(pr.width, pr.height)
	tiles := NewTileGrid(pr.width, pr.height, pr.config.TileSize, pr.config.Seed)

	workerPool := NewWorkerPool(pr.scene, pr.width, pr.height, pr.sampling, pr.config.NumWorkers, len(tiles))
	workerPool.Start(ctx)
	defer workerPool.Stop()

	pr.logger.Printf("Rendering %dx%d with %d samples/pixel: %d tiles on %d workers...\n",
		pr.width, pr.height, pr.sampling.SamplesPerPixel(), len(tiles), workerPool.GetNumWorkers())

	for taskID, tile := range tiles {
		workerPool.SubmitTask(TileTask{
			Tile:        tile,
			TaskID:      taskID,
			Framebuffer: fb,
		})
	}

	stats := RenderStats{Workers: workerPool.GetNumWorkers()}

	// Wait for all tiles and dispatch callbacks single-threaded
	for i := 0; i < len(tiles); i++ {
		if err := ctx.Err(); err != nil {
			pr.logger.Printf("Rendering cancelled after %d of %d tiles\n", i, len(tiles))
			return nil, stats, err
		}

		var result TileResult
		select {
		case <-ctx.Done():
			pr.logger.Printf("Rendering cancelled after %d of %d tiles\n", i, len(tiles))
			return nil, stats, ctx.Err()
		case r, ok := <-workerPool.Results():
			if !ok {
				return nil, stats, fmt.Errorf("worker pool closed unexpectedly")
			}
			result = r
		}
		if result.Error != nil {
			return nil, stats, result.Error
		}

		stats.Add(result.Stats)

		if onTile != nil {
			tile := tiles[result.TaskID]
			onTile(TileCompletion{
				TileID:      tile.ID,
				Bounds:      tile.Bounds,
				Framebuffer: fb.Crop(tile.Bounds),
				TileNumber:  i + 1,
				TotalTiles:  len(tiles),
			})
		}
	}

	stats.Duration = time.Since(startTime)
	pr.logger.Printf("Render completed in %v (%d samples, average luminance %.4f)\n",
		stats.Duration, stats.TotalSamples, fb.AverageLuminance())

	return fb, stats, nil
}
