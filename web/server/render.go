package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-stratified-raytracer/pkg/core"
	"github.com/df07/go-stratified-raytracer/pkg/output"
	"github.com/df07/go-stratified-raytracer/pkg/renderer"
	"github.com/df07/go-stratified-raytracer/pkg/scene"
)

const (
	requestTimeout  = 10 * time.Second // Time allowed for the client to send its RenderRequest
	writeTimeout    = 10 * time.Second
	eventBufferSize = 100
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RenderRequest is the first message a client sends on /api/render.
// Zero values keep the scene's own settings.
type RenderRequest struct {
	Scene    string `json:"scene"`    // Scene name or file (e.g., "sphere-grid")
	Width    int    `json:"width"`    // Image width
	Height   int    `json:"height"`   // Image height
	GridSize int    `json:"gridSize"` // Stratification grid size, GridSize² samples per pixel
	MaxDepth int    `json:"maxDepth"` // Maximum bounce depth
	Seed     int64  `json:"seed"`     // Base seed for the tile samplers
	Strategy string `json:"strategy"` // "stratified" or "uniform"
}

// Event is a single message streamed to the client
type Event struct {
	Type string          `json:"type"` // "console", "tile", "complete", "error"
	Data json.RawMessage `json:"data"` // JSON-encoded payload
}

// TileUpdate carries one finished tile
type TileUpdate struct {
	TileID     int    `json:"tileId"`
	X          int    `json:"x"` // Top-left corner in image coordinates
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Tiles completed so far (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int   `json:"totalPixels"`
	TotalSamples    int64 `json:"totalSamples"`
	SamplesPerPixel int   `json:"samplesPerPixel"`
	Tiles           int   `json:"tiles"`
	Workers         int   `json:"workers"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// ErrorUpdate reports a failed request or render
type ErrorUpdate struct {
	Message string `json:"message"`
}

// renderJob is a validated request ready to render
type renderJob struct {
	scene    *scene.Scene
	width    int
	height   int
	sampling renderer.SamplingConfig
	parallel renderer.ParallelConfig
}

// handleRender upgrades to a websocket, reads a RenderRequest and streams
// console, tile and complete events until the render finishes
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan Event, eventBufferSize)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeEvents(conn, events)
	}()

	s.serveRender(ctx, cancel, conn, events)

	close(events)
	<-writerDone
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) serveRender(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, events chan<- Event) {
	var req RenderRequest
	conn.SetReadDeadline(time.Now().Add(requestTimeout))
	if err := conn.ReadJSON(&req); err != nil {
		sendError(ctx, events, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	conn.SetReadDeadline(time.Time{})

	// Anything else from the client, including a close, ends the render
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	job, err := s.prepareRender(req)
	if err != nil {
		sendError(ctx, events, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if err := s.runRender(ctx, job, events); err != nil {
		sendError(ctx, events, fmt.Sprintf("Render error: %v", err))
	}
}

// prepareRender validates req and resolves it against the scene defaults
func (s *Server) prepareRender(req RenderRequest) (*renderJob, error) {
	if req.Scene == "" {
		req.Scene = "default"
	}
	if err := validateRange("width", req.Width, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if err := validateRange("height", req.Height, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if err := validateRange("gridSize", req.GridSize, 1, maxGridSize); err != nil {
		return nil, err
	}
	if err := validateRange("maxDepth", req.MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.Preprocess()

	job := &renderJob{
		scene:    sceneObj,
		width:    sceneObj.Width,
		height:   sceneObj.Height,
		sampling: sceneObj.GetSamplingConfig(),
		parallel: renderer.ParallelConfig{
			TileSize:   s.config.TileSize,
			NumWorkers: s.config.Workers,
			Seed:       s.config.Seed,
		},
	}
	if req.Width > 0 {
		job.width = req.Width
	}
	if req.Height > 0 {
		job.height = req.Height
	}
	if req.GridSize > 0 {
		job.sampling.GridSize = req.GridSize
	}
	if req.MaxDepth > 0 {
		job.sampling.MaxDepth = req.MaxDepth
	}
	if req.Seed != 0 {
		job.parallel.Seed = req.Seed
	}
	if req.Strategy != "" {
		job.sampling.Strategy = req.Strategy
	}
	if err := job.sampling.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// validateRange accepts zero (use the default) or a value within [min, max]
func validateRange(key string, value, min, max int) error {
	if value != 0 && (value < min || value > max) {
		return fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, value)
	}
	return nil
}

// runRender renders job, streaming console output and tiles, then the full image
func (s *Server) runRender(ctx context.Context, job *renderJob, events chan<- Event) error {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		for msg := range consoleChan {
			sendEvent(ctx, events, "console", msg)
		}
	}()

	raytracer := renderer.NewParallelRaytracer(job.scene, job.width, job.height, job.parallel, logger)
	raytracer.SetSamplingConfig(job.sampling)

	startTime := time.Now()
	fb, stats, err := raytracer.Render(ctx, func(tile renderer.TileCompletion) {
		sendTile(ctx, events, tile, logger)
	})

	// The logger is only used by Render, so nothing sends after this point
	close(consoleChan)
	<-consoleDone

	if err != nil {
		return err
	}

	imageData, err := encodeBase64PNG(output.ToImage(fb))
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	sendEvent(ctx, events, "complete", CompleteUpdate{
		ImageData: imageData,
		Width:     fb.Width,
		Height:    fb.Height,
		Stats: Stats{
			TotalPixels:     stats.TotalPixels,
			TotalSamples:    int64(stats.TotalSamples),
			SamplesPerPixel: stats.SamplesPerPixel,
			Tiles:           stats.Tiles,
			Workers:         stats.Workers,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
	return nil
}

func sendTile(ctx context.Context, events chan<- Event, tile renderer.TileCompletion, logger core.Logger) {
	imageData, err := encodeBase64PNG(output.ToImage(tile.Framebuffer))
	if err != nil {
		logger.Printf("Failed to encode tile %d: %v\n", tile.TileID, err)
		return
	}
	sendEvent(ctx, events, "tile", TileUpdate{
		TileID:     tile.TileID,
		X:          tile.Bounds.Min.X,
		Y:          tile.Bounds.Min.Y,
		Width:      tile.Bounds.Dx(),
		Height:     tile.Bounds.Dy(),
		ImageData:  imageData,
		TileNumber: tile.TileNumber,
		TotalTiles: tile.TotalTiles,
	})
}

// encodeBase64PNG converts an image to base64-encoded PNG
func encodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendEvent queues an event for the writer, giving up once ctx is done
func sendEvent(ctx context.Context, events chan<- Event, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	select {
	case events <- Event{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

func sendError(ctx context.Context, events chan<- Event, message string) {
	log.Printf("Render request failed: %s", message)
	sendEvent(ctx, events, "error", ErrorUpdate{Message: message})
}

// writeEvents is the only goroutine that writes data frames to conn. After a
// failed write it keeps draining events so senders never block.
func writeEvents(conn *websocket.Conn, events <-chan Event) {
	failed := false
	for event := range events {
		if failed {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("write error: %v", err)
			failed = true
		}
	}
}
