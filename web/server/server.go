package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/df07/go-stratified-raytracer/pkg/config"
	"github.com/df07/go-stratified-raytracer/pkg/scene"
)

// Request limits shared by the render handler and /api/scene-config
const (
	minImageSize = 1
	maxImageSize = 2000
	maxGridSize  = 32
	maxDepth     = 500
)

// Server handles web requests for the stratified raytracer
type Server struct {
	config    config.Config
	staticDir string
	scenesDir string // "" searches the default scenes directory
}

// NewServer creates a new web server
func NewServer(cfg config.Config) *Server {
	return &Server{config: cfg, staticDir: "static/"}
}

// Handler returns the router with every endpoint registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	log.Printf("Starting web server on http://localhost%s", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files by group
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.GetSamplingConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sceneObj.Width,
			"height":          sceneObj.Height,
			"gridSize":        sampling.GridSize,
			"samplesPerPixel": sampling.SamplesPerPixel(),
			"maxDepth":        sampling.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"gridSize": map[string]int{"min": 1, "max": maxGridSize},
			"maxDepth": map[string]int{"min": 1, "max": maxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a scene ID sent by a client. Only built-in scenes and
// files listed in the scenes directory are accepted; paths never reach the
// scene loader.
func (s *Server) createScene(id string) (*scene.Scene, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%q: %w", id, scene.ErrUnknownScene)
	}

	for _, info := range scene.BuiltInScenes() {
		if info.ID == id {
			return scene.CreateScene(id)
		}
	}

	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return scene.LoadScene(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%q: %w", id, scene.ErrUnknownScene)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
