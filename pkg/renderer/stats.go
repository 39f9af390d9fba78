package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of camera rays traced
	SamplesPerPixel int           // Stratified samples per pixel
	Tiles           int           // Number of tiles rendered
	Workers         int           // Number of parallel workers
	Duration        time.Duration // Wall-clock render time
}

// Add accumulates the pixel and sample counts of other
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.SamplesPerPixel = max(s.SamplesPerPixel, other.SamplesPerPixel)
	s.Tiles += other.Tiles
}

// AverageSamples returns the mean number of samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}
