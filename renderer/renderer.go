package renderer

import "image"

type Renderer interface {
	// Render frame.
	Render() error

	// Shutdown renderer and any attached tracers.
	Close()

	// Get render statistics.
	Stats() FrameStats

	// Get a copy of the last rendered frame.
	Frame() *image.RGBA
}
