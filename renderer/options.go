package renderer

import "github.com/Thrillerninja/go-raytracer/asset"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Exposure for tonemapping.
	Exposure float32

	// Number of cpu tracer workers. A non-positive value selects one
	// worker per logical CPU.
	NumWorkers int

	// Per-frame kernel settings.
	Config asset.ShaderConfig
}
