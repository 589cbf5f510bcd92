package renderer

import "time"

// Per-tracer statistics for the last rendered frame.
type TracerStat struct {
	Id string

	// True for the tracer that receives any leftover block rows.
	IsPrimary bool

	// Rows assigned to this tracer and the share of the frame they cover.
	BlockH       uint32
	FramePercent float32

	// Time spent committing queued scene/camera/config updates before the
	// first block of the frame.
	UpdateTime time.Duration

	// Time spent rendering the assigned block across all passes.
	RenderTime time.Duration
}

// Statistics for one full frame (all four passes).
type FrameStats struct {
	Tracers []TracerStat

	// Wall-clock time for the entire frame including pass barriers.
	RenderTime time.Duration
}
