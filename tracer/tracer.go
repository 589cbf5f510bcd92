package tracer

import "time"

type UpdateType uint8

const (
	UpdateScene UpdateType = iota
	UpdateCamera
	UpdateConfig
)

type Flag uint8

const (
	// Tracer runs on the local machine.
	Local Flag = 1 << iota
)

// A frame is rendered as a sequence of passes. Each pass runs to completion
// over the full frame before the next one begins so that denoise kernels
// only ever read buffers that no other worker is mutating.
type Pass uint8

const (
	// Trace primary rays and write radiance into the color buffer.
	TracePass Pass = iota

	// First denoise pass; reads color/temporal buffers, writes scratch.
	DenoiseFirstPass

	// Second denoise pass; reads color/temporal buffers, writes scratch.
	DenoiseSecondPass

	// Tonemap the color buffer into the display frame buffer.
	PresentPass
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// The rendering pass this block belongs to.
	Pass Pass

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The exposure value controls HDR -> LDR mapping.
	Exposure float32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time spent applying queued updates.
	UpdateTime time.Duration

	// The time for rendering the last assigned block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get tracer flags.
	Flags() Flag

	// Get the computation speed estimate.
	Speed() uint32

	// Initialize the tracer and start its worker.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
