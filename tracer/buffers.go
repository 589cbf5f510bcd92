package tracer

// The frame buffers shared by the renderer and its attached tracers. All
// pixel data is stored as RGBA. Tracers always work on disjoint block rows
// so no locking is required; the renderer commits scratch data between
// passes while all workers are idle.
type Buffers struct {
	FrameW uint32
	FrameH uint32

	// Traced radiance for the current frame.
	Color []float32

	// Accumulated temporal history used by the temporal denoise filters.
	Temporal []float32

	// Denoise output target. Denoise kernels never write to the buffers
	// they read from.
	Scratch []float32

	// Tonemapped 8-bit display output.
	Frame []uint8
}

// Allocate the full buffer set for the given frame dimensions.
func NewBuffers(frameW, frameH uint32) *Buffers {
	pixels := int(frameW * frameH)
	return &Buffers{
		FrameW:   frameW,
		FrameH:   frameH,
		Color:    make([]float32, pixels*4),
		Temporal: make([]float32, pixels*4),
		Scratch:  make([]float32, pixels*4),
		Frame:    make([]uint8, pixels*4),
	}
}

// Commit scratch data into the color buffer.
func (b *Buffers) CommitScratchToColor() {
	copy(b.Color, b.Scratch)
}

// Commit scratch data into the temporal history buffer.
func (b *Buffers) CommitScratchToTemporal() {
	copy(b.Temporal, b.Scratch)
}
