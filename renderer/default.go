package renderer

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/log"
	"github.com/Thrillerninja/go-raytracer/tracer"
	"github.com/Thrillerninja/go-raytracer/tracer/cpu"
)

// Frame pass order. Denoise results are committed from the scratch buffer
// between passes: pass 1 into both the temporal history and the color
// buffer, pass 2 into the color buffer only.
var framePasses = []tracer.Pass{
	tracer.TracePass,
	tracer.DenoiseFirstPass,
	tracer.DenoiseSecondPass,
	tracer.PresentPass,
}

type defaultRenderer struct {
	logger  log.Logger
	options Options

	sceneData *asset.Scene
	buffers   *tracer.Buffers

	// The attached tracer pool and its scheduler.
	tracers          []tracer.Tracer
	scheduler        tracer.BlockScheduler
	blockAssignments []uint32

	// Channels for tracking block completions.
	doneChan chan uint32
	errChan  chan error

	stats  FrameStats
	closed bool
}

// Create a new renderer that distributes frame blocks to a pool of cpu
// tracers using the supplied block scheduler.
func NewDefault(sc *asset.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if opts.Exposure <= 0 {
		opts.Exposure = 1.0
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	// The scheduler hands every tracer at least one row.
	if uint32(numWorkers) > opts.FrameH {
		numWorkers = int(opts.FrameH)
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		options:   opts,
		sceneData: sc,
		buffers:   tracer.NewBuffers(opts.FrameW, opts.FrameH),
		scheduler: scheduler,
		doneChan:  make(chan uint32, numWorkers),
		errChan:   make(chan error, numWorkers),
	}

	sc.Camera.SetupProjection(float32(opts.FrameW) / float32(opts.FrameH))

	start := time.Now()
	for workerIndex := 0; workerIndex < numWorkers; workerIndex++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", workerIndex), r.buffers)
		if err := tr.Init(); err != nil {
			r.Close()
			return nil, err
		}
		tr.Update(tracer.UpdateScene, sc)
		tr.Update(tracer.UpdateConfig, opts.Config)
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	r.logger.Noticef("attached %d tracers in %d ms", len(r.tracers), time.Since(start).Nanoseconds()/1e6)

	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	start := time.Now()

	// Refresh the camera snapshot; tracers retain the previous snapshot
	// for motion-aware denoising.
	r.sceneData.Camera.FrameIndex++
	state := r.sceneData.Camera.State()
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, state)
	}

	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	for _, pass := range framePasses {
		if err := r.runPass(pass); err != nil {
			return err
		}

		switch pass {
		case tracer.DenoiseFirstPass:
			r.buffers.CommitScratchToTemporal()
			r.buffers.CommitScratchToColor()
		case tracer.DenoiseSecondPass:
			r.buffers.CommitScratchToColor()
		}
	}

	r.collectStats(time.Since(start))
	return nil
}

// Dispatch one pass as block requests across the tracer pool and wait for
// all blocks to complete.
func (r *defaultRenderer) runPass(pass tracer.Pass) error {
	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			Pass:     pass,
			BlockY:   blockY,
			BlockH:   blockH,
			Exposure: r.options.Exposure,
			DoneChan: r.doneChan,
			ErrChan:  r.errChan,
		})
		blockY += blockH
		pending++
	}

	// Wait for all blocks even after an error so no completion signal
	// leaks into the next pass.
	var firstErr error
	for ; pending > 0; pending-- {
		select {
		case <-r.doneChan:
		case err := <-r.errChan:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *defaultRenderer) collectStats(frameTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: frameTime,
	}
	for idx, tr := range r.tracers {
		stats := tr.Stats()
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       stats.BlockH,
			FramePercent: float32(stats.BlockH) / float32(r.options.FrameH) * 100.0,
			UpdateTime:   stats.UpdateTime,
			RenderTime:   stats.RenderTime,
		}
	}
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Get a copy of the last rendered frame.
func (r *defaultRenderer) Frame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(r.options.FrameW), int(r.options.FrameH)))
	copy(img.Pix, r.buffers.Frame)
	return img
}

// Shutdown renderer and any attached tracers.
func (r *defaultRenderer) Close() {
	if r.closed {
		return
	}
	r.closed = true

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}
