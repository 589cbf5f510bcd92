package cpu

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/log"
	"github.com/Thrillerninja/go-raytracer/tracer"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Upper node-visit count mapped to full red by the BVH heatmap debug view.
const heatmapSaturation float32 = 64.0

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats

	// The frame buffers shared with the renderer.
	buffers *tracer.Buffers

	// The uploaded scene data.
	sceneData *asset.Scene

	config asset.ShaderConfig

	// Current and previous frame camera snapshots. The previous snapshot
	// drives the motion gate of the adaptive temporal filter.
	camera     asset.CameraState
	prevCamera asset.CameraState
}

// Create a new cpu tracer sharing the given frame buffers.
func NewTracer(id string, buffers *tracer.Buffers) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		updateBuffer: make(map[tracer.UpdateType]interface{}, 0),
		blockReqChan: make(chan tracer.BlockRequest, 0),
		stats:        &tracer.Stats{},
		buffers:      buffers,
		config:       asset.DefaultShaderConfig(),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get tracer flags.
func (tr *cpuTracer) Flags() tracer.Flag {
	return tracer.Local
}

// Get the computation speed estimate. All cpu workers are symmetric.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Initialize the tracer and start its worker.
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}

	tr.sceneData = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.updateBuffer[updateType] = data
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			sc, ok := data.(*asset.Scene)
			if !ok {
				return ErrInvalidOption
			}
			tr.sceneData = sc
		case tracer.UpdateCamera:
			state, ok := data.(asset.CameraState)
			if !ok {
				return ErrInvalidOption
			}
			tr.prevCamera = tr.camera
			tr.camera = state
		case tracer.UpdateConfig:
			cfg, ok := data.(asset.ShaderConfig)
			if !ok {
				return ErrInvalidOption
			}
			tr.config = cfg
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{}, 0)
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	tr.closeChan = make(chan struct{}, 0)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime = time.Now()

				// Apply any pending changes
				if len(tr.updateBuffer) != 0 {
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.stats.UpdateTime = time.Since(startTime)
				}

				// Render block and reply with our completion status
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sceneData == nil {
		return ErrNoSceneData
	}

	switch blockReq.Pass {
	case tracer.TracePass:
		tr.traceBlock(blockReq)
	case tracer.DenoiseFirstPass:
		tr.denoiseBlock(tr.config.FirstPass, blockReq)
	case tracer.DenoiseSecondPass:
		tr.denoiseBlock(tr.config.SecondPass, blockReq)
	case tracer.PresentPass:
		tr.presentBlock(blockReq)
	default:
		return fmt.Errorf("cpu tracer: unsupported pass %d", blockReq.Pass)
	}
	return nil
}

// Trace all pixels of the assigned block rows and write the averaged
// radiance samples into the color buffer.
func (tr *cpuTracer) traceBlock(blockReq *tracer.BlockRequest) {
	frameW := tr.buffers.FrameW
	samples := tr.config.SamplesPerPixel
	if samples < 1 {
		samples = 1
	}

	for py := blockReq.BlockY; py < blockReq.BlockY+blockReq.BlockH; py++ {
		for px := uint32(0); px < frameW; px++ {
			rnd := newRNG(px, py, frameW, tr.camera.FrameIndex)

			var col types.Vec3
			switch {
			case tr.config.DebugRandColor:
				col = types.Vec3{rnd.next(), rnd.next(), rnd.next()}
			case tr.config.DebugBvhHeat:
				col = tr.debugHeat(px, py, &rnd)
			case tr.config.DebugNormals:
				col = tr.debugNormals(px, py, &rnd)
			default:
				var sum types.Vec3
				for sample := int32(0); sample < samples; sample++ {
					origin, dir := generateRay(px, py, frameW, tr.buffers.FrameH, &tr.camera, &tr.config, &rnd)
					sum = sum.Add(tracePath(tr.sceneData, &tr.config, origin, dir, &rnd))
				}
				col = sum.Mul(1.0 / float32(samples))
			}

			offset := (py*frameW + px) * 4
			tr.buffers.Color[offset] = col[0]
			tr.buffers.Color[offset+1] = col[1]
			tr.buffers.Color[offset+2] = col[2]
			tr.buffers.Color[offset+3] = 1.0
		}
	}
}

// Visualize the BVH node visit count of the primary ray.
func (tr *cpuTracer) debugHeat(px, py uint32, rnd *rng) types.Vec3 {
	origin, dir := generateRay(px, py, tr.buffers.FrameW, tr.buffers.FrameH, &tr.camera, &tr.config, rnd)
	rec := nearestHit(tr.sceneData, origin, dir, tr.config.MaxRayDistance)

	t := float32(rec.visited) / heatmapSaturation
	if t > 1 {
		t = 1
	}
	return types.Vec3{t, 0.25 * t, 1.0 - t}
}

// Visualize the primary hit normal.
func (tr *cpuTracer) debugNormals(px, py uint32, rnd *rng) types.Vec3 {
	origin, dir := generateRay(px, py, tr.buffers.FrameW, tr.buffers.FrameH, &tr.camera, &tr.config, rnd)
	rec := nearestHit(tr.sceneData, origin, dir, tr.config.MaxRayDistance)
	if rec.miss() {
		return backgroundColor(tr.sceneData, dir)
	}

	surf := resolveSurface(tr.sceneData, &rec, origin, dir)
	return surf.normal.Mul(0.5).Add(types.Vec3{0.5, 0.5, 0.5})
}

// Run the selected denoise filter over the assigned block rows, writing
// into the scratch buffer.
func (tr *cpuTracer) denoiseBlock(kind asset.FilterKind, blockReq *tracer.BlockRequest) {
	for py := blockReq.BlockY; py < blockReq.BlockY+blockReq.BlockH; py++ {
		for px := uint32(0); px < tr.buffers.FrameW; px++ {
			denoisePixel(kind, tr.buffers, &tr.config, &tr.camera, &tr.prevCamera, px, py)
		}
	}
}

// Tonemap (Reinhard) and gamma-correct the color buffer into the 8-bit
// display frame buffer.
func (tr *cpuTracer) presentBlock(blockReq *tracer.BlockRequest) {
	exposure := blockReq.Exposure
	if exposure <= 0 {
		exposure = 1.0
	}

	frameW := tr.buffers.FrameW
	for py := blockReq.BlockY; py < blockReq.BlockY+blockReq.BlockH; py++ {
		for px := uint32(0); px < frameW; px++ {
			offset := (py*frameW + px) * 4
			for channel := uint32(0); channel < 3; channel++ {
				val := tr.buffers.Color[offset+channel] * exposure
				val = val / (1.0 + val)
				val = float32(math.Pow(float64(val), 1.0/2.2))
				tr.buffers.Frame[offset+channel] = uint8(val * 255.0)
			}
			tr.buffers.Frame[offset+3] = 255
		}
	}
}
