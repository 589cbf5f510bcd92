package cpu

import (
	"testing"
	"time"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/tracer"
	"github.com/Thrillerninja/go-raytracer/types"
)

// With a fixed per-pixel seed derivation two independent runs over the same
// scene must produce pixel-identical output.
func TestTraceBlockDeterminism(t *testing.T) {
	sc := makeSphereScene()
	camera := makeTestCamera()

	render := func() []float32 {
		buffers := tracer.NewBuffers(8, 8)
		tr := NewTracer("test", buffers).(*cpuTracer)
		tr.sceneData = sc
		tr.camera = camera

		tr.traceBlock(&tracer.BlockRequest{Pass: tracer.TracePass, BlockY: 0, BlockH: 8})
		return buffers.Color
	}

	first := render()
	second := render()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected pixel-identical output; first difference at component %d: %v != %v", i, first[i], second[i])
		}
	}
}

func TestWorkerPassPipeline(t *testing.T) {
	buffers := tracer.NewBuffers(8, 8)
	tr := NewTracer("test", buffers)
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	tr.Update(tracer.UpdateScene, makeSphereScene())
	tr.Update(tracer.UpdateCamera, makeTestCamera())

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)

	for _, pass := range []tracer.Pass{tracer.TracePass, tracer.DenoiseFirstPass, tracer.DenoiseSecondPass, tracer.PresentPass} {
		tr.Enqueue(tracer.BlockRequest{
			Pass:     pass,
			BlockY:   0,
			BlockH:   8,
			Exposure: 1.0,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})

		select {
		case rows := <-doneChan:
			if rows != 8 {
				t.Fatalf("[pass %d] expected 8 completed rows; got %d", pass, rows)
			}
		case err := <-errChan:
			t.Fatalf("[pass %d] %v", pass, err)
		case <-time.After(10 * time.Second):
			t.Fatalf("[pass %d] timeout waiting for block completion", pass)
		}
	}

	// The present pass must have produced opaque display pixels.
	for i := 3; i < len(buffers.Frame); i += 4 {
		if buffers.Frame[i] != 255 {
			t.Fatalf("expected opaque alpha at component %d; got %d", i, buffers.Frame[i])
		}
	}
}

func TestWorkerMissingScene(t *testing.T) {
	tr := NewTracer("test", tracer.NewBuffers(4, 4))
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{
		Pass:     tracer.TracePass,
		BlockY:   0,
		BlockH:   4,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case <-doneChan:
		t.Fatal("expected block to fail without scene data")
	case err := <-errChan:
		if err != ErrNoSceneData {
			t.Fatalf("expected ErrNoSceneData; got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block error")
	}
}

func makeSphereScene() *asset.Scene {
	return &asset.Scene{
		Spheres: []asset.Sphere{
			{Center: types.Vec3{0, 0, 0}, Radius: 1, Material: asset.PlainMaterialRef(0)},
		},
		Materials: []asset.Material{
			{Albedo: types.Vec3{0.7, 0.3, 0.3}, Attenuation: types.Vec3{0.9, 0.9, 0.9}, Roughness: 0.4},
		},
		Background: asset.DefaultBackground(),
	}
}

func makeTestCamera() asset.CameraState {
	camera := asset.NewCamera(45)
	camera.Position = types.Vec3{0, 0, 5}
	camera.SetupProjection(1.0)
	return camera.State()
}
