package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"runtime"
	"time"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/asset/bvh"
	"github.com/Thrillerninja/go-raytracer/renderer"
	"github.com/Thrillerninja/go-raytracer/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Max primitives per BVH leaf.
const bvhMinLeafSize = 4

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := rendererOptions(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Notice("rendering frame")
	if err = r.Render(); err != nil {
		return err
	}

	// Export PNG
	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, r.Frame()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	displayFrameStats(r.Stats())
	return nil
}

// Use opengl to render a continuously updating view of the scene.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()

	opts := rendererOptions(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.NewInteractive(sc, tracer.PerfectScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}

// Assemble renderer options from the command line flags.
func rendererOptions(ctx *cli.Context) renderer.Options {
	config := asset.DefaultShaderConfig()
	if spp := ctx.Int("spp"); spp > 0 {
		config.SamplesPerPixel = int32(spp)
	}
	if bounces := ctx.Int("num-bounces"); bounces > 0 {
		config.MaxBounces = int32(bounces)
	}
	config.DebugRandColor = ctx.Bool("debug-rand-color")
	config.DebugBvhHeat = ctx.Bool("debug-bvh-heat")
	config.DebugNormals = ctx.Bool("debug-normals")

	return renderer.Options{
		FrameW:     uint32(ctx.Int("width")),
		FrameH:     uint32(ctx.Int("height")),
		Exposure:   float32(ctx.Float64("exposure")),
		NumWorkers: ctx.Int("workers"),
		Config:     config,
	}
}

// Load the scene given as the command argument and build its BVH.
func loadScene(ctx *cli.Context) (*asset.Scene, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	sc, err := asset.ReadScene(ctx.Args().First())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sc.BvhNodes, sc.BvhIndices = bvh.Build(sc.Triangles, bvhMinLeafSize)
	logger.Noticef("built BVH (%d nodes) in %d ms", len(sc.BvhNodes), time.Since(start).Nanoseconds()/1e6)

	return sc, nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Primary", "Block height", "% of frame", "Update time", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%t", stat.IsPrimary),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%s", stat.UpdateTime),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
