package asset

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/Thrillerninja/go-raytracer/types"
)

func TestTextureSample(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{255, 255, 255, 255})

	tex := NewTextureFromImage(img)
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("expected 2x2 texture; got %dx%d", tex.Width, tex.Height)
	}

	// Corner samples land exactly on texels.
	got := tex.Sample(0, 0)
	if !floatsEqual(got[0], 1) || !floatsEqual(got[1], 0) || !floatsEqual(got[2], 0) {
		t.Fatalf("expected red texel at (0,0); got %v", got)
	}
	got = tex.Sample(1, 1)
	if !floatsEqual(got[0], 1) || !floatsEqual(got[1], 1) || !floatsEqual(got[2], 1) {
		t.Fatalf("expected white texel at (1,1); got %v", got)
	}

	// Center sample blends all four texels equally.
	got = tex.Sample(0.5, 0.5)
	if !floatsEqual(got[0], 0.5) || !floatsEqual(got[1], 0.5) || !floatsEqual(got[2], 0.5) {
		t.Fatalf("expected even blend at (0.5,0.5); got %v", got)
	}
}

func TestTextureSampleWraps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	tex := NewTextureFromImage(img)

	inRange := tex.Sample(0.25, 0.25)
	wrapped := tex.Sample(1.25, -0.75)
	if inRange != wrapped {
		t.Fatalf("expected wrapped sample %v to match in-range sample %v", wrapped, inRange)
	}
}

func TestTextureSampleEquirect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{255, 255, 255, 255})
		img.Set(x, 1, color.RGBA{0, 0, 0, 255})
	}
	tex := NewTextureFromImage(img)

	up := tex.SampleEquirect(types.Vec3{0, 1, 0})
	down := tex.SampleEquirect(types.Vec3{0, -1, 0})
	if up[0] <= down[0] {
		t.Fatalf("expected up sample (%v) brighter than down sample (%v)", up, down)
	}
}

func TestLoadTextureHDR(t *testing.T) {
	// A flat (non-RLE) 2x2 radiance file. All four texels share the RGBE
	// value (128, 64, 32, 130), which decodes to roughly (2.0, 1.0, 0.5).
	header := "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2 +X 2\n"
	texel := string([]byte{128, 64, 32, 130})
	hdrFile := writeTestFile(t, "env.hdr", header+texel+texel+texel+texel)

	tex, err := LoadTexture(hdrFile)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("expected 2x2 texture; got %dx%d", tex.Width, tex.Height)
	}

	// Radiance values above 1 must survive the decode unclamped.
	got := tex.Sample(0.5, 0.5)
	if got[0] < 1.5 || got[0] > 2.1 {
		t.Fatalf("expected red radiance near 2.0; got %v", got)
	}
	if got[2] < 0.4 || got[2] > 0.6 {
		t.Fatalf("expected blue radiance near 0.5; got %v", got)
	}
}

func floatsEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-2
}
