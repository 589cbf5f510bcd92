package cpu

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/tracer"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Non-local means weighting constants. The spatial falloff mirrors the
// bilateral filter defaults; h controls how quickly patch dissimilarity
// suppresses a neighbor.
const (
	nlmSpaceSigma float32 = 100.0
	nlmH          float32 = 0.1
)

// Evaluate one denoise filter for one pixel and write the result into the
// scratch buffer. Filters only ever read the stable color/temporal buffers
// so concurrent per-pixel evaluation is safe; the renderer commits scratch
// data between passes.
func denoisePixel(kind asset.FilterKind, b *tracer.Buffers, cfg *asset.ShaderConfig, camera, prevCamera *asset.CameraState, px, py uint32) {
	var out types.Vec3
	switch kind {
	case asset.FilterSpatialBox:
		out = boxFilter(b, cfg.SpatialKernelSize, px, py)
	case asset.FilterBilateral:
		out = bilateralFilter(b, cfg, px, py)
	case asset.FilterNonLocalMeans:
		out = nlmFilter(b, cfg, px, py)
	case asset.FilterTemporalBasic:
		out = temporalBlend(b, px, py,
			cfg.TemporalBasicLowThreshold, cfg.TemporalBasicHighThreshold,
			cfg.TemporalBasicLowBlendFactor, cfg.TemporalBasicHighBlendFactor,
		)
	case asset.FilterTemporalAdaptive:
		out = temporalAdaptive(b, cfg, camera, prevCamera, px, py)
	default:
		out = pixelRGB(b.Color, b.FrameW, px, py)
	}

	offset := (py*b.FrameW + px) * 4
	b.Scratch[offset] = out[0]
	b.Scratch[offset+1] = out[1]
	b.Scratch[offset+2] = out[2]
	b.Scratch[offset+3] = 1.0
}

// Arithmetic mean over a (2k+1)x(2k+1) neighborhood of the color buffer.
func boxFilter(b *tracer.Buffers, radius int32, px, py uint32) types.Vec3 {
	var sum types.Vec3
	var count float32

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny, ok := neighbor(b, px, py, dx, dy)
			if !ok {
				continue
			}
			sum = sum.Add(pixelRGB(b.Color, b.FrameW, nx, ny))
			count++
		}
	}
	return sum.Mul(1.0 / count)
}

// Weight each neighbor of the temporal buffer by a spatial and a color
// Gaussian term.
func bilateralFilter(b *tracer.Buffers, cfg *asset.ShaderConfig, px, py uint32) types.Vec3 {
	center := pixelRGB(b.Temporal, b.FrameW, px, py)
	spaceDenom := 2.0 * cfg.SpatialBilatSpaceSigma * cfg.SpatialBilatSpaceSigma
	colorDenom := 2.0 * cfg.SpatialBilatColorSigma * cfg.SpatialBilatColorSigma

	var sum types.Vec3
	var totalWeight float32

	radius := cfg.SpatialBilatRadius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny, ok := neighbor(b, px, py, dx, dy)
			if !ok {
				continue
			}
			sample := pixelRGB(b.Temporal, b.FrameW, nx, ny)

			spatialDistSq := float32(dx*dx + dy*dy)
			colorDistSq := sample.Sub(center).LenSq()
			weight := expf(-spatialDistSq/spaceDenom) * expf(-colorDistSq/colorDenom)

			sum = sum.Add(sample.Mul(weight))
			totalWeight += weight
		}
	}
	return sum.Mul(1.0 / totalWeight)
}

// Non-local means: weight each neighbor of the color buffer by the
// similarity of the patches surrounding it and the center pixel.
func nlmFilter(b *tracer.Buffers, cfg *asset.ShaderConfig, px, py uint32) types.Vec3 {
	spaceDenom := 2.0 * nlmSpaceSigma * nlmSpaceSigma
	hSq := nlmH * nlmH

	var sum types.Vec3
	var totalWeight float32

	radius := cfg.SpatialNlmCompareRadius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny, ok := neighbor(b, px, py, dx, dy)
			if !ok {
				continue
			}

			spatialDistSq := float32(dx*dx + dy*dy)
			patchDist := patchDistance(b, px, py, nx, ny, cfg.SpatialNlmPatchRadius)
			weight := expf(-spatialDistSq/spaceDenom) * expf(-patchDist/hSq)

			// Insignificant contributions are skipped entirely.
			if weight < cfg.SpatialNlmSignificantWeight && (dx != 0 || dy != 0) {
				continue
			}

			sum = sum.Add(pixelRGB(b.Color, b.FrameW, nx, ny).Mul(weight))
			totalWeight += weight
		}
	}
	return sum.Mul(1.0 / totalWeight)
}

// Mean squared color distance between the patches centered on two pixels.
func patchDistance(b *tracer.Buffers, ax, ay, bx, by uint32, radius int32) float32 {
	var dist float32
	var count float32

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			pax, pay, okA := neighbor(b, ax, ay, dx, dy)
			pbx, pby, okB := neighbor(b, bx, by, dx, dy)
			if !okA || !okB {
				continue
			}
			diff := pixelRGB(b.Color, b.FrameW, pax, pay).
				Sub(pixelRGB(b.Color, b.FrameW, pbx, pby))
			dist += diff.LenSq()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return dist / count
}

// Blend the current color with the temporal history. The blend factor ramps
// between the low and high factor over a smoothstep of the color distance.
func temporalBlend(b *tracer.Buffers, px, py uint32, lowThreshold, highThreshold, lowBlend, highBlend float32) types.Vec3 {
	current := pixelRGB(b.Color, b.FrameW, px, py)
	previous := pixelRGB(b.Temporal, b.FrameW, px, py)

	colorDist := current.Sub(previous).Len()
	factor := lowBlend + (highBlend-lowBlend)*smoothstep(lowThreshold, highThreshold, colorDist)
	return previous.Mix(current, factor)
}

// As temporalBlend but bypassed entirely while the camera is in motion,
// avoiding ghosting.
func temporalAdaptive(b *tracer.Buffers, cfg *asset.ShaderConfig, camera, prevCamera *asset.CameraState, px, py uint32) types.Vec3 {
	translation := camera.Position.Sub(prevCamera.Position).Len()
	// Rotation proxy: per-element mean of the view-projection delta.
	rotation := types.FrobeniusDelta(camera.ViewProjMat, prevCamera.ViewProjMat) / 16.0

	if translation > cfg.TemporalAdaptiveMotionThreshold || rotation > cfg.TemporalAdaptiveDirectionThreshold {
		return pixelRGB(b.Color, b.FrameW, px, py)
	}

	return temporalBlend(b, px, py,
		cfg.TemporalAdaptiveLowThreshold, cfg.TemporalAdaptiveHighThreshold,
		cfg.TemporalAdaptiveLowBlendFactor, cfg.TemporalAdaptiveHighBlendFactor,
	)
}

func pixelRGB(buf []float32, frameW, px, py uint32) types.Vec3 {
	offset := (py*frameW + px) * 4
	return types.Vec3{buf[offset], buf[offset+1], buf[offset+2]}
}

// Clamp-free neighbor lookup; out-of-frame offsets report ok=false so
// filters can renormalize at the frame edges.
func neighbor(b *tracer.Buffers, px, py uint32, dx, dy int32) (uint32, uint32, bool) {
	x := int64(px) + int64(dx)
	y := int64(py) + int64(dy)
	if x < 0 || y < 0 || x >= int64(b.FrameW) || y >= int64(b.FrameH) {
		return 0, 0, false
	}
	return uint32(x), uint32(y), true
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3.0 - 2.0*t)
}

func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}
