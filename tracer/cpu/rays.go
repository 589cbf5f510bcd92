package cpu

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Generate a jittered primary ray for a pixel. The ray passes through a
// virtual viewport placed at the focus distance; with a non-zero lens
// radius the origin is offset on the lens disk while still aiming through
// the same focal-plane point, producing depth of field.
func generateRay(px, py, frameW, frameH uint32, camera *asset.CameraState, cfg *asset.ShaderConfig, rnd *rng) (origin, dir types.Vec3) {
	forward := camera.Forward.Normalize()
	right := forward.Cross(camera.Up).Normalize()
	up := right.Cross(forward)

	theta := camera.FOV * math.Pi / 180.0
	halfHeight := float32(math.Tan(float64(theta / 2.0)))
	aspect := float32(frameW) / float32(frameH)
	halfWidth := aspect * halfHeight

	focus := cfg.FocusDistance
	lowerLeft := camera.Position.
		Add(forward.Mul(focus)).
		Sub(right.Mul(halfWidth * focus)).
		Sub(up.Mul(halfHeight * focus))
	horizontal := right.Mul(2.0 * halfWidth * focus)
	vertical := up.Mul(2.0 * halfHeight * focus)

	// Sub-pixel jitter for antialiasing. Row 0 maps to the top of the
	// viewport.
	u := (float32(px) + rnd.next()) / float32(frameW)
	v := 1.0 - (float32(py)+rnd.next())/float32(frameH)

	lensRadius := cfg.LensRadius
	if lensRadius == 0 {
		lensRadius = cfg.Aperture / 2.0
	}
	disk := rnd.unitDisk().Mul(lensRadius)
	offset := right.Mul(disk[0]).Add(up.Mul(disk[1]))

	origin = camera.Position.Add(offset)
	dir = lowerLeft.
		Add(horizontal.Mul(u)).
		Add(vertical.Mul(v)).
		Sub(origin)
	return origin, dir
}
