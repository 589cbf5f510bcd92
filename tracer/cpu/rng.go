package cpu

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/types"
)

const twoPi float32 = 2.0 * math.Pi

// A small deterministic PCG-style random stream. Each (pixel, frame) pair
// derives its own seed so reruns with identical inputs produce bit-identical
// sample sequences.
type rng struct {
	state uint32
}

// Seed a stream for the given pixel and frame.
func newRNG(px, py, frameW, frameIndex uint32) rng {
	return rng{
		state: jenkinsHash(px+py*frameW) ^ jenkinsHash(frameIndex),
	}
}

// Integer avalanche hash (Jenkins-style bit mixing).
func jenkinsHash(x uint32) uint32 {
	x += x << 10
	x ^= x >> 6
	x += x << 3
	x ^= x >> 11
	x += x << 15
	return x
}

// Advance the stream and return a uniform float in [0, 1). Only the top 24
// bits feed the mantissa; a full 32-bit quotient can round up to exactly 1.
func (r *rng) next() float32 {
	r.state = r.state*747796405 + 2891336453
	word := ((r.state >> ((r.state >> 28) + 4)) ^ r.state) * 277803737
	word = (word >> 22) ^ word
	return float32(word>>8) / 16777216.0
}

// Draw a point uniformly distributed in the unit disk.
func (r *rng) unitDisk() types.Vec2 {
	radius := float32(math.Sqrt(float64(r.next())))
	theta := r.next() * twoPi
	return types.Vec2{
		radius * float32(math.Cos(float64(theta))),
		radius * float32(math.Sin(float64(theta))),
	}
}

// Draw a point uniformly distributed in the unit sphere.
func (r *rng) unitSphere() types.Vec3 {
	radius := float32(math.Cbrt(float64(r.next())))
	theta := r.next() * twoPi
	phi := r.next() * math.Pi

	sinPhi := float32(math.Sin(float64(phi)))
	return types.Vec3{
		radius * sinPhi * float32(math.Cos(float64(theta))),
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
	}
}
