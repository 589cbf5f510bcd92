package asset

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// Keep the pitch away from the poles so the view basis stays well defined.
const maxPitch = float32(math.Pi/2) * 0.99

// The camera type controls the scene viewpoint. Yaw and pitch are applied
// to a -Z reference direction; the projection uses a vertical FOV in
// degrees.
type Camera struct {
	Position types.Vec3
	Yaw      float32
	Pitch    float32
	WorldUp  types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	Near float32
	Far  float32

	// Number of frames rendered from the current scene.
	FrameIndex uint32

	ViewMat types.Mat4
	ProjMat types.Mat4
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		WorldUp: types.Vec3{0, 1, 0},
		FOV:     fov,
		Near:    0.1,
		Far:     100.0,
		ViewMat: types.Ident4(),
		ProjMat: types.Ident4(),
	}
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, c.Near, c.Far)
	c.Update()
}

// Get the current look direction.
func (c *Camera) LookDir() types.Vec3 {
	cosPitch := float32(math.Cos(float64(c.Pitch)))
	return types.Vec3{
		cosPitch * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		-cosPitch * float32(math.Cos(float64(c.Yaw))),
	}
}

// Update camera view matrix from the current position and orientation.
func (c *Camera) Update() {
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	} else if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	dir := c.LookDir()
	c.ViewMat = types.LookAtV(c.Position, c.Position.Add(dir), c.WorldUp)
}

// Move the camera along one of its local axes.
func (c *Camera) Move(dir CameraDirection, distance float32) {
	forward := c.LookDir()
	right := forward.Cross(c.WorldUp).Normalize()

	switch dir {
	case Forward:
		c.Position = c.Position.Add(forward.Mul(distance))
	case Backward:
		c.Position = c.Position.Sub(forward.Mul(distance))
	case Left:
		c.Position = c.Position.Sub(right.Mul(distance))
	case Right:
		c.Position = c.Position.Add(right.Mul(distance))
	case Up:
		c.Position = c.Position.Add(c.WorldUp.Mul(distance))
	case Down:
		c.Position = c.Position.Sub(c.WorldUp.Mul(distance))
	}

	c.Update()
}

// Apply yaw/pitch deltas (radians).
func (c *Camera) Rotate(yawDelta, pitchDelta float32) {
	c.Yaw += yawDelta
	c.Pitch += pitchDelta
	c.Update()
}

// Get the combined view-projection matrix.
func (c *Camera) ViewProjMat() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat)
}

// A plain-value snapshot of the camera consumed by tracing kernels. The
// renderer keeps the previous frame's state around for motion-aware
// denoising.
type CameraState struct {
	Position    types.Vec3
	Forward     types.Vec3
	Up          types.Vec3
	FOV         float32
	ViewProjMat types.Mat4
	FrameIndex  uint32
}

// Capture an immutable snapshot of the camera state.
func (c *Camera) State() CameraState {
	return CameraState{
		Position:    c.Position,
		Forward:     c.LookDir(),
		Up:          c.WorldUp,
		FOV:         c.FOV,
		ViewProjMat: c.ViewProjMat(),
		FrameIndex:  c.FrameIndex,
	}
}
