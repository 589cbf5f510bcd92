package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4 is a column-major 4x4 matrix. All heavy lifting (perspective,
// look-at, inversion) is delegated to mathgl.
type Mat4 = mgl32.Mat4

// Create identity matrix.
func Ident4() Mat4 {
	return mgl32.Ident4()
}

// Create a perspective projection matrix. The vertical FOV is given in
// degrees.
func Perspective4(fovDegrees, aspect, near, far float32) Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, near, far)
}

// Create a right-handed look-at view matrix.
func LookAtV(eye, center, up Vec3) Mat4 {
	return mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up))
}

// Transform a point by the matrix and apply the perspective divide.
func TransformPoint(m Mat4, p Vec3) Vec3 {
	v := m.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	if v[3] == 0 {
		return Vec3{v[0], v[1], v[2]}
	}
	inv := 1.0 / v[3]
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Frobenius norm of the element-wise difference between two matrices.
// Used as a cheap rotation-magnitude proxy when comparing view-projection
// matrices across frames.
func FrobeniusDelta(a, b Mat4) float32 {
	var sum float32
	for i := 0; i < 16; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum)))
}
