package cpu

import (
	"math"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Epsilon policy for the intersection kernels. Historical shader variants
// disagreed on these values; the constants below are the single set used
// everywhere in this implementation.
const (
	// Discriminant slack for the sphere quadratic. Slightly negative so
	// grazing rays still register.
	sphereDiscEpsilon float32 = -1e-5

	// Determinant/barycentric slack for the triangle test.
	triEpsilon float32 = 1e-6

	// Minimum hit distance; guards against self-intersection.
	minHitDistance float32 = 1e-5
)

// Intersect a ray with a sphere. Returns the nearer quadratic root or -1
// when the ray misses or the root is non-positive.
func intersectSphere(origin, dir types.Vec3, sp *asset.Sphere) float32 {
	oc := origin.Sub(sp.Center)
	a := dir.Dot(dir)
	b := 2.0 * oc.Dot(dir)
	c := oc.Dot(oc) - sp.Radius*sp.Radius

	disc := b*b - 4.0*a*c
	if disc < sphereDiscEpsilon {
		return -1
	}
	if disc < 0 {
		disc = 0
	}

	t := (-b - float32(math.Sqrt(float64(disc)))) / (2.0 * a)
	if t <= 0 {
		return -1
	}
	return t
}

// Intersect a ray with a triangle using the Moller-Trumbore algorithm.
// Returns the hit distance and the barycentric (u, v) coordinates of the
// hit, or -1 for a miss.
func intersectTriangle(origin, dir types.Vec3, tri *asset.Triangle) (t, u, v float32) {
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)

	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -triEpsilon && det < triEpsilon {
		// Ray is parallel to the triangle plane.
		return -1, 0, 0
	}
	invDet := 1.0 / det

	tvec := origin.Sub(tri.V0)
	u = tvec.Dot(pvec) * invDet
	if u < -triEpsilon || u > 1.0+triEpsilon {
		return -1, 0, 0
	}

	qvec := tvec.Cross(edge1)
	v = dir.Dot(qvec) * invDet
	if v < -triEpsilon || u+v > 1.0+triEpsilon {
		return -1, 0, 0
	}

	t = edge2.Dot(qvec) * invDet
	if t < minHitDistance {
		return -1, 0, 0
	}
	return t, u, v
}

// Intersect a ray with an axis-aligned bounding box using the slab method.
// invDir holds the per-axis reciprocal ray direction; infinities from zero
// components behave correctly. Returns the entry distance and whether the
// box is hit within maxDist.
func intersectAABB(origin, invDir, boxMin, boxMax types.Vec3, maxDist float32) (float32, bool) {
	var entry float32 = -math.MaxFloat32
	var exit float32 = math.MaxFloat32

	for axis := 0; axis < 3; axis++ {
		t0 := (boxMin[axis] - origin[axis]) * invDir[axis]
		t1 := (boxMax[axis] - origin[axis]) * invDir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > entry {
			entry = t0
		}
		if t1 < exit {
			exit = t1
		}
	}

	return entry, entry <= exit && exit > 0 && entry < maxDist
}
