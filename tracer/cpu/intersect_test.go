package cpu

import (
	"math"
	"testing"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/types"
)

func TestIntersectSphere(t *testing.T) {
	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		expT   float32
	}
	sphere := asset.Sphere{
		Center:   types.Vec3{0, 0, 0},
		Radius:   1,
		Material: asset.PlainMaterialRef(0),
	}
	specs := []spec{
		// Head-on hit from -Z.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 4.0},
		// Aimed away.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, -1},
		// Clear miss.
		{types.Vec3{0, 5, -5}, types.Vec3{0, 0, 1}, -1},
		// Sphere behind the ray.
		{types.Vec3{0, 0, 5}, types.Vec3{0, 0, 1}, -1},
	}

	for index, s := range specs {
		tHit := intersectSphere(s.origin, s.dir, &sphere)
		if s.expT == -1 {
			if tHit != -1 {
				t.Fatalf("[spec %d] expected miss; got t %f", index, tHit)
			}
			continue
		}
		if math.Abs(float64(tHit-s.expT)) > 1e-4 {
			t.Fatalf("[spec %d] expected t %f; got %f", index, s.expT, tHit)
		}
	}
}

func TestIntersectTriangle(t *testing.T) {
	type spec struct {
		origin types.Vec3
		dir    types.Vec3
		expT   float32
	}
	tri := asset.Triangle{
		V0:       types.Vec3{0, 0, 0},
		V1:       types.Vec3{1, 0, 0},
		V2:       types.Vec3{0, 1, 0},
		Normal:   types.Vec3{0, 0, 1},
		Material: asset.PlainMaterialRef(0),
	}
	specs := []spec{
		// Hit inside the triangle.
		{types.Vec3{0.2, 0.2, 1}, types.Vec3{0, 0, -1}, 1.0},
		// Outside the triangle.
		{types.Vec3{2, 2, 1}, types.Vec3{0, 0, -1}, -1},
		// Parallel to the triangle plane.
		{types.Vec3{0.2, 0.2, 1}, types.Vec3{1, 0, 0}, -1},
		// Triangle behind the ray.
		{types.Vec3{0.2, 0.2, -1}, types.Vec3{0, 0, -1}, -1},
	}

	for index, s := range specs {
		tHit, _, _ := intersectTriangle(s.origin, s.dir, &tri)
		if s.expT == -1 {
			if tHit != -1 {
				t.Fatalf("[spec %d] expected miss; got t %f", index, tHit)
			}
			continue
		}
		if math.Abs(float64(tHit-s.expT)) > 1e-4 {
			t.Fatalf("[spec %d] expected t %f; got %f", index, s.expT, tHit)
		}
	}
}

func TestIntersectTriangleBarycentrics(t *testing.T) {
	tri := asset.Triangle{
		V0: types.Vec3{0, 0, 0},
		V1: types.Vec3{1, 0, 0},
		V2: types.Vec3{0, 1, 0},
	}

	_, u, v := intersectTriangle(types.Vec3{0.25, 0.5, 1}, types.Vec3{0, 0, -1}, &tri)
	if math.Abs(float64(u-0.25)) > 1e-4 || math.Abs(float64(v-0.5)) > 1e-4 {
		t.Fatalf("expected barycentrics (0.25, 0.5); got (%f, %f)", u, v)
	}
}

func TestIntersectAABB(t *testing.T) {
	type spec struct {
		origin  types.Vec3
		dir     types.Vec3
		maxDist float32
		expHit  bool
	}
	boxMin := types.Vec3{-1, -1, -1}
	boxMax := types.Vec3{1, 1, 1}
	specs := []spec{
		// Head-on hit.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 100, true},
		// Box behind ray.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, -1}, 100, false},
		// Beyond max distance.
		{types.Vec3{0, 0, -5}, types.Vec3{0, 0, 1}, 2, false},
		// Origin inside the box.
		{types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, 100, true},
		// Axis-parallel ray outside a slab; division by zero must not
		// produce a false positive.
		{types.Vec3{5, 0, -5}, types.Vec3{0, 0, 1}, 100, false},
	}

	for index, s := range specs {
		invDir := types.Vec3{1 / s.dir[0], 1 / s.dir[1], 1 / s.dir[2]}
		_, hit := intersectAABB(s.origin, invDir, boxMin, boxMax, s.maxDist)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit=%v; got %v", index, s.expHit, hit)
		}
	}
}
