package cpu

import (
	"math/rand"
	"testing"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/asset/bvh"
	"github.com/Thrillerninja/go-raytracer/types"
)

// BVH traversal must return the same nearest hit as a brute-force scan over
// every triangle, for any ray.
func TestTraverseMatchesBruteForce(t *testing.T) {
	sc := makeMeshScene(12)
	rng := rand.New(rand.NewSource(7))

	for rayIndex := 0; rayIndex < 500; rayIndex++ {
		origin := types.Vec3{
			rng.Float32()*14 - 1,
			3 + rng.Float32()*2,
			rng.Float32()*14 - 1,
		}
		dir := types.Vec3{
			rng.Float32()*0.4 - 0.2,
			-1,
			rng.Float32()*0.4 - 0.2,
		}

		bvhIndex, bvhDist, _ := traverseBvh(sc, origin, dir, 1000.0)

		bruteIndex := int32(-1)
		bruteDist := float32(1000.0)
		for triIndex := range sc.Triangles {
			tHit, _, _ := intersectTriangle(origin, dir, &sc.Triangles[triIndex])
			if tHit > 0 && tHit < bruteDist {
				bruteDist = tHit
				bruteIndex = int32(triIndex)
			}
		}

		if bvhIndex != bruteIndex {
			t.Fatalf("[ray %d] expected primitive %d; got %d", rayIndex, bruteIndex, bvhIndex)
		}
		if bvhIndex != -1 && bvhDist != bruteDist {
			t.Fatalf("[ray %d] expected distance %f; got %f", rayIndex, bruteDist, bvhDist)
		}
	}
}

// Two coplanar triangles at the same depth share a leaf; the epsilon tie
// slack keeps the last primitive tested rather than whichever the traversal
// order reaches first.
func TestTraverseTieSlack(t *testing.T) {
	tri := asset.Triangle{
		V0:       types.Vec3{-1, -1, 5},
		V1:       types.Vec3{1, -1, 5},
		V2:       types.Vec3{0, 1, 5},
		Material: asset.PlainMaterialRef(0),
	}
	tri.Normal = types.Vec3{0, 0, -1}
	triangles := []asset.Triangle{tri, tri}

	nodes, indices := bvh.Build(triangles, 4)
	sc := &asset.Scene{
		Triangles:  triangles,
		BvhNodes:   nodes,
		BvhIndices: indices,
		Materials:  []asset.Material{asset.DefaultMaterial()},
		Background: asset.DefaultBackground(),
	}

	triIndex, dist, _ := traverseBvh(sc, types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, 100)
	if triIndex != 1 {
		t.Fatalf("expected the tie to resolve to primitive 1; got %d", triIndex)
	}
	if dist < 4.999 || dist > 5.001 {
		t.Fatalf("expected hit distance 5; got %f", dist)
	}
}

func TestTraverseEmptyScene(t *testing.T) {
	sc := &asset.Scene{Background: asset.DefaultBackground()}
	triIndex, _, visited := traverseBvh(sc, types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, 100)
	if triIndex != -1 {
		t.Fatalf("expected miss on empty scene; got primitive %d", triIndex)
	}
	if visited != 0 {
		t.Fatalf("expected no node visits on empty scene; got %d", visited)
	}
}

// Build a scene containing a dim x dim grid of perturbed triangles with a
// BVH over them.
func makeMeshScene(dim int) *asset.Scene {
	rng := rand.New(rand.NewSource(11))
	triangles := make([]asset.Triangle, 0, dim*dim)
	for z := 0; z < dim; z++ {
		for x := 0; x < dim; x++ {
			origin := types.Vec3{float32(x), rng.Float32(), float32(z)}
			tri := asset.Triangle{
				V0:       origin,
				V1:       origin.Add(types.Vec3{0.9, 0, 0}),
				V2:       origin.Add(types.Vec3{0, 0, 0.9}),
				Material: asset.PlainMaterialRef(0),
			}
			tri.Normal = tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Normalize()
			triangles = append(triangles, tri)
		}
	}

	nodes, indices := bvh.Build(triangles, 2)
	return &asset.Scene{
		Triangles:  triangles,
		BvhNodes:   nodes,
		BvhIndices: indices,
		Materials:  []asset.Material{asset.DefaultMaterial()},
		Background: asset.DefaultBackground(),
	}
}
