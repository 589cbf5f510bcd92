package cpu

import (
	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/types"
)

// Traversal stack capacity. The BVH builder caps tree depth below this
// value; overflow is a builder precondition, not a runtime check.
const traversalStackSize = 32

// Find the nearest triangle hit by walking the flattened BVH front to back.
// Returns the index of the hit triangle (-1 for a miss), the hit distance
// and the number of nodes visited (used by the heatmap debug view).
func traverseBvh(sc *asset.Scene, origin, dir types.Vec3, maxDist float32) (triIndex int32, dist float32, visited uint32) {
	triIndex = -1
	dist = maxDist
	if len(sc.BvhNodes) == 0 {
		return triIndex, dist, visited
	}

	invDir := types.Vec3{1.0 / dir[0], 1.0 / dir[1], 1.0 / dir[2]}
	if _, hit := intersectAABB(origin, invDir, sc.BvhNodes[0].Min, sc.BvhNodes[0].Max, dist); !hit {
		return triIndex, dist, visited
	}

	var stack [traversalStackSize]uint32
	stackLen := 1
	stack[0] = 0

	for stackLen > 0 {
		stackLen--
		node := &sc.BvhNodes[stack[stackLen]]
		visited++

		if node.IsLeaf() {
			first, count := node.Primitives()
			for _, primIndex := range sc.BvhIndices[first : first+count] {
				t, _, _ := intersectTriangle(origin, dir, &sc.Triangles[primIndex])
				// Tie slack: a hit within epsilon of the recorded distance
				// still replaces it, so coplanar overlaps resolve to the
				// last primitive tested instead of the traversal order.
				if t > 0 && t < dist+triEpsilon {
					dist = t
					triIndex = int32(primIndex)
				}
			}
			continue
		}

		left, right := node.ChildNodes()
		leftEntry, leftHit := intersectAABB(origin, invDir, sc.BvhNodes[left].Min, sc.BvhNodes[left].Max, dist)
		rightEntry, rightHit := intersectAABB(origin, invDir, sc.BvhNodes[right].Min, sc.BvhNodes[right].Max, dist)

		// Push the nearer child last so it is processed first.
		switch {
		case leftHit && rightHit:
			if leftEntry < rightEntry {
				stack[stackLen] = right
				stack[stackLen+1] = left
			} else {
				stack[stackLen] = left
				stack[stackLen+1] = right
			}
			stackLen += 2
		case leftHit:
			stack[stackLen] = left
			stackLen++
		case rightHit:
			stack[stackLen] = right
			stackLen++
		}
	}

	return triIndex, dist, visited
}
