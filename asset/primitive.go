package asset

import "github.com/Thrillerninja/go-raytracer/types"

// Id value used for unassigned material/texture references.
const NoId int32 = -1

// A material reference together with the optional texture maps that
// modulate it. Unassigned entries hold NoId.
type MaterialRef struct {
	MaterialId     int32
	DiffuseTexId   int32
	RoughnessTexId int32
	NormalTexId    int32
}

// Create a material reference with no texture maps assigned.
func PlainMaterialRef(materialId int32) MaterialRef {
	return MaterialRef{
		MaterialId:     materialId,
		DiffuseTexId:   NoId,
		RoughnessTexId: NoId,
		NormalTexId:    NoId,
	}
}

type Sphere struct {
	Center   types.Vec3
	Radius   float32
	Material MaterialRef
}

// Get sphere bounding box.
func (s *Sphere) BBox() [2]types.Vec3 {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return [2]types.Vec3{s.Center.Sub(r), s.Center.Add(r)}
}

type Triangle struct {
	V0, V1, V2 types.Vec3

	// Precomputed face normal.
	Normal types.Vec3

	// Per-vertex texture coordinates.
	UV [3]types.Vec2

	Material MaterialRef
}

// Get triangle bounding box.
func (t *Triangle) BBox() [2]types.Vec3 {
	min := types.MinVec3(types.MinVec3(t.V0, t.V1), t.V2)
	max := types.MaxVec3(types.MaxVec3(t.V0, t.V1), t.V2)
	return [2]types.Vec3{min, max}
}

// Get triangle centroid.
func (t *Triangle) Center() types.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

// Bvh nodes are stored as a flattened contiguous list. Internal nodes
// reference their left child via LeftFirst; the right child always occupies
// the next slot (LeftFirst+1). Leaf nodes set Count > 0 and use LeftFirst
// as an offset into the primitive index permutation array.
type BvhNode struct {
	Min types.Vec3
	Max types.Vec3

	LeftFirst int32
	Count     int32
}

// True if this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.Count > 0
}

// Set bounding box.
func (n *BvhNode) SetBBox(bbox [2]types.Vec3) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set left child node index. The right child is implicitly left+1.
func (n *BvhNode) SetChildNodes(left uint32) {
	n.LeftFirst = int32(left)
	n.Count = 0
}

// Get left and right child node indices.
func (n *BvhNode) ChildNodes() (left, right uint32) {
	return uint32(n.LeftFirst), uint32(n.LeftFirst) + 1
}

// Set primitive offset and count for a leaf.
func (n *BvhNode) SetPrimitives(firstPrimIndex, count uint32) {
	n.LeftFirst = int32(firstPrimIndex)
	n.Count = int32(count)
}

// Get primitive offset and count.
func (n *BvhNode) Primitives() (firstPrimIndex, count uint32) {
	return uint32(n.LeftFirst), uint32(n.Count)
}
