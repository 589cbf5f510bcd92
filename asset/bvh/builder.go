package bvh

import (
	"math"
	"time"

	"github.com/Thrillerninja/go-raytracer/asset"
	"github.com/Thrillerninja/go-raytracer/log"
	"github.com/Thrillerninja/go-raytracer/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

const (
	// Tree depth cap. The traversal kernel uses a fixed 32-entry stack;
	// a binary tree of this depth never pushes more entries than that.
	MaxDepth = 30

	// The builder will not attempt to calculate split candidates if the
	// node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// If the split step (calculated as side length / (1024 * depth+1))
	// is less than this threshold the builder will not evaluate split
	// candidates.
	minSplitStep float32 = 1e-5
)

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type stats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
}

// A triangle reference carried through partitioning; index points back to
// the source triangle slice.
type workItem struct {
	index  uint32
	bbox   [2]types.Vec3
	center types.Vec3
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list. Each internal node's
	// children occupy two adjacent slots.
	nodes []asset.BvhNode

	// The primitive index permutation referenced by leaf nodes.
	indices []uint32

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	stats stats
}

// Construct a flattened BVH from a triangle list.
//
// The builder uses SAH for scoring splits:
// score = num_polygons * node bbox face area.
//
// It returns the node list plus the primitive index permutation that leaf
// nodes reference. The root occupies slot 0; every internal node's right
// child directly follows its left child.
func Build(triangles []asset.Triangle, minLeafItems int) ([]asset.BvhNode, []uint32) {
	b := &builder{
		logger:       log.New("bvh builder"),
		nodes:        make([]asset.BvhNode, 0, 2*len(triangles)),
		indices:      make([]uint32, 0, len(triangles)),
		minLeafItems: minLeafItems,
		scoreChan:    make(chan splitScore, 0),
		stats: stats{
			totalItems: len(triangles),
		},
	}

	if len(triangles) == 0 {
		return b.nodes, b.indices
	}

	workList := make([]workItem, len(triangles))
	for i := range triangles {
		workList[i] = workItem{
			index:  uint32(i),
			bbox:   triangles[i].BBox(),
			center: triangles[i].Center(),
		}
	}

	start := time.Now()
	b.nodes = append(b.nodes, asset.BvhNode{})
	b.partition(0, workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes, b.indices
}

// Partition workList into the node at nodeIndex.
func (b *builder) partition(nodeIndex int, workList []workItem, depth int) {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
	b.stats.nodes++

	bbox := [2]types.Vec3{
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, item := range workList {
		bbox[0] = types.MinVec3(bbox[0], item.bbox[0])
		bbox[1] = types.MaxVec3(bbox[1], item.bbox[1])
	}
	b.nodes[nodeIndex].SetBBox(bbox)

	// Do we have enough items for partitioning? If not create a leaf.
	// The depth cap keeps the tree inside the traversal stack guarantee.
	if len(workList) <= b.minLeafItems || depth >= MaxDepth-1 {
		b.createLeaf(nodeIndex, workList)
		return
	}

	// Calc current node score.
	bestScore := scorePartition(workList)
	var bestSplit *splitScore

	// Try partitioning along each axis and select the split with the
	// best score. Axis split tests run in parallel.
	pendingScores := 0
	side := bbox[1].Sub(bbox[0])
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small.
		if side[axis] < minSideLength {
			continue
		}

		// We want the split steps to become more granular the deeper we go.
		splitStep := side[axis] / (1024.0 / float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := bbox[0][axis]; splitPoint < bbox[1][axis]; splitPoint += splitStep {
			pendingScores++
			go func(axis Axis, splitPoint float32) {
				lCount, rCount, score := scoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,

					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, splitPoint)
		}
	}

	// Process all scores and pick the best split.
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	// If we can't find a split that improves the current node score
	// create a leaf.
	if bestSplit == nil {
		b.createLeaf(nodeIndex, workList)
		return
	}

	// Split work list into two sets.
	leftWorkList := make([]workItem, 0, bestSplit.leftCount)
	rightWorkList := make([]workItem, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.center[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	// Allocate both children adjacently so the node only needs to store
	// the left index.
	leftIndex := len(b.nodes)
	b.nodes = append(b.nodes, asset.BvhNode{}, asset.BvhNode{})
	b.nodes[nodeIndex].SetChildNodes(uint32(leftIndex))

	b.partition(leftIndex, leftWorkList, depth+1)
	b.partition(leftIndex+1, rightWorkList, depth+1)
}

// Setup the node at nodeIndex as a leaf containing all items in the work
// list.
func (b *builder) createLeaf(nodeIndex int, workList []workItem) {
	first := uint32(len(b.indices))
	for _, item := range workList {
		b.indices = append(b.indices, item.index)
	}
	b.nodes[nodeIndex].SetPrimitives(first, uint32(len(workList)))

	b.stats.leafs++
	b.stats.partitionedItems += len(workList)
}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + right count * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it encounters such cases.
func scoreSplit(workList []workItem, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lmin := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	rmin := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	lmax := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	rmax := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}

	for _, item := range workList {
		if item.center[axis] < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, item.bbox[0])
			lmax = types.MaxVec3(lmax, item.bbox[1])
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, item.bbox[0])
			rmax = types.MaxVec3(rmax, item.bbox[1])
		}
	}

	// Make sure that we don't generate empty partitions.
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	lside := lmax.Sub(lmin)
	rside := rmax.Sub(rmin)
	score = (float32(leftCount) * (lside[0]*lside[1] + lside[1]*lside[2] + lside[0]*lside[2])) +
		(float32(rightCount) * (rside[0]*rside[1] + rside[1]*rside[2] + rside[0]*rside[2]))

	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area.
//
// If the workList is empty, then this function returns the worst possible
// score (MaxFloat32).
func scorePartition(workList []workItem) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	min := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}

	for _, item := range workList {
		min = types.MinVec3(min, item.bbox[0])
		max = types.MaxVec3(max, item.bbox[1])
	}

	side := max.Sub(min)
	return float32(len(workList)) * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}
