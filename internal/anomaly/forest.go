package anomaly

import (
	"math"
	"math/rand"
)

// isolationForest is a small unsupervised outlier model. Points that are
// isolated in fewer random splits receive higher anomaly scores. The forest
// is rebuilt from a fixed seed on every Detect call, so scoring is
// reproducible for identical input.
type isolationForest struct {
	trees      []*isolationTree
	sampleSize int
}

type isolationTree struct {
	root *treeNode
}

type treeNode struct {
	left  *treeNode
	right *treeNode
	split float64
	attr  int
	size  int
}

func fitForest(data [][]float64, trees, sampleSize int, seed int64) *isolationForest {
	if sampleSize > len(data) {
		sampleSize = len(data)
	}
	rng := rand.New(rand.NewSource(seed))
	heightLimit := int(math.Ceil(math.Log2(math.Max(2, float64(sampleSize)))))

	forest := &isolationForest{
		trees:      make([]*isolationTree, 0, trees),
		sampleSize: sampleSize,
	}
	for i := 0; i < trees; i++ {
		sample := rng.Perm(len(data))[:sampleSize]
		forest.trees = append(forest.trees, &isolationTree{
			root: buildTree(data, sample, 0, heightLimit, rng),
		})
	}
	return forest
}

func buildTree(data [][]float64, indices []int, depth, limit int, rng *rand.Rand) *treeNode {
	if depth >= limit || len(indices) <= 1 {
		return &treeNode{size: len(indices)}
	}

	dims := len(data[0])
	splittable := make([]int, 0, dims)
	for attr := 0; attr < dims; attr++ {
		lo, hi := attrRange(data, indices, attr)
		if hi > lo {
			splittable = append(splittable, attr)
		}
	}
	if len(splittable) == 0 {
		return &treeNode{size: len(indices)}
	}

	attr := splittable[rng.Intn(len(splittable))]
	lo, hi := attrRange(data, indices, attr)
	split := lo + rng.Float64()*(hi-lo)

	var left, right []int
	for _, idx := range indices {
		if data[idx][attr] < split {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		attr:  attr,
		split: split,
		left:  buildTree(data, left, depth+1, limit, rng),
		right: buildTree(data, right, depth+1, limit, rng),
	}
}

func attrRange(data [][]float64, indices []int, attr int) (float64, float64) {
	lo, hi := data[indices[0]][attr], data[indices[0]][attr]
	for _, idx := range indices[1:] {
		v := data[idx][attr]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// score returns the anomaly score in (0, 1); higher means more isolated.
func (f *isolationForest) score(point []float64) float64 {
	var total float64
	for _, tree := range f.trees {
		total += pathLength(tree.root, point, 0)
	}
	mean := total / float64(len(f.trees))
	return math.Pow(2, -mean/avgPathLength(f.sampleSize))
}

func pathLength(node *treeNode, point []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if point[node.attr] < node.split {
		return pathLength(node.left, point, depth+1)
	}
	return pathLength(node.right, point, depth+1)
}

// avgPathLength is the expected path length of an unsuccessful BST search,
// the standard normalization term for isolation forests.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	harmonic := math.Log(float64(n-1)) + 0.5772156649
	return 2*harmonic - 2*float64(n-1)/float64(n)
}
