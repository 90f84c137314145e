package pipeline

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SampleNodes picks the node subset used for graph embedding: every node
// when n <= max, otherwise max indices drawn uniformly from [0, n) without
// replacement.
func SampleNodes(n, max int, rng *rand.Rand) []int {
	if n <= max {
		nodes := make([]int, n)
		for i := range nodes {
			nodes[i] = i
		}
		return nodes
	}
	return rng.Perm(n)[:max]
}

// SimilarityMatrices converts a node embedding table into the semantic and
// spatial similarity matrices: cell (i,j) is the Euclidean distance between
// the embeddings of every ordered pair of distinct subset nodes present in
// the table, and every other cell is zero. Subset nodes without an
// embedding (isolated in the walk graph) keep all-zero rows and columns.
//
// Both outputs are currently derived from the same embedding space, so they
// are identical; the physical distance matrix feeds only the graph
// construction upstream.
func SimilarityMatrices(vecs map[int][]float64, n int, nodes []int) (semantic, spatial *mat.Dense) {
	semantic = mat.NewDense(n, n, nil)
	spatial = mat.NewDense(n, n, nil)

	for _, i := range nodes {
		vi, ok := vecs[i]
		if !ok {
			continue
		}
		for _, j := range nodes {
			if i == j {
				continue
			}
			vj, ok := vecs[j]
			if !ok {
				continue
			}
			d := floats.Distance(vi, vj, 2)
			semantic.Set(i, j, d)
			spatial.Set(i, j, d)
		}
	}
	return semantic, spatial
}
