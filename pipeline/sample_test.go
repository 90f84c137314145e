package pipeline

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSampleNodes_SmallPopulationIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	nodes := SampleNodes(30, 100, rng)
	if len(nodes) != 30 {
		t.Fatalf("expected all 30 nodes, got %d", len(nodes))
	}
	sort.Ints(nodes)
	for i, v := range nodes {
		if v != i {
			t.Fatalf("nodes[%d] = %d after sort, want %d", i, v, i)
		}
	}
}

func TestSampleNodes_LargePopulationSamplesWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	nodes := SampleNodes(500, 100, rng)
	if len(nodes) != 100 {
		t.Fatalf("expected 100 sampled nodes, got %d", len(nodes))
	}
	seen := make(map[int]bool, len(nodes))
	for _, v := range nodes {
		if v < 0 || v >= 500 {
			t.Fatalf("sampled node %d outside [0,500)", v)
		}
		if seen[v] {
			t.Fatalf("node %d sampled twice", v)
		}
		seen[v] = true
	}
}

func TestSimilarityMatrices_EmbeddedPairsOnly(t *testing.T) {
	vecs := map[int][]float64{
		0: {0, 0},
		1: {3, 4},
		// node 2 is in the subset but has no embedding
	}
	nodes := []int{0, 1, 2}

	sem, sp := SimilarityMatrices(vecs, 4, nodes)

	if got := sem.At(0, 1); got != 5 {
		t.Fatalf("sem[0][1] = %v, want 5", got)
	}
	if got := sem.At(1, 0); got != 5 {
		t.Fatalf("sem[1][0] = %v, want 5 (symmetric)", got)
	}

	// Diagonal, missing-embedding rows/columns, and out-of-subset node 3
	// all stay zero; the two outputs are identical.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if sem.At(i, j) != sp.At(i, j) {
				t.Fatalf("sem and sp differ at (%d,%d)", i, j)
			}
			if i == j && sem.At(i, j) != 0 {
				t.Fatalf("diagonal (%d,%d) = %v, want 0", i, j, sem.At(i, j))
			}
			if (i == 2 || j == 2 || i == 3 || j == 3) && sem.At(i, j) != 0 {
				t.Fatalf("cell (%d,%d) = %v, want 0 for unembedded node", i, j, sem.At(i, j))
			}
		}
	}
}
