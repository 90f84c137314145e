package embedding

import (
	"math/rand"
	"sync"
)

// sampleWalks generates cfg.NumWalks second-order random walks per vertex
// using a bounded pool of workers. Walk (r, v) gets its own RNG from a seed
// drawn serially up front, so a fixed Trainer seed reproduces the corpus
// regardless of scheduling.
func (t *Trainer) sampleWalks(g *Graph, rng *rand.Rand) [][]int {
	verts := g.Vertices()
	if len(verts) == 0 {
		return nil
	}

	total := len(verts) * t.cfg.NumWalks
	walks := make([][]int, total)

	seeds := make([]int64, total)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	workers := t.cfg.Workers
	if workers > total {
		workers = total
	}
	jobs := make(chan int, total)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				r := rand.New(rand.NewSource(seeds[job]))
				start := verts[job%len(verts)]
				walks[job] = t.walk(g, start, r)
			}
		}()
	}
	for job := 0; job < total; job++ {
		jobs <- job
	}
	close(jobs)
	wg.Wait()

	return walks
}

// walk performs one second-order random walk of cfg.WalkLength steps from
// start. The first step samples neighbors by edge weight alone; later steps
// bias the weight by the node2vec return parameter p (going back to the
// previous node) and in-out parameter q (moving beyond the previous node's
// neighborhood).
func (t *Trainer) walk(g *Graph, start int, rng *rand.Rand) []int {
	path := make([]int, 0, t.cfg.WalkLength+1)
	path = append(path, start)

	neighbors, weights := g.Neighbors(start)
	if len(neighbors) == 0 {
		return path
	}
	path = append(path, neighbors[weightedChoice(weights, rng)])

	for len(path) < t.cfg.WalkLength+1 {
		cur := path[len(path)-1]
		prev := path[len(path)-2]

		neighbors, weights = g.Neighbors(cur)
		if len(neighbors) == 0 {
			break
		}

		biased := make([]float64, len(neighbors))
		for i, nb := range neighbors {
			w := weights[i]
			switch {
			case nb == prev:
				w /= t.cfg.P
			case g.HasEdge(prev, nb):
				// distance 1 from prev: unbiased
			default:
				w /= t.cfg.Q
			}
			biased[i] = w
		}
		path = append(path, neighbors[weightedChoice(biased, rng)])
	}
	return path
}

// weightedChoice samples an index proportionally to weights, falling back
// to uniform when the total weight is zero.
func weightedChoice(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if target <= acc {
			return i
		}
	}
	return len(weights) - 1
}
