package embedding

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// negTableSize is the size of the unigram table used for negative sampling.
const negTableSize = 1 << 17

// maxExp clamps the sigmoid argument; beyond it the gradient is negligible.
const maxExp = 6.0

// skipgram is a windowed skip-gram model with negative sampling over walk
// corpora. Vertex vectors live in syn0, context vectors in syn1; only syn0
// is exposed as the learned embedding.
type skipgram struct {
	cfg   Config
	vocab []int       // vertex id per vocabulary slot
	slot  map[int]int // vertex id -> vocabulary slot
	syn0  [][]float64
	syn1  [][]float64
	neg   []int // unigram^0.75 sampling table of vocabulary slots
}

func newSkipgram(cfg Config, walks [][]int, rng *rand.Rand) *skipgram {
	counts := make(map[int]int)
	for _, w := range walks {
		for _, v := range w {
			counts[v]++
		}
	}

	m := &skipgram{cfg: cfg, slot: make(map[int]int)}
	for _, w := range walks {
		for _, v := range w {
			if _, seen := m.slot[v]; seen {
				continue
			}
			if counts[v] < cfg.MinCount {
				continue
			}
			m.slot[v] = len(m.vocab)
			m.vocab = append(m.vocab, v)
		}
	}

	m.syn0 = make([][]float64, len(m.vocab))
	m.syn1 = make([][]float64, len(m.vocab))
	for i := range m.vocab {
		m.syn0[i] = make([]float64, cfg.Dim)
		for d := range m.syn0[i] {
			m.syn0[i][d] = (rng.Float64() - 0.5) / float64(cfg.Dim)
		}
		m.syn1[i] = make([]float64, cfg.Dim)
	}

	// Unigram table with the usual 3/4 power smoothing.
	m.neg = make([]int, 0, negTableSize)
	total := 0.0
	for _, v := range m.vocab {
		total += math.Pow(float64(counts[v]), 0.75)
	}
	for s, v := range m.vocab {
		share := math.Pow(float64(counts[v]), 0.75) / total
		repeat := int(share*negTableSize) + 1
		for k := 0; k < repeat && len(m.neg) < negTableSize; k++ {
			m.neg = append(m.neg, s)
		}
	}
	for len(m.neg) < negTableSize {
		m.neg = append(m.neg, len(m.vocab)-1)
	}

	return m
}

// train runs one pass of windowed skip-gram SGD over the walk corpus. The
// learning rate decays linearly from cfg.Alpha, refreshed every
// cfg.BatchWords walks, and never drops below Alpha/10000.
func (m *skipgram) train(walks [][]int, rng *rand.Rand) {
	if len(m.vocab) == 0 {
		return
	}

	alpha := m.cfg.Alpha
	alphaMin := m.cfg.Alpha * 1e-4

	for wi, walk := range walks {
		if wi%m.cfg.BatchWords == 0 {
			alpha = m.cfg.Alpha * (1 - float64(wi)/float64(len(walks)))
			if alpha < alphaMin {
				alpha = alphaMin
			}
		}

		for pos, center := range walk {
			cs, ok := m.slot[center]
			if !ok {
				continue
			}
			// Dynamic window, as in word2vec: an effective size uniform
			// in [1, Window].
			window := 1 + rng.Intn(m.cfg.Window)
			lo := pos - window
			if lo < 0 {
				lo = 0
			}
			hi := pos + window
			if hi >= len(walk) {
				hi = len(walk) - 1
			}
			for c := lo; c <= hi; c++ {
				if c == pos {
					continue
				}
				if ctx, ok := m.slot[walk[c]]; ok {
					m.updatePair(cs, ctx, alpha, rng)
				}
			}
		}
	}
}

// updatePair applies one negative-sampling SGD step for a (center, context)
// pair of vocabulary slots.
func (m *skipgram) updatePair(center, ctx int, alpha float64, rng *rand.Rand) {
	v := m.syn0[center]
	grad := make([]float64, m.cfg.Dim)

	for k := 0; k <= m.cfg.NegativeSamples; k++ {
		target := ctx
		label := 1.0
		if k > 0 {
			target = m.neg[rng.Intn(len(m.neg))]
			if target == ctx {
				continue
			}
			label = 0
		}

		u := m.syn1[target]
		g := (label - sigmoid(floats.Dot(v, u))) * alpha
		floats.AddScaled(grad, g, u)
		floats.AddScaled(u, g, v)
	}

	floats.Add(v, grad)
}

// vectors returns the learned vertex embeddings keyed by vertex id.
func (m *skipgram) vectors() map[int][]float64 {
	out := make(map[int][]float64, len(m.vocab))
	for s, v := range m.vocab {
		out[v] = m.syn0[s]
	}
	return out
}

func sigmoid(x float64) float64 {
	if x > maxExp {
		return 1
	}
	if x < -maxExp {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}
