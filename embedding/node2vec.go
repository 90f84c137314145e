package embedding

import (
	"math/rand"
	"time"
)

// Config holds the node2vec hyperparameters. Zero values fall back to the
// defaults below in NewTrainer.
type Config struct {
	// Dim is the embedding dimensionality. Default 64.
	Dim int

	// WalkLength is the number of steps per random walk. Default 30.
	WalkLength int

	// NumWalks is the number of walks started from each vertex. Default 200.
	NumWalks int

	// Window is the skip-gram context window. Default 10.
	Window int

	// MinCount drops vertices that appear fewer than this many times in the
	// walk corpus. Default 1 (keep everything that was ever walked).
	MinCount int

	// BatchWords is the number of walks consumed between learning-rate
	// updates. Default 4.
	BatchWords int

	// NegativeSamples per positive pair. Default 5.
	NegativeSamples int

	// Workers bounds the walk-sampling goroutine pool. Default 4. Training
	// itself is single-threaded.
	Workers int

	// P is the return parameter: the chance of stepping back to the
	// previous node scales with 1/P. Default 1 (unbiased).
	P float64

	// Q is the in-out parameter: the chance of stepping outside the
	// previous node's neighborhood scales with 1/Q. Default 1 (unbiased).
	Q float64

	// Alpha is the initial learning rate, decayed linearly over training.
	// Default 0.025.
	Alpha float64

	// Seed controls walk sampling and weight init. If zero, a time-based
	// seed is used and runs are not reproducible.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.Dim == 0 {
		c.Dim = 64
	}
	if c.WalkLength == 0 {
		c.WalkLength = 30
	}
	if c.NumWalks == 0 {
		c.NumWalks = 200
	}
	if c.Window == 0 {
		c.Window = 10
	}
	if c.MinCount == 0 {
		c.MinCount = 1
	}
	if c.BatchWords == 0 {
		c.BatchWords = 4
	}
	if c.NegativeSamples == 0 {
		c.NegativeSamples = 5
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.P == 0 {
		c.P = 1
	}
	if c.Q == 0 {
		c.Q = 1
	}
	if c.Alpha == 0 {
		c.Alpha = 0.025
	}
	return c
}

// Trainer runs the walk-then-train node2vec procedure.
type Trainer struct {
	cfg Config
}

// NewTrainer returns a trainer with defaults applied to cfg.
func NewTrainer(cfg Config) *Trainer {
	return &Trainer{cfg: cfg.withDefaults()}
}

// Fit samples the walk corpus from g and trains skip-gram embeddings over
// it. The result maps vertex index to a Dim-length vector; vertices that
// never appeared in a walk (in particular, nodes isolated from the graph)
// are absent from the map rather than zero-filled.
func (t *Trainer) Fit(g *Graph) (map[int][]float64, error) {
	seed := t.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	walks := t.sampleWalks(g, rng)
	if len(walks) == 0 {
		return map[int][]float64{}, nil
	}

	model := newSkipgram(t.cfg, walks, rng)
	model.train(walks, rng)
	return model.vectors(), nil
}
