// Package pipeline wires the full data-preparation run for one traffic
// dataset: load the raw sensor tensor, z-score it, build (or reload) the
// semantic and spatial distance matrices, embed a bounded node subset of
// the proximity graph, and derive the similarity matrices the downstream
// forecasting model consumes.
package pipeline

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/Noofbiz/trafficprep/datasets"
	"github.com/Noofbiz/trafficprep/embedding"
	"github.com/Noofbiz/trafficprep/matrices"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"gonum.org/v1/gonum/mat"
)

// Config directs one ReadData run. Zero values fall back to the defaults
// noted on each field.
type Config struct {
	// Dataset is the registry name of the dataset to prepare. Required.
	Dataset string

	// DataDir is the local data root holding the registered files.
	// Default "data".
	DataDir string

	// RemoteDir is the data root used instead of DataDir when Remote is
	// set. Default "/srv/traffic/data".
	RemoteDir string

	// Remote switches the data root to RemoteDir.
	Remote bool

	// Registry maps dataset names to files. Nil means the built-in PEMS
	// registry.
	Registry datasets.Registry

	// CacheDir holds the memoized distance matrices. Default "data".
	CacheDir string

	// MaxGraphNodes bounds the node subset used for graph embedding.
	// Default 100.
	MaxGraphNodes int

	// Embedding configures the node2vec trainer. Zero fields take the
	// trainer defaults (dim 64, 200 walks of 30 steps, 4 workers).
	Embedding embedding.Config

	// Seed makes node sampling and (unless Embedding.Seed is set itself)
	// embedding training reproducible. Zero keeps both time-seeded.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.RemoteDir == "" {
		c.RemoteDir = "/srv/traffic/data"
	}
	if c.Registry == nil {
		c.Registry = datasets.DefaultRegistry()
	}
	if c.CacheDir == "" {
		c.CacheDir = "data"
	}
	if c.MaxGraphNodes == 0 {
		c.MaxGraphNodes = 100
	}
	return c
}

func (c Config) dataRoot() string {
	if c.Remote {
		return c.RemoteDir
	}
	return c.DataDir
}

// Result bundles the outputs of one pipeline run.
type Result struct {
	// Series is the normalized tensor, kept for building loaders.
	Series *datasets.Series

	// Data is the same tensor as a gomlx [T, N, F] float32 tensor.
	Data *tensors.Tensor

	// Mean and Std are the channel-0 normalization scalars, needed to
	// de-normalize model predictions.
	Mean, Std float64

	// Semantic and Spatial are the N x N similarity matrices derived from
	// the node embeddings.
	Semantic, Spatial *mat.Dense

	// Nodes is the sampled subset the graph and embeddings cover.
	Nodes []int
}

// ReadData runs the preparation pipeline for cfg.Dataset.
//
// Concurrent runs against the same dataset share cache files without
// coordination across processes; serialize runs per dataset name.
func ReadData(cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	entry, err := cfg.Registry.Lookup(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	root := cfg.dataRoot()

	series, err := datasets.LoadNPZ(filepath.Join(root, entry.DataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", cfg.Dataset, err)
	}
	mean, std := series.Normalize()
	log.Printf("loaded %s: T=%d N=%d F=%d (mean=%.4f std=%.4f)",
		cfg.Dataset, series.T, series.N, series.F, mean, std)

	cache, err := matrices.NewCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	semDist, err := cache.GetOrCompute(cfg.Dataset+"_dtw_distance", func() (*mat.Dense, error) {
		profiles, err := series.DailyProfiles(matrices.DayLength)
		if err != nil {
			return nil, err
		}
		return matrices.SemanticDistances(profiles, matrices.SemanticRadius)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build semantic distance matrix: %w", err)
	}
	r, c := semDist.Dims()
	log.Printf("semantic distance matrix: %dx%d", r, c)

	spatialDist, err := cache.GetOrCompute(cfg.Dataset+"_spatial_distance", func() (*mat.Dense, error) {
		return matrices.SpatialDistances(filepath.Join(root, entry.EdgeFile), series.N)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build spatial distance matrix: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	nodes := SampleNodes(series.N, cfg.MaxGraphNodes, rng)

	g := embedding.BuildGraph(spatialDist, nodes)
	log.Printf("proximity graph: %d vertices, %d edges over %d sampled nodes",
		g.NumVertices(), g.NumEdges(), len(nodes))

	embCfg := cfg.Embedding
	if embCfg.Seed == 0 {
		embCfg.Seed = cfg.Seed
	}
	vecs, err := embedding.NewTrainer(embCfg).Fit(g)
	if err != nil {
		return nil, fmt.Errorf("failed to train node embeddings: %w", err)
	}

	semantic, spatial := SimilarityMatrices(vecs, series.N, nodes)
	log.Printf("similarity matrices: %dx%d (semantic), %dx%d (spatial)",
		series.N, series.N, series.N, series.N)

	return &Result{
		Series:   series,
		Data:     series.Tensor(),
		Mean:     mean,
		Std:      std,
		Semantic: semantic,
		Spatial:  spatial,
		Nodes:    nodes,
	}, nil
}
