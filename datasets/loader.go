package datasets

import "fmt"

// LoaderConfig controls the train/validation/test split of a normalized
// series into three windowed datasets.
type LoaderConfig struct {
	// BatchSize for all three loaders. Default 32.
	BatchSize int

	// TrainRatio and ValidRatio are the fractions of total rows assigned to
	// the training and validation splits; the test split takes the rest.
	// Defaults 0.6 and 0.2.
	TrainRatio float64
	ValidRatio float64

	// HisLength and PredLength are the history and prediction window sizes.
	// Defaults 12 and 3.
	HisLength  int
	PredLength int

	// Seed shuffles the three loaders deterministically when non-zero.
	Seed int64
}

func (c LoaderConfig) withDefaults() LoaderConfig {
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.TrainRatio == 0 {
		c.TrainRatio = 0.6
	}
	if c.ValidRatio == 0 {
		c.ValidRatio = 0.2
	}
	if c.HisLength == 0 {
		c.HisLength = 12
	}
	if c.PredLength == 0 {
		c.PredLength = 3
	}
	return c
}

// NewLoaders splits the series rows into three contiguous, non-overlapping
// ranges covering [0, T) — train [0, T*r1), validation [T*r1, T*(r1+r2)),
// test [T*(r1+r2), T) — and returns a shuffled windowed dataset over each.
func NewLoaders(s *Series, cfg LoaderConfig) (train, valid, test *WindowedDataset, err error) {
	cfg = cfg.withDefaults()
	if cfg.TrainRatio <= 0 || cfg.ValidRatio <= 0 || cfg.TrainRatio+cfg.ValidRatio >= 1 {
		return nil, nil, nil, fmt.Errorf("datasets: invalid split ratios %v/%v", cfg.TrainRatio, cfg.ValidRatio)
	}

	trainEnd := int(float64(s.T) * cfg.TrainRatio)
	validEnd := int(float64(s.T) * (cfg.TrainRatio + cfg.ValidRatio))

	splits := []struct {
		name       string
		start, end int
	}{
		{"train", 0, trainEnd},
		{"validation", trainEnd, validEnd},
		{"test", validEnd, s.T},
	}

	out := make([]*WindowedDataset, 3)
	for i, sp := range splits {
		d, err := NewWindowedDataset(s, sp.start, sp.end, cfg.HisLength, cfg.PredLength)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build %s loader: %w", sp.name, err)
		}
		d.BatchSize = cfg.BatchSize
		if cfg.Seed != 0 {
			d.Shuffle(cfg.Seed + int64(i))
		}
		out[i] = d
	}
	return out[0], out[1], out[2], nil
}

// SplitRanges returns the three row ranges NewLoaders would use for a
// series of t rows, mostly for verification and diagnostics.
func SplitRanges(t int, trainRatio, validRatio float64) (bounds [4]int) {
	return [4]int{
		0,
		int(float64(t) * trainRatio),
		int(float64(t) * (trainRatio + validRatio)),
		t,
	}
}
