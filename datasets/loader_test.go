package datasets

import "testing"

func TestSplitRanges_CoverWithoutOverlap(t *testing.T) {
	b := SplitRanges(100, 0.6, 0.2)

	if b != [4]int{0, 60, 80, 100} {
		t.Fatalf("bounds = %v, want [0 60 80 100]", b)
	}

	// Contiguity and full coverage: each range starts where the previous
	// ended, first at 0, last at T.
	covered := make([]int, 100)
	for i := 0; i < 3; i++ {
		for r := b[i]; r < b[i+1]; r++ {
			covered[r]++
		}
	}
	for r, c := range covered {
		if c != 1 {
			t.Fatalf("row %d covered %d times", r, c)
		}
	}
}

func TestNewLoaders_SplitsAndBatchSize(t *testing.T) {
	s := sequentialSeries(t, 100, 2, 1)

	train, valid, test, err := NewLoaders(s, LoaderConfig{
		BatchSize:  8,
		TrainRatio: 0.6,
		ValidRatio: 0.2,
		HisLength:  12,
		PredLength: 3,
		Seed:       1,
	})
	if err != nil {
		t.Fatalf("NewLoaders failed: %v", err)
	}

	// 60/20/20 rows with H=12, P=3: lengths 46, 6, 6.
	if got := train.Len(); got != 46 {
		t.Fatalf("train.Len() = %d, want 46", got)
	}
	if got := valid.Len(); got != 6 {
		t.Fatalf("valid.Len() = %d, want 6", got)
	}
	if got := test.Len(); got != 6 {
		t.Fatalf("test.Len() = %d, want 6", got)
	}

	for _, d := range []*WindowedDataset{train, valid, test} {
		if d.BatchSize != 8 {
			t.Fatalf("loader BatchSize = %d, want 8", d.BatchSize)
		}
	}

	// Splits are contiguous and disjoint: the first validation history row
	// is the row right after the training range.
	x, _, err := valid.Example(0)
	if err != nil {
		t.Fatalf("valid.Example(0) failed: %v", err)
	}
	if x[0][0][0] != 6000 { // row 60, node 0, feature 0
		t.Fatalf("validation starts at value %v, want 6000 (row 60)", x[0][0][0])
	}
}

func TestNewLoaders_WindowTooLargeForSplit(t *testing.T) {
	s := sequentialSeries(t, 50, 1, 1)
	// Validation split gets 10 rows; H+P = 15 cannot fit.
	if _, _, _, err := NewLoaders(s, LoaderConfig{
		TrainRatio: 0.6,
		ValidRatio: 0.2,
		HisLength:  12,
		PredLength: 3,
	}); err == nil {
		t.Fatalf("expected error when window exceeds a split")
	}
}

func TestNewLoaders_InvalidRatios(t *testing.T) {
	s := sequentialSeries(t, 50, 1, 1)
	if _, _, _, err := NewLoaders(s, LoaderConfig{TrainRatio: 0.9, ValidRatio: 0.3}); err == nil {
		t.Fatalf("expected error for ratios exceeding 1")
	}
}
