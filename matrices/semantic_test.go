package matrices

import (
	"math"
	"testing"
)

func profileFor(n int, shift float64) []float64 {
	p := make([]float64, 48)
	for i := range p {
		p[i] = math.Sin(float64(i)/5+shift) + float64(n)*0.1
	}
	return p
}

func TestSemanticDistances_SymmetricZeroDiagonal(t *testing.T) {
	profiles := [][]float64{
		profileFor(0, 0),
		profileFor(1, 0.4),
		profileFor(2, 1.1),
	}

	d, err := SemanticDistances(profiles, SemanticRadius)
	if err != nil {
		t.Fatalf("SemanticDistances failed: %v", err)
	}

	r, c := d.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("unexpected dims %dx%d", r, c)
	}
	for i := 0; i < 3; i++ {
		if d.At(i, i) != 0 {
			t.Fatalf("d[%d][%d] = %v, want 0", i, i, d.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if d.At(i, j) != d.At(j, i) {
				t.Fatalf("matrix not symmetric at (%d,%d): %v vs %v", i, j, d.At(i, j), d.At(j, i))
			}
			if d.At(i, j) < 0 {
				t.Fatalf("negative distance at (%d,%d): %v", i, j, d.At(i, j))
			}
		}
	}
	if d.At(0, 1) == 0 {
		t.Fatalf("distinct profiles should not be at distance 0")
	}
}

func TestSemanticDistances_EmptyInput(t *testing.T) {
	if _, err := SemanticDistances(nil, SemanticRadius); err == nil {
		t.Fatalf("expected error for empty profile set")
	}
}
