package matrices

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNotSquare indicates an adjacency matrix whose dimensions do not match.
var ErrNotSquare = errors.New("matrices: adjacency matrix must be square")

const (
	// regularizationAlpha scales the self-loop regularization of the
	// normalized adjacency: A_reg = alpha/2 * (I + A_wave).
	regularizationAlpha = 0.8

	// degreeFloor replaces near-zero row degrees before inversion.
	degreeFloor = 1e-4
)

// NormalizedAdj applies symmetric degree normalization with self-loop
// regularization to a non-negative adjacency matrix:
//
//	D      = diag(row sums of A), floored at degreeFloor
//	A_wave = D^-1/2 * A * D^-1/2
//	A_reg  = alpha/2 * (I + A_wave)
//
// The input is not modified.
func NormalizedAdj(a *mat.Dense) (*mat.Dense, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrNotSquare)
	}
	r, c := a.Dims()
	if r == 0 || r != c {
		return nil, fmt.Errorf("%w: got %dx%d", ErrNotSquare, r, c)
	}

	dinv := make([]float64, r)
	for i := 0; i < r; i++ {
		deg := 0.0
		for j := 0; j < c; j++ {
			deg += a.At(i, j)
		}
		if deg <= degreeFloor {
			deg = degreeFloor
		}
		dinv[i] = 1 / math.Sqrt(deg)
	}

	reg := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			wave := dinv[i] * a.At(i, j) * dinv[j]
			if i == j {
				wave++
			}
			reg.Set(i, j, regularizationAlpha/2*wave)
		}
	}
	return reg, nil
}
