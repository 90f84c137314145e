// Package dtw computes elastic (warping-tolerant) distances between numeric
// sequences. It provides an exact dynamic-time-warping implementation with an
// optional Sakoe-Chiba band constraint, and a radius-bounded FastDTW
// approximation used for large pairwise workloads where the full O(n*m)
// comparison is too expensive.
package dtw

import (
	"errors"
	"math"
)

// ErrEmptySequence indicates one or both input sequences are empty.
var ErrEmptySequence = errors.New("dtw: input sequences must be non-empty")

// ErrNegativeRadius indicates a negative FastDTW radius.
var ErrNegativeRadius = errors.New("dtw: radius must be non-negative")

// Pair is one step of a warping path, aligning index I of the first sequence
// with index J of the second.
type Pair struct {
	I, J int
}

// Distance computes the exact dynamic-time-warping distance between a and b
// using absolute difference as the local cost. A positive window restricts
// the alignment to the Sakoe-Chiba band |i-j| <= window; window <= 0 means
// unconstrained. The returned path runs from (0,0) to (len(a)-1, len(b)-1).
//
// Distance is symmetric: Distance(a, b, w) == Distance(b, a, w).
func Distance(a, b []float64, window int) (float64, []Pair, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptySequence
	}

	inf := math.Inf(1)
	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
		for j := range dp[i] {
			dp[i][j] = inf
		}
	}
	dp[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if window > 0 && abs(i-j) > window {
				continue
			}
			best := dp[i-1][j-1]
			if dp[i-1][j] < best {
				best = dp[i-1][j]
			}
			if dp[i][j-1] < best {
				best = dp[i][j-1]
			}
			if math.IsInf(best, 1) {
				continue
			}
			dp[i][j] = math.Abs(a[i-1]-b[j-1]) + best
		}
	}

	dist := dp[n][m]
	if math.IsInf(dist, 1) {
		// Window too narrow to connect the corners; should not happen for
		// window >= |n-m|, but guard rather than return a meaningless path.
		return 0, nil, errors.New("dtw: window excludes every complete alignment")
	}

	// Backtrack the optimal path by following minimal predecessors.
	path := make([]Pair, 0, n+m)
	i, j := n, m
	for i > 1 || j > 1 {
		path = append(path, Pair{i - 1, j - 1})
		switch {
		case i == 1:
			j--
		case j == 1:
			i--
		default:
			best, bi, bj := dp[i-1][j-1], i-1, j-1
			if dp[i-1][j] < best {
				best, bi, bj = dp[i-1][j], i-1, j
			}
			if dp[i][j-1] < best {
				bi, bj = i, j-1
			}
			i, j = bi, bj
		}
	}
	path = append(path, Pair{0, 0})
	reverse(path)

	return dist, path, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func reverse(p []Pair) {
	for l, r := 0, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
}
