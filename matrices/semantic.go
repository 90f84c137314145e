package matrices

import (
	"fmt"

	"github.com/Noofbiz/trafficprep/dtw"
	"gonum.org/v1/gonum/mat"
)

// DayLength is the number of samples in one day at the sensors' native
// 5-minute rate (24 hours x 12 samples per hour). Daily profiles are
// averaged over segments of this size.
const DayLength = 24 * 12

// SemanticRadius is the FastDTW warping radius used for profile comparison.
const SemanticRadius = 6

// SemanticDistances computes the symmetric N x N matrix of pairwise FastDTW
// distances between per-node profiles. Only the upper triangle (i <= j) is
// computed; the lower triangle mirrors it. The diagonal is the distance of
// a profile to itself, which FastDTW reports as zero.
//
// The cost is O(N^2 * len(profile)); callers are expected to memoize the
// result through a Cache.
func SemanticDistances(profiles [][]float64, radius int) (*mat.Dense, error) {
	n := len(profiles)
	if n == 0 {
		return nil, fmt.Errorf("matrices: no node profiles to compare")
	}

	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dist, _, err := dtw.FastDTW(profiles[i], profiles[j], radius)
			if err != nil {
				return nil, fmt.Errorf("failed to align profiles %d and %d: %w", i, j, err)
			}
			d.Set(i, j, dist)
			d.Set(j, i, dist)
		}
	}
	return d, nil
}
