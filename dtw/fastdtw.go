package dtw

import (
	"errors"
	"math"
)

// FastDTW computes an approximate dynamic-time-warping distance in O(n) time
// and memory. It recursively halves the resolution of both sequences, solves
// the coarse problem, projects the coarse warping path back up, and refines
// it with an exact pass restricted to cells within radius of the projection.
// A larger radius trades speed for accuracy; once the refinement window
// covers the whole plane the result equals the exact Distance.
//
// Sequences at or below the base-case size are solved exactly.
func FastDTW(a, b []float64, radius int) (float64, []Pair, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil, ErrEmptySequence
	}
	if radius < 0 {
		return 0, nil, ErrNegativeRadius
	}

	minSize := radius + 2
	if len(a) <= minSize || len(b) <= minSize {
		return Distance(a, b, 0)
	}

	_, coarsePath, err := FastDTW(halve(a), halve(b), radius)
	if err != nil {
		return 0, nil, err
	}

	window := expandWindow(coarsePath, len(a), len(b), radius)
	return constrained(a, b, window)
}

// halve shrinks a sequence to half resolution by averaging adjacent pairs.
// An odd trailing element is kept as-is.
func halve(s []float64) []float64 {
	out := make([]float64, 0, (len(s)+1)/2)
	for i := 0; i+1 < len(s); i += 2 {
		out = append(out, (s[i]+s[i+1])/2)
	}
	if len(s)%2 == 1 {
		out = append(out, s[len(s)-1])
	}
	return out
}

// expandWindow projects a half-resolution warping path onto the full
// resolution grid and dilates it by radius cells in every direction. The
// result is returned as one contiguous column range per row, clipped to the
// n x m grid, which is all the constrained pass needs.
func expandWindow(coarsePath []Pair, n, m, radius int) [][2]int {
	// Dilate the coarse path, then map each coarse cell to its 2x2 block.
	blocks := make(map[Pair]struct{}, len(coarsePath)*(2*radius+1))
	for _, p := range coarsePath {
		for di := -radius; di <= radius; di++ {
			for dj := -radius; dj <= radius; dj++ {
				blocks[Pair{p.I + di, p.J + dj}] = struct{}{}
			}
		}
	}

	lo := make([]int, n)
	hi := make([]int, n)
	for i := range lo {
		lo[i] = m
		hi[i] = -1
	}
	mark := func(i, j int) {
		if i < 0 || i >= n || j < 0 {
			return
		}
		if j >= m {
			j = m - 1
		}
		if j < lo[i] {
			lo[i] = j
		}
		if j > hi[i] {
			hi[i] = j
		}
	}
	for c := range blocks {
		mark(2*c.I, 2*c.J)
		mark(2*c.I, 2*c.J+1)
		mark(2*c.I+1, 2*c.J)
		mark(2*c.I+1, 2*c.J+1)
	}

	// Rows beyond the doubled path (odd-length originals) inherit the last
	// covered range so the window always reaches the (n-1, m-1) corner.
	ranges := make([][2]int, n)
	prevLo, prevHi := 0, 0
	for i := 0; i < n; i++ {
		if hi[i] < 0 {
			lo[i], hi[i] = prevLo, m-1
		}
		// Keep consecutive rows overlapping so a monotone path exists.
		if lo[i] > prevHi+1 {
			lo[i] = prevHi + 1
		}
		if hi[i] < prevHi {
			hi[i] = prevHi
		}
		ranges[i] = [2]int{lo[i], hi[i]}
		prevLo, prevHi = lo[i], hi[i]
	}
	ranges[n-1][1] = m - 1
	return ranges
}

// constrained runs the exact DTW recurrence over an explicit per-row column
// window, storing only the visited cells.
func constrained(a, b []float64, window [][2]int) (float64, []Pair, error) {
	type entry struct {
		cost   float64
		pi, pj int
	}
	n, m := len(a), len(b)
	inf := math.Inf(1)

	// 1-based DP cells keyed by row, stored per-row as a dense strip.
	cells := make([]map[int]entry, n+1)
	cells[0] = map[int]entry{0: {cost: 0, pi: -1, pj: -1}}
	get := func(i, j int) float64 {
		if i < 0 || j < 0 || cells[i] == nil {
			return inf
		}
		if e, ok := cells[i][j]; ok {
			return e.cost
		}
		return inf
	}

	for i := 1; i <= n; i++ {
		cells[i] = make(map[int]entry, window[i-1][1]-window[i-1][0]+2)
		for j := window[i-1][0] + 1; j <= window[i-1][1]+1; j++ {
			best, pi, pj := get(i-1, j-1), i-1, j-1
			if v := get(i-1, j); v < best {
				best, pi, pj = v, i-1, j
			}
			if v := get(i, j-1); v < best {
				best, pi, pj = v, i, j-1
			}
			if math.IsInf(best, 1) {
				continue
			}
			cells[i][j] = entry{cost: math.Abs(a[i-1]-b[j-1]) + best, pi: pi, pj: pj}
		}
	}

	end, ok := cells[n][m]
	if !ok {
		return 0, nil, errors.New("dtw: refinement window excludes every complete alignment")
	}

	path := make([]Pair, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		path = append(path, Pair{i - 1, j - 1})
		e := cells[i][j]
		i, j = e.pi, e.pj
	}
	reverse(path)
	return end.cost, path, nil
}
