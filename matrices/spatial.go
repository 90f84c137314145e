package matrices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// ErrBadEdgeRow indicates a malformed row in a sensor edge-list file.
var ErrBadEdgeRow = errors.New("matrices: malformed edge list row")

// SpatialDistances parses a sensor edge-list file into a symmetric n x n
// distance matrix. The file is CSV with a header row (discarded) followed by
// rows of (start node, end node, distance); both directions are set
// identically. Pairs without an edge stay at +Inf.
func SpatialDistances(path string, n int) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer f.Close()

	d := mat.NewDense(n, n, nil)
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, inf)
		}
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return d, nil
		}
		return nil, fmt.Errorf("failed to read edge list header: %w", err)
	}

	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read edge list: %w", err)
		}
		line++

		if len(rec) != 3 {
			return nil, fmt.Errorf("%w: line %d has %d columns, want 3", ErrBadEdgeRow, line, len(rec))
		}
		from, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d start node %q: %v", ErrBadEdgeRow, line, rec[0], err)
		}
		to, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d end node %q: %v", ErrBadEdgeRow, line, rec[1], err)
		}
		dist, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d distance %q: %v", ErrBadEdgeRow, line, rec[2], err)
		}
		if from < 0 || from >= n || to < 0 || to >= n {
			return nil, fmt.Errorf("%w: line %d references node outside [0,%d)", ErrBadEdgeRow, line, n)
		}

		d.Set(from, to, dist)
		d.Set(to, from, dist)
	}

	return d, nil
}
