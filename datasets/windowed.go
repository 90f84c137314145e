package datasets

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ErrWindowTooLarge indicates that history+prediction does not fit inside a
// split's row range.
var ErrWindowTooLarge = errors.New("datasets: history+prediction window exceeds split range")

// WindowedDataset slices a contiguous row range of a normalized series into
// supervised (history, prediction) examples. Example k covers rows
// [k, k+His) as node-major history and rows [k+His, k+His+Pred) of channel 0
// as the node-major prediction target. Examples are views over the shared
// immutable series; nothing is copied until a batch is materialized.
//
// The dataset implements the gomlx train.Dataset surface (Yield / Restart /
// Name) with per-epoch shuffled traversal.
type WindowedDataset struct {
	// BatchSize used by Yield. Defaults to 32.
	BatchSize int

	series     *Series
	start, end int
	his, pred  int

	rand   *rand.Rand
	order  []int
	cursor int
}

// NewWindowedDataset creates a dataset over series rows [start, end).
func NewWindowedDataset(s *Series, start, end, his, pred int) (*WindowedDataset, error) {
	if start < 0 || end > s.T || start > end {
		return nil, fmt.Errorf("datasets: row range [%d,%d) outside series of %d rows", start, end, s.T)
	}
	if his <= 0 || pred <= 0 {
		return nil, fmt.Errorf("datasets: history and prediction lengths must be positive, got %d and %d", his, pred)
	}
	n := (end - start) - his - pred + 1
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d+%d over %d rows", ErrWindowTooLarge, his, pred, end-start)
	}

	d := &WindowedDataset{
		BatchSize: 32,
		series:    s,
		start:     start,
		end:       end,
		his:       his,
		pred:      pred,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	d.resetOrder()
	return d, nil
}

// Len returns the number of valid example offsets.
func (d *WindowedDataset) Len() int {
	return (d.end - d.start) - d.his - d.pred + 1
}

// Example materializes example k: a node-major [N][His][F] history block and
// a node-major [N][Pred] channel-0 target.
func (d *WindowedDataset) Example(k int) (x [][][]float32, y [][]float32, err error) {
	if k < 0 || k >= d.Len() {
		return nil, nil, fmt.Errorf("datasets: example index %d out of range [0,%d)", k, d.Len())
	}
	s := d.series
	row := d.start + k

	x = make([][][]float32, s.N)
	y = make([][]float32, s.N)
	for n := 0; n < s.N; n++ {
		x[n] = make([][]float32, d.his)
		for h := 0; h < d.his; h++ {
			base := ((row+h)*s.N + n) * s.F
			x[n][h] = s.Data[base : base+s.F]
		}
		y[n] = make([]float32, d.pred)
		for p := 0; p < d.pred; p++ {
			y[n][p] = s.At(row+d.his+p, n, 0)
		}
	}
	return x, y, nil
}

// Batch materializes the examples at the given offsets.
func (d *WindowedDataset) Batch(indices []int) (xs [][][][]float32, ys [][][]float32, err error) {
	xs = make([][][][]float32, len(indices))
	ys = make([][][]float32, len(indices))
	for i, k := range indices {
		xs[i], ys[i], err = d.Example(k)
		if err != nil {
			return nil, nil, err
		}
	}
	return xs, ys, nil
}

// Tensors reads a batch and returns it as gomlx tensors of shapes
// [batch, N, His, F] and [batch, N, Pred].
func (d *WindowedDataset) Tensors(indices []int) (inputs, labels *tensors.Tensor, err error) {
	xs, ys, err := d.Batch(indices)
	if err != nil {
		return nil, nil, err
	}
	return tensors.FromAnyValue(xs), tensors.FromAnyValue(ys), nil
}

// Shuffle reseeds the traversal RNG and reshuffles the example order.
func (d *WindowedDataset) Shuffle(seed int64) {
	d.rand.Seed(seed)
	d.resetOrder()
}

// Name returns the dataset name for gomlx training loops.
func (d *WindowedDataset) Name() string {
	return "WindowedDataset"
}

// Yield returns the next shuffled batch for the gomlx Dataset interface,
// and io.EOF once the epoch is exhausted.
func (d *WindowedDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.cursor >= len(d.order) {
		return nil, nil, nil, io.EOF
	}
	hi := d.cursor + d.BatchSize
	if hi > len(d.order) {
		hi = len(d.order)
	}
	in, la, err := d.Tensors(d.order[d.cursor:hi])
	if err != nil {
		return nil, nil, nil, err
	}
	d.cursor = hi
	return nil, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Restart reshuffles the traversal order and rewinds for a new epoch.
func (d *WindowedDataset) Restart() error {
	d.resetOrder()
	return nil
}

func (d *WindowedDataset) resetOrder() {
	d.order = d.rand.Perm(d.Len())
	d.cursor = 0
}
