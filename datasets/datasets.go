package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package turns a normalized traffic-sensor series into supervised
// training examples: WindowedDataset slices a contiguous row range into
// (history, prediction) pairs, and NewLoaders splits a series into the
// three shuffled loaders of a standard train/validation/test setup.
//
// Batches are materialized lazily from the shared series buffer; nothing
// is copied per example beyond the node-major target slices.

// Dataset is the surface a training loop needs from a windowed dataset.
// WindowedDataset implements it, including the Yield/Restart/Name trio of
// gomlx's train.Dataset interface.
type Dataset interface {
	Len() int
	Example(k int) (x [][][]float32, y [][]float32, err error)
	Batch(indices []int) (xs [][][][]float32, ys [][][]float32, err error)
	Shuffle(seed int64)

	// To implement gomlx's train.Dataset interface
	Name() string
	Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error)
	Restart() error
}

var _ Dataset = (*WindowedDataset)(nil)
