package datasets

import (
	"errors"
	"fmt"
)

// ErrUnknownDataset indicates a dataset name with no registered files.
var ErrUnknownDataset = errors.New("datasets: unknown dataset name")

// Entry locates the two source files of one dataset, relative to the data
// root: the compressed raw series archive and the sensor edge list.
type Entry struct {
	DataFile string
	EdgeFile string
}

// Registry maps dataset names to their source files. It is plain data
// passed into the pipeline rather than process-wide state, so tests and
// callers can supply their own tables.
type Registry map[string]Entry

// DefaultRegistry returns the registry of the PEMS traffic datasets.
func DefaultRegistry() Registry {
	return Registry{
		"pems03":  {DataFile: "PEMS03/pems03.npz", EdgeFile: "PEMS03/distance.csv"},
		"pems04":  {DataFile: "PEMS04/pems04.npz", EdgeFile: "PEMS04/distance.csv"},
		"pems07":  {DataFile: "PEMS07/pems07.npz", EdgeFile: "PEMS07/distance.csv"},
		"pems08":  {DataFile: "PEMS08/pems08.npz", EdgeFile: "PEMS08/distance.csv"},
		"pemsbay": {DataFile: "PEMSBAY/pems_bay.npz", EdgeFile: "PEMSBAY/distance.csv"},
		"pemsD7M": {DataFile: "PeMSD7M/PeMSD7M.npz", EdgeFile: "PeMSD7M/distance.csv"},
		"pemsD7L": {DataFile: "PeMSD7L/PeMSD7L.npz", EdgeFile: "PeMSD7L/distance.csv"},
	}
}

// Lookup resolves a dataset name.
func (r Registry) Lookup(name string) (Entry, error) {
	e, ok := r[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return e, nil
}
