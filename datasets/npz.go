package datasets

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/sbinet/npyio"
)

// LoadNPZ reads the raw series tensor from a compressed numpy archive. The
// archive must contain a member named "data.npy" holding a float array of
// shape (T, N, F); a 2-D (T, N) array is accepted and treated as a single
// feature channel.
func LoadNPZ(path string) (*Series, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data archive %s: %w", path, err)
	}
	defer zr.Close()

	var member *zip.File
	for _, f := range zr.File {
		if f.Name == "data.npy" {
			member = f
			break
		}
	}
	if member == nil {
		return nil, fmt.Errorf("datasets: archive %s has no \"data\" member", path)
	}

	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive member: %w", err)
	}
	defer rc.Close()

	r, err := npyio.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode npy header: %w", err)
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("datasets: fortran-ordered arrays are not supported")
	}

	shape := r.Header.Descr.Shape
	var t, n, f int
	switch len(shape) {
	case 3:
		t, n, f = shape[0], shape[1], shape[2]
	case 2:
		t, n, f = shape[0], shape[1], 1
	default:
		return nil, fmt.Errorf("datasets: expected a 2-D or 3-D data array, got shape %v", shape)
	}

	s, err := NewSeries(t, n, f)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(r.Header.Descr.Type, "f8"):
		var raw []float64
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("failed to read data array: %w", err)
		}
		if len(raw) != len(s.Data) {
			return nil, fmt.Errorf("datasets: data array has %d elements, want %d", len(raw), len(s.Data))
		}
		for i, v := range raw {
			s.Data[i] = float32(v)
		}
	case strings.Contains(r.Header.Descr.Type, "f4"):
		var raw []float32
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("failed to read data array: %w", err)
		}
		if len(raw) != len(s.Data) {
			return nil, fmt.Errorf("datasets: data array has %d elements, want %d", len(raw), len(s.Data))
		}
		copy(s.Data, raw)
	default:
		return nil, fmt.Errorf("datasets: unsupported dtype %q", r.Header.Descr.Type)
	}

	return s, nil
}
