package pipeline

import (
	"archive/zip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noofbiz/trafficprep/datasets"
	"github.com/Noofbiz/trafficprep/embedding"
	"github.com/Noofbiz/trafficprep/matrices"
)

// writeNPY emits a little-endian float64 .npy stream (format version 1.0).
func writeNPY(t *testing.T, w io.Writer, shape []int, data []float64) {
	t.Helper()

	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	hdr := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }", strings.Join(dims, ", "))
	pad := (16 - (10+len(hdr)+1)%16) % 16
	hdr += strings.Repeat(" ", pad) + "\n"

	if _, err := w.Write([]byte("\x93NUMPY\x01\x00")); err != nil {
		t.Fatalf("failed to write npy magic: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(hdr))); err != nil {
		t.Fatalf("failed to write npy header length: %v", err)
	}
	if _, err := w.Write([]byte(hdr)); err != nil {
		t.Fatalf("failed to write npy header: %v", err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		t.Fatalf("failed to write npy payload: %v", err)
	}
}

// writeToyDataset lays out a synthetic 4-node dataset under dir: a raw npz
// of two full days plus an edge list connecting only (0,1) and (2,3).
func writeToyDataset(t *testing.T, dir string) (tt, n, f int) {
	t.Helper()

	tt, n, f = 2*matrices.DayLength, 4, 2
	data := make([]float64, tt*n*f)
	for ts := 0; ts < tt; ts++ {
		for nd := 0; nd < n; nd++ {
			base := math.Sin(float64(ts)/20 + float64(nd))
			data[(ts*n+nd)*f] = 50 + 10*base
			data[(ts*n+nd)*f+1] = float64(ts % matrices.DayLength)
		}
	}

	npzPath := filepath.Join(dir, "toy.npz")
	zf, err := os.Create(npzPath)
	if err != nil {
		t.Fatalf("failed to create npz: %v", err)
	}
	zw := zip.NewWriter(zf)
	w, err := zw.Create("data.npy")
	if err != nil {
		t.Fatalf("failed to create npz member: %v", err)
	}
	writeNPY(t, w, []int{tt, n, f}, data)
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish npz: %v", err)
	}
	if err := zf.Close(); err != nil {
		t.Fatalf("failed to close npz: %v", err)
	}

	edges := "from,to,cost\n0,1,2.5\n2,3,4.0\n"
	if err := os.WriteFile(filepath.Join(dir, "distance.csv"), []byte(edges), 0o644); err != nil {
		t.Fatalf("failed to write edge list: %v", err)
	}
	return tt, n, f
}

func toyConfig(dir string) Config {
	return Config{
		Dataset:  "toy",
		DataDir:  dir,
		CacheDir: filepath.Join(dir, "cache"),
		Registry: datasets.Registry{
			"toy": {DataFile: "toy.npz", EdgeFile: "distance.csv"},
		},
		Embedding: embedding.Config{
			Dim:        8,
			WalkLength: 6,
			NumWalks:   10,
			Window:     3,
			Workers:    2,
		},
		Seed: 17,
	}
}

func TestReadData_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	tt, n, f := writeToyDataset(t, dir)

	res, err := ReadData(toyConfig(dir))
	if err != nil {
		t.Fatalf("ReadData failed: %v", err)
	}

	if res.Series.T != tt || res.Series.N != n || res.Series.F != f {
		t.Fatalf("series shape = (%d,%d,%d), want (%d,%d,%d)",
			res.Series.T, res.Series.N, res.Series.F, tt, n, f)
	}
	dims := res.Data.Shape().Dimensions
	if len(dims) != 3 || dims[0] != tt || dims[1] != n || dims[2] != f {
		t.Fatalf("tensor shape = %v, want [%d %d %d]", dims, tt, n, f)
	}

	if math.Abs(res.Mean-50) > 10 || res.Std <= 0 {
		t.Fatalf("implausible normalization scalars: mean=%v std=%v", res.Mean, res.Std)
	}

	// With N=4 <= 100 the subset is every node.
	if len(res.Nodes) != n {
		t.Fatalf("subset has %d nodes, want %d", len(res.Nodes), n)
	}

	// Both outputs share the embedding-space distances: symmetric, zero
	// diagonal, identical matrices.
	for i := 0; i < n; i++ {
		if res.Semantic.At(i, i) != 0 {
			t.Fatalf("semantic diagonal (%d,%d) = %v", i, i, res.Semantic.At(i, i))
		}
		for j := 0; j < n; j++ {
			if res.Semantic.At(i, j) != res.Spatial.At(i, j) {
				t.Fatalf("semantic and spatial differ at (%d,%d)", i, j)
			}
			if res.Semantic.At(i, j) != res.Semantic.At(j, i) {
				t.Fatalf("semantic not symmetric at (%d,%d)", i, j)
			}
			if res.Semantic.At(i, j) < 0 {
				t.Fatalf("negative similarity distance at (%d,%d)", i, j)
			}
		}
	}
	// All four nodes have edges, so every distinct pair gets a distance.
	if res.Semantic.At(0, 1) == 0 || res.Semantic.At(2, 3) == 0 {
		t.Fatalf("expected non-zero embedding distances for connected pairs")
	}
}

func TestReadData_PopulatesAndReusesCache(t *testing.T) {
	dir := t.TempDir()
	writeToyDataset(t, dir)
	cfg := toyConfig(dir)

	if _, err := ReadData(cfg); err != nil {
		t.Fatalf("first ReadData failed: %v", err)
	}
	for _, name := range []string{"toy_dtw_distance.npy", "toy_spatial_distance.npy"} {
		if _, err := os.Stat(filepath.Join(cfg.CacheDir, name)); err != nil {
			t.Fatalf("expected cache artifact %s: %v", name, err)
		}
	}

	// Remove the sources; the cached matrices must carry the second run
	// past both builders. Loading the raw tensor still needs the npz, so
	// only the edge list can disappear.
	if err := os.Remove(filepath.Join(dir, "distance.csv")); err != nil {
		t.Fatalf("failed to remove edge list: %v", err)
	}
	if _, err := ReadData(cfg); err != nil {
		t.Fatalf("second ReadData failed despite cache: %v", err)
	}
}

func TestReadData_UnknownDataset(t *testing.T) {
	dir := t.TempDir()
	writeToyDataset(t, dir)
	cfg := toyConfig(dir)
	cfg.Dataset = "nope"

	if _, err := ReadData(cfg); !errors.Is(err, datasets.ErrUnknownDataset) {
		t.Fatalf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestReadData_MissingDataFile(t *testing.T) {
	dir := t.TempDir()
	cfg := toyConfig(dir) // registry points at files that were never written

	if _, err := ReadData(cfg); err == nil {
		t.Fatalf("expected error for missing raw data file")
	}
}

func TestReadData_MissingEdgeList(t *testing.T) {
	dir := t.TempDir()
	writeToyDataset(t, dir)
	if err := os.Remove(filepath.Join(dir, "distance.csv")); err != nil {
		t.Fatalf("failed to remove edge list: %v", err)
	}

	if _, err := ReadData(toyConfig(dir)); err == nil {
		t.Fatalf("expected error for missing edge list")
	}
}

func TestReadData_SeededRunsAgree(t *testing.T) {
	dir := t.TempDir()
	writeToyDataset(t, dir)
	cfg := toyConfig(dir)

	a, err := ReadData(cfg)
	if err != nil {
		t.Fatalf("first ReadData failed: %v", err)
	}
	b, err := ReadData(cfg)
	if err != nil {
		t.Fatalf("second ReadData failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if a.Semantic.At(i, j) != b.Semantic.At(i, j) {
				t.Fatalf("seeded runs disagree at (%d,%d): %v vs %v",
					i, j, a.Semantic.At(i, j), b.Semantic.At(i, j))
			}
		}
	}
}
