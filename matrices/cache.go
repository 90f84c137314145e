// Package matrices builds the N x N node-distance matrices consumed by the
// graph-embedding step: a semantic matrix from pairwise sequence-alignment
// distances between per-node daily profiles, and a spatial matrix parsed
// from a sensor edge list. Both are memoized on disk as .npy dumps so the
// expensive O(N^2) builds run once per dataset. The package also provides
// the symmetric degree normalization applied to adjacency matrices before
// they are handed to a downstream model.
package matrices

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Cache memoizes dense matrices as .npy files under Dir. A key maps to the
// file <Dir>/<key>.npy; if the file exists GetOrCompute loads it instead of
// invoking the compute function. Writes go to a temp file and are published
// with an atomic rename, and each key is guarded by its own mutex, so
// concurrent GetOrCompute calls for the same key within one process compute
// at most once and never observe a partial file.
type Cache struct {
	Dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache returns a cache rooted at dir, creating it if necessary.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &Cache{Dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Path returns the on-disk location of the artifact for key.
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, key+".npy")
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks == nil {
		c.locks = make(map[string]*sync.Mutex)
	}
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// GetOrCompute returns the cached matrix for key, computing and persisting
// it on a miss.
func (c *Cache) GetOrCompute(key string, compute func() (*mat.Dense, error)) (*mat.Dense, error) {
	l := c.keyLock(key)
	l.Lock()
	defer l.Unlock()

	m, err := c.load(key)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	m, err = compute()
	if err != nil {
		return nil, err
	}
	if err := c.store(key, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Cache) load(key string) (*mat.Dense, error) {
	f, err := os.Open(c.Path(key))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, fmt.Errorf("failed to decode cached matrix %s: %w", c.Path(key), err)
	}
	return &m, nil
}

func (c *Cache) store(key string, m *mat.Dense) error {
	tmp, err := os.CreateTemp(c.Dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := npyio.Write(tmp, m); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode matrix for key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(key)); err != nil {
		return fmt.Errorf("failed to publish cache file for key %s: %w", key, err)
	}
	return nil
}
