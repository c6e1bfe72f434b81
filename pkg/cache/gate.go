package cache

import (
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Gate decides whether a work directory already holds the artifacts of a run.
type Gate interface {
	// Valid reports whether the directory contents match set exactly.
	Valid(set ArtifactSet) (bool, error)

	// Invalidate removes every file owned by this tool.
	Invalidate() error

	// Dir is the work directory the gate guards.
	Dir() string
}

// FileGate is a Gate backed by a directory listing.
type FileGate struct {
	dir string
}

// NewFileGate creates a gate for dir. The directory will be created if it
// doesn't exist.
func NewFileGate(dir string) (*FileGate, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create work directory %s", dir)
	}
	return &FileGate{dir: dir}, nil
}

// Dir returns the work directory.
func (g *FileGate) Dir() string { return g.dir }

// Valid compares the owned files in the directory with set.Expected().
// Extra files from an older key invalidate the directory as much as
// missing ones.
func (g *FileGate) Valid(set ArtifactSet) (bool, error) {
	present, err := g.Present()
	if err != nil {
		return false, err
	}
	return slices.Equal(present, set.Expected()), nil
}

// Present lists the owned file names in the directory, sorted.
func (g *FileGate) Present() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read work directory %s", g.dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !Owned(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate deletes every owned file, not only stale ones.
func (g *FileGate) Invalidate() error {
	names, err := g.Present()
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := os.Remove(filepath.Join(g.dir, n)); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeIO, err, "remove %s", n)
		}
	}
	return nil
}

// Ensure FileGate implements Gate.
var _ Gate = (*FileGate)(nil)
