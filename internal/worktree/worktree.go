// Package worktree reads and writes the user's working directory: the flat
// set of regular files beside the repository's metadata directory.
package worktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	gocid "github.com/ipfs/go-cid"
	"golang.org/x/exp/mmap"

	"github.com/systemshift/gitlet/internal/dag"
)

// ErrInvalidName rejects names that are not a single path element.
var ErrInvalidName = errors.New("invalid file name")

// Tree is a working directory rooted at root. The metadata directory and
// any sub-directory are not part of the tree.
type Tree struct {
	root string
	meta string
}

// New returns the tree at root, ignoring the metadata directory named meta.
func New(root, meta string) *Tree {
	return &Tree{root: root, meta: meta}
}

// Root returns the directory the tree lives in.
func (t *Tree) Root() string {
	return t.root
}

// ValidName reports whether name addresses a file directly inside the tree.
func (t *Tree) ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && name != t.meta &&
		filepath.Base(name) == name
}

func (t *Tree) path(name string) (string, error) {
	if !t.ValidName(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(t.root, name), nil
}

// Files lists the regular files in the tree, sorted.
func (t *Tree) Files() ([]string, error) {
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return nil, fmt.Errorf("list working directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !t.ValidName(e.Name()) || dag.IsTemp(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Exists reports whether name is a regular file in the tree.
func (t *Tree) Exists(name string) bool {
	p, err := t.path(name)
	if err != nil {
		return false
	}
	info, err := os.Lstat(p)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the content of name through a read-only memory map.
func (t *Tree) Read(name string) ([]byte, error) {
	p, err := t.path(name)
	if err != nil {
		return nil, err
	}
	reader, err := mmap.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer reader.Close()

	data := make([]byte, reader.Len())
	if _, err := reader.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Digest returns the blob CID the content of name would be stored under.
func (t *Tree) Digest(name string) (gocid.Cid, error) {
	data, err := t.Read(name)
	if err != nil {
		return gocid.Undef, err
	}
	return dag.ComputeCID(data)
}

// Write replaces name with data.
func (t *Tree) Write(name string, data []byte) error {
	p, err := t.path(name)
	if err != nil {
		return err
	}
	return dag.SafeWrite(p, data, 0644)
}

// Remove deletes name. A missing file is not an error.
func (t *Tree) Remove(name string) error {
	p, err := t.path(name)
	if err != nil {
		return err
	}
	return dag.SafeRemove(p)
}
