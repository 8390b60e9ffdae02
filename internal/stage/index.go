// Package stage holds the staging index: the pending additions and removals
// that the next commit applies on top of the head commit.
package stage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/errs"
)

// ErrNothingToRemove is returned by StageRemoval for a file that is neither
// staged nor tracked.
var ErrNothingToRemove = errs.New(errs.Precondition, "No reason to remove the file.")

// Outcome describes what StageAddition did.
type Outcome int

const (
	// Unchanged: the content is already staged; nothing to persist.
	Unchanged Outcome = iota
	// Reverted: the content matches the head commit, so any pending
	// addition was dropped.
	Reverted
	// Staged: a new blob was stored and recorded.
	Staged
)

func (o Outcome) String() string {
	switch o {
	case Reverted:
		return "reverted"
	case Staged:
		return "staged"
	default:
		return "unchanged"
	}
}

// Index is the staging area. Additions and removals are disjoint per
// filename.
type Index struct {
	path      string
	store     *dag.ObjectStore
	additions map[string]gocid.Cid
	removals  mapset.Set[string]
}

// onDisk is the persisted form. Removals are kept sorted so the file is
// stable across saves.
type onDisk struct {
	Additions map[string]gocid.Cid `json:"additions"`
	Removals  []string             `json:"removals"`
}

// Load reads the index at path. A missing file is an empty index.
func Load(path string, store *dag.ObjectStore) (*Index, error) {
	x := &Index{
		path:      path,
		store:     store,
		additions: make(map[string]gocid.Cid),
		removals:  mapset.NewThreadUnsafeSet[string](),
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return x, nil
	}
	if err != nil {
		return nil, errs.Fatalf(err, "read index")
	}
	var disk onDisk
	if err := json.Unmarshal(data, &disk); err != nil {
		return nil, errs.Fatalf(err, "decode index")
	}
	maps.Copy(x.additions, disk.Additions)
	x.removals.Append(disk.Removals...)
	return x, nil
}

// Save persists the index atomically.
func (x *Index) Save() error {
	data, err := json.MarshalIndent(onDisk{
		Additions: x.additions,
		Removals:  x.Removals(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return dag.SafeWrite(x.path, append(data, '\n'), 0644)
}

// StageAddition stages content for name. parent is the blob the head commit
// tracks for name (gocid.Undef when untracked). Any pending removal of name is
// cancelled.
func (x *Index) StageAddition(name string, parent gocid.Cid, content []byte) (Outcome, error) {
	digest, err := dag.ComputeCID(content)
	if err != nil {
		return Unchanged, err
	}
	x.removals.Remove(name)

	if staged, ok := x.additions[name]; ok && staged == digest {
		return Unchanged, nil
	}
	if digest == parent {
		delete(x.additions, name)
		return Reverted, nil
	}
	if _, err := x.store.Put(content); err != nil {
		return Unchanged, errs.Fatalf(err, "store blob for %s", name)
	}
	x.additions[name] = digest
	return Staged, nil
}

// StageRemoval unstages name and, when the head commit tracks it, marks it
// for removal. The returned bool tells the caller to delete the working
// file.
func (x *Index) StageRemoval(name string, trackedByHead bool) (bool, error) {
	_, staged := x.additions[name]
	if !staged && !trackedByHead {
		return false, ErrNothingToRemove
	}
	delete(x.additions, name)
	if trackedByHead {
		x.removals.Add(name)
		return true, nil
	}
	return false, nil
}

// StageBlob records an already stored blob as an addition.
func (x *Index) StageBlob(name string, blob gocid.Cid) {
	x.removals.Remove(name)
	x.additions[name] = blob
}

// StageDeletion marks name for removal, dropping any pending addition.
func (x *Index) StageDeletion(name string) {
	delete(x.additions, name)
	x.removals.Add(name)
}

// IsEmpty reports whether nothing is staged.
func (x *Index) IsEmpty() bool {
	return len(x.additions) == 0 && x.removals.Cardinality() == 0
}

// Clear empties the index and persists it.
func (x *Index) Clear() error {
	x.additions = make(map[string]gocid.Cid)
	x.removals.Clear()
	return x.Save()
}

// Snapshot returns the staged changes for dag.Graph.Create.
func (x *Index) Snapshot() dag.Snapshot {
	return dag.Snapshot{
		Additions: maps.Clone(x.additions),
		Removals:  x.Removals(),
	}
}

// Additions returns the names staged for addition, sorted.
func (x *Index) Additions() []string {
	return slices.Sorted(maps.Keys(x.additions))
}

// Removals returns the names staged for removal, sorted.
func (x *Index) Removals() []string {
	names := x.removals.ToSlice()
	slices.Sort(names)
	return names
}

// Staged returns the blob staged for name.
func (x *Index) Staged(name string) (gocid.Cid, bool) {
	c, ok := x.additions[name]
	return c, ok
}

// Removed reports whether name is staged for removal.
func (x *Index) Removed(name string) bool {
	return x.removals.Contains(name)
}
