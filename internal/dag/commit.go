package dag

import (
	"maps"
	"slices"
	"time"

	gocid "github.com/ipfs/go-cid"
)

// InitialMessage is the message of the root commit every repository shares.
const InitialMessage = "initial commit"

// Commit is an immutable snapshot node. It is serialized via CanonicalJSON
// and stored in the ObjectStore under the dag-json codec; its CID is its
// identity. Parent and blob references are CIDs, encoded as dag-json links.
type Commit struct {
	ID      gocid.Cid            `json:"-"`
	Message string               `json:"message"`
	Parents []gocid.Cid          `json:"parents"`
	Time    time.Time            `json:"time"`
	Tracked map[string]gocid.Cid `json:"tracked"` // filename -> blob CID
}

// Snapshot is the pending change set applied on top of parents[0] when a
// commit is created.
type Snapshot struct {
	Additions map[string]gocid.Cid
	Removals  []string
}

// Empty reports whether the snapshot contributes no change at all.
func (s Snapshot) Empty() bool {
	return len(s.Additions) == 0 && len(s.Removals) == 0
}

// Parent returns parents[0], or the undefined CID for the initial commit.
func (c *Commit) Parent() gocid.Cid {
	if len(c.Parents) == 0 {
		return gocid.Undef
	}
	return c.Parents[0]
}

// IsMerge reports whether c has two parents.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// Blob returns the blob CID tracked for name, or the undefined CID.
func (c *Commit) Blob(name string) gocid.Cid {
	if b, ok := c.Tracked[name]; ok {
		return b
	}
	return gocid.Undef
}

// Tracks reports whether name is part of the snapshot.
func (c *Commit) Tracks(name string) bool {
	_, ok := c.Tracked[name]
	return ok
}

// Files returns the tracked filenames in sorted order.
func (c *Commit) Files() []string {
	return slices.Sorted(maps.Keys(c.Tracked))
}
