package dag

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/errs"
)

var (
	ErrEmptyMessage = errs.New(errs.Precondition, "Please enter a commit message.")
	ErrNoChanges    = errs.New(errs.Precondition, "No changes added to the commit.")
	ErrNoSuchCommit = errs.New(errs.Precondition, "No commit with that id exists.")
)

// Graph is the commit DAG. Commits are loaded on demand into an arena keyed
// by CID; edges are parent CIDs, never pointers.
type Graph struct {
	store *ObjectStore
	now   func() time.Time

	mu    sync.RWMutex
	arena map[gocid.Cid]*Commit
}

// NewGraph creates a Graph over store. now stamps new commits; nil means
// time.Now.
func NewGraph(store *ObjectStore, now func() time.Time) *Graph {
	if now == nil {
		now = time.Now
	}
	return &Graph{store: store, now: now, arena: make(map[gocid.Cid]*Commit)}
}

// Create builds, stores and returns a commit. Its tracked map is parents[0]'s
// map with the snapshot applied. A single-parent commit needs a message and
// at least one staged change; the parentless initial commit needs neither.
func (g *Graph) Create(message string, parents []gocid.Cid, snap Snapshot) (*Commit, error) {
	if len(parents) > 0 && strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if len(parents) == 1 && snap.Empty() {
		return nil, ErrNoChanges
	}

	tracked := make(map[string]gocid.Cid)
	ts := time.Unix(0, 0).UTC()
	if len(parents) > 0 {
		parent, err := g.load(parents[0])
		if err != nil {
			return nil, err
		}
		maps.Copy(tracked, parent.Tracked)
		ts = g.now().UTC().Round(0)
	}
	maps.Copy(tracked, snap.Additions)
	for _, name := range snap.Removals {
		delete(tracked, name)
	}

	c := &Commit{
		Message: message,
		Parents: append([]gocid.Cid{}, parents...),
		Time:    ts,
		Tracked: tracked,
	}
	data, err := CanonicalJSON(c)
	if err != nil {
		return nil, errs.Fatalf(err, "serialize commit")
	}
	id, err := g.store.PutCommit(data)
	if err != nil {
		return nil, errs.Fatalf(err, "store commit")
	}
	c.ID = id
	g.remember(c)
	return c, nil
}

// Initial returns the shared root commit, storing it if necessary.
func (g *Graph) Initial() (*Commit, error) {
	return g.Create(InitialMessage, nil, Snapshot{})
}

func (g *Graph) cached(id gocid.Cid) *Commit {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.arena[id]
}

func (g *Graph) remember(c *Commit) {
	g.mu.Lock()
	g.arena[c.ID] = c
	g.mu.Unlock()
}

// load reads a commit that must exist. A missing or undecodable object is
// corruption, not a user error.
func (g *Graph) load(id gocid.Cid) (*Commit, error) {
	if c := g.cached(id); c != nil {
		return c, nil
	}
	data, err := g.store.Get(id)
	if err != nil {
		return nil, errs.Fatalf(err, "load commit %s", Hex(id))
	}
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errs.Fatalf(err, "decode commit %s", Hex(id))
	}
	if c.Tracked == nil {
		c.Tracked = make(map[string]gocid.Cid)
	}
	if c.Parents == nil {
		c.Parents = []gocid.Cid{}
	}
	c.ID = id
	g.remember(&c)
	return &c, nil
}

// Get returns the commit with the given CID, or ErrNoSuchCommit.
func (g *Graph) Get(id gocid.Cid) (*Commit, error) {
	if c := g.cached(id); c != nil {
		return c, nil
	}
	if !id.Defined() || id.Type() != gocid.DagJSON || !g.store.Has(id) {
		return nil, ErrNoSuchCommit
	}
	return g.load(id)
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// Resolve finds a commit by full hex identity, full CID string, or unique
// hex prefix. Empty and ambiguous prefixes resolve to nothing.
func (g *Graph) Resolve(ref string) (*Commit, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return nil, ErrNoSuchCommit
	}
	if !isHex(ref) {
		c, err := gocid.Decode(ref)
		if err != nil {
			return nil, ErrNoSuchCommit
		}
		return g.Get(c)
	}
	if len(ref) == 64 {
		id, err := CommitID(ref)
		if err != nil {
			return nil, ErrNoSuchCommit
		}
		return g.Get(id)
	}

	ids, err := g.CommitIDs()
	if err != nil {
		return nil, err
	}
	var match gocid.Cid
	n := 0
	for _, id := range ids {
		if strings.HasPrefix(Hex(id), ref) {
			match = id
			n++
		}
	}
	if n != 1 {
		return nil, ErrNoSuchCommit
	}
	return g.Get(match)
}

// CommitIDs lists the CIDs of every stored commit, sorted by hex identity.
func (g *Graph) CommitIDs() ([]gocid.Cid, error) {
	all, err := g.store.List()
	if err != nil {
		return nil, err
	}
	ids := slices.DeleteFunc(all, func(c gocid.Cid) bool {
		return c.Type() != gocid.DagJSON
	})
	slices.SortFunc(ids, func(a, b gocid.Cid) int {
		return strings.Compare(Hex(a), Hex(b))
	})
	return ids, nil
}

// AllCommits loads every commit in the store.
func (g *Graph) AllCommits() ([]*Commit, error) {
	ids, err := g.CommitIDs()
	if err != nil {
		return nil, err
	}
	commits := make([]*Commit, 0, len(ids))
	for _, id := range ids {
		c, err := g.load(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Ancestors returns every commit reachable from id, id included.
func (g *Graph) Ancestors(id gocid.Cid) (mapset.Set[gocid.Cid], error) {
	seen := mapset.NewThreadUnsafeSet(id)
	queue := []gocid.Cid{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, err := g.load(cur)
		if err != nil {
			return nil, err
		}
		for _, p := range c.Parents {
			if seen.Add(p) {
				queue = append(queue, p)
			}
		}
	}
	return seen, nil
}

// IsAncestor reports whether a is reachable from b through parent edges.
// Every commit is its own ancestor.
func (g *Graph) IsAncestor(a, b gocid.Cid) (bool, error) {
	seen := mapset.NewThreadUnsafeSet(b)
	queue := []gocid.Cid{b}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == a {
			return true, nil
		}
		c, err := g.load(cur)
		if err != nil {
			return false, err
		}
		for _, p := range c.Parents {
			if seen.Add(p) {
				queue = append(queue, p)
			}
		}
	}
	return false, nil
}

// FirstParentHistory yields id, its first parent, and so on down to the
// initial commit. Iteration stops at the first load error.
func (g *Graph) FirstParentHistory(id gocid.Cid) iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		for cur := id; cur.Defined(); {
			c, err := g.load(cur)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(c, nil) {
				return
			}
			cur = c.Parent()
		}
	}
}

// SplitCommit returns the merge base of a and b: the nearest ancestor of a,
// by breadth-first depth, that is also an ancestor of b. When one level
// holds several common ancestors (criss-cross history) the one with the
// lowest hex identity wins. Unrelated histories fall back to the initial
// commit.
func (g *Graph) SplitCommit(a, b gocid.Cid) (*Commit, error) {
	common, err := g.Ancestors(b)
	if err != nil {
		return nil, err
	}
	seen := mapset.NewThreadUnsafeSet(a)
	level := []gocid.Cid{a}
	for len(level) > 0 {
		var hits, next []gocid.Cid
		for _, id := range level {
			if common.Contains(id) {
				hits = append(hits, id)
				continue
			}
			c, err := g.load(id)
			if err != nil {
				return nil, err
			}
			for _, p := range c.Parents {
				if seen.Add(p) {
					next = append(next, p)
				}
			}
		}
		if len(hits) > 0 {
			best := slices.MinFunc(hits, func(x, y gocid.Cid) int {
				return strings.Compare(Hex(x), Hex(y))
			})
			return g.load(best)
		}
		level = next
	}
	return g.Initial()
}
