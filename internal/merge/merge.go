// Package merge classifies files for a three-way merge and builds conflict
// content. It is pure: applying the decisions is the caller's job.
package merge

import (
	"bytes"
	"maps"
	"slices"

	gocid "github.com/ipfs/go-cid"
)

// Action is what a merge does with one file.
type Action int

const (
	// Keep leaves the current version (or absence) as is.
	Keep Action = iota
	// TakeGiven checks out and stages the given branch's version.
	TakeGiven
	// Remove stages the file for removal and deletes it.
	Remove
	// Conflict writes marker-framed content and stages it.
	Conflict
)

func (a Action) String() string {
	switch a {
	case TakeGiven:
		return "take-given"
	case Remove:
		return "remove"
	case Conflict:
		return "conflict"
	default:
		return "keep"
	}
}

// Decision pairs a filename with its action and the three versions it was
// classified from. Undefined CIDs mean the file is absent on that side.
type Decision struct {
	Name                  string
	Action                Action
	Split, Current, Given gocid.Cid
}

// Classify decides what to do with a file whose blob is s at the split
// point, c on the current branch and g on the given branch.
func Classify(s, c, g gocid.Cid) Action {
	switch {
	case c == g:
		return Keep
	case g == s:
		// Only the current side changed.
		return Keep
	case c == s && !g.Defined():
		return Remove
	case c == s:
		return TakeGiven
	default:
		return Conflict
	}
}

// Plan classifies every file named by any of the three tracked maps, in
// filename order.
func Plan(split, current, given map[string]gocid.Cid) []Decision {
	names := make(map[string]struct{})
	for _, m := range []map[string]gocid.Cid{split, current, given} {
		for name := range m {
			names[name] = struct{}{}
		}
	}
	plan := make([]Decision, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		s, c, g := split[name], current[name], given[name]
		plan = append(plan, Decision{
			Name:    name,
			Action:  Classify(s, c, g),
			Split:   s,
			Current: c,
			Given:   g,
		})
	}
	return plan
}

// Conflicts returns the names of the conflicting decisions.
func Conflicts(plan []Decision) []string {
	var names []string
	for _, d := range plan {
		if d.Action == Conflict {
			names = append(names, d.Name)
		}
	}
	return names
}

// ConflictContent frames both versions of a file with conflict markers. A
// side that deleted the file contributes nothing.
func ConflictContent(current, given []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	buf.Write(current)
	buf.WriteString("=======\n")
	buf.Write(given)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}
