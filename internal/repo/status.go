package repo

import (
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	gocid "github.com/ipfs/go-cid"
)

// ChangeKind says how a working file differs from what would be committed.
type ChangeKind string

const (
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
)

// Change is an unstaged modification.
type Change struct {
	Name string     `json:"name"`
	Kind ChangeKind `json:"kind"`
}

// Status is a snapshot of branches, the index and the working tree. Every
// list is sorted.
type Status struct {
	Branch    string   `json:"branch"`
	Branches  []string `json:"branches"`
	Staged    []string `json:"staged"`
	Removed   []string `json:"removed"`
	Modified  []Change `json:"modified"`
	Untracked []string `json:"untracked"`
}

// Status reports the state of the repository.
func (r *Repository) Status() (*Status, error) {
	branch, head, err := r.Head()
	if err != nil {
		return nil, err
	}
	branches, err := r.Refs.List()
	if err != nil {
		return nil, err
	}
	files, err := r.Tree.Files()
	if err != nil {
		return nil, err
	}

	st := &Status{
		Branch:    branch,
		Branches:  branches,
		Staged:    append([]string{}, r.Index.Additions()...),
		Removed:   append([]string{}, r.Index.Removals()...),
		Modified:  []Change{},
		Untracked: []string{},
	}

	present := mapset.NewThreadUnsafeSet(files...)
	names := present.Clone()
	names.Append(head.Files()...)
	names.Append(st.Staged...)
	all := names.ToSlice()
	slices.Sort(all)

	for _, name := range all {
		staged, isStaged := r.Index.Staged(name)
		tracked := head.Tracks(name)
		removed := r.Index.Removed(name)
		exists := present.Contains(name)

		switch {
		case isStaged:
			if !exists {
				st.Modified = append(st.Modified, Change{name, Deleted})
			} else if differs, err := r.differs(name, staged); err != nil {
				return nil, err
			} else if differs {
				st.Modified = append(st.Modified, Change{name, Modified})
			}
		case tracked && !removed:
			if !exists {
				st.Modified = append(st.Modified, Change{name, Deleted})
			} else if differs, err := r.differs(name, head.Blob(name)); err != nil {
				return nil, err
			} else if differs {
				st.Modified = append(st.Modified, Change{name, Modified})
			}
		case exists:
			st.Untracked = append(st.Untracked, name)
		}
	}
	return st, nil
}

func (r *Repository) differs(name string, want gocid.Cid) (bool, error) {
	got, err := r.Tree.Digest(name)
	if err != nil {
		return false, err
	}
	return got != want, nil
}

// FormatStatus renders st as the five status sections.
func FormatStatus(st *Status) string {
	var b strings.Builder
	section := func(title string, lines []string) {
		b.WriteString("=== " + title + " ===\n")
		for _, l := range lines {
			b.WriteString(l + "\n")
		}
		b.WriteString("\n")
	}

	branches := make([]string, len(st.Branches))
	for i, name := range st.Branches {
		if name == st.Branch {
			name = "*" + name
		}
		branches[i] = name
	}
	mods := make([]string, len(st.Modified))
	for i, m := range st.Modified {
		mods[i] = m.Name + " (" + string(m.Kind) + ")"
	}

	section("Branches", branches)
	section("Staged Files", st.Staged)
	section("Removed Files", st.Removed)
	section("Modifications Not Staged For Commit", mods)
	section("Untracked Files", st.Untracked)
	return b.String()
}
