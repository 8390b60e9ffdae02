package repo

import (
	"fmt"

	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/errs"
	"github.com/systemshift/gitlet/internal/merge"
)

// MergeOutcome says which path a merge took.
type MergeOutcome int

const (
	// UpToDate: the given branch is already an ancestor of head.
	UpToDate MergeOutcome = iota
	// FastForwarded: head was an ancestor of the given branch and moved to it.
	FastForwarded
	// Merged: a two-parent merge commit was created.
	Merged
)

func (o MergeOutcome) String() string {
	switch o {
	case UpToDate:
		return "up-to-date"
	case FastForwarded:
		return "fast-forward"
	default:
		return "merged"
	}
}

const (
	MsgUpToDate      = "Given branch is an ancestor of the current branch."
	MsgFastForwarded = "Current branch fast-forwarded."
	MsgConflict      = "Encountered a merge conflict."
)

// MergeResult describes a completed merge.
type MergeResult struct {
	Outcome MergeOutcome
	// Commit is the merge commit, or the new head after a fast-forward.
	Commit *dag.Commit
	Split  *dag.Commit
	// Conflicts lists files written with conflict markers, sorted.
	Conflicts []string
}

// MergeMessage is the message of the commit merging given into current.
func MergeMessage(given, current string) string {
	return fmt.Sprintf("Merged %s into %s.", given, current)
}

// Merge merges branch given into the active branch. Conflicts do not abort
// the merge; they are committed in marker-framed form and listed in the
// result.
func (r *Repository) Merge(given string) (*MergeResult, error) {
	if !r.Index.IsEmpty() {
		return nil, ErrUncommittedChanges
	}
	if !r.Refs.Has(given) {
		return nil, dag.ErrNoSuchBranch
	}
	current, head, err := r.Head()
	if err != nil {
		return nil, err
	}
	if given == current {
		return nil, ErrSelfMerge
	}
	other, err := r.BranchCommit(given)
	if err != nil {
		return nil, err
	}
	if err := r.checkUntracked(head, other); err != nil {
		return nil, err
	}

	if ok, err := r.Graph.IsAncestor(other.ID, head.ID); err != nil {
		return nil, err
	} else if ok {
		return &MergeResult{Outcome: UpToDate, Commit: head, Split: other}, nil
	}
	if ok, err := r.Graph.IsAncestor(head.ID, other.ID); err != nil {
		return nil, err
	} else if ok {
		if err := r.checkoutCommit(head, other); err != nil {
			return nil, err
		}
		if err := r.Refs.Set(current, other.ID); err != nil {
			return nil, err
		}
		if err := r.Index.Clear(); err != nil {
			return nil, err
		}
		r.log.Printf("merge %s: fast-forward %s to %s", given, current, dag.Short(other.ID, 7))
		return &MergeResult{Outcome: FastForwarded, Commit: other, Split: head}, nil
	}

	split, err := r.Graph.SplitCommit(other.ID, head.ID)
	if err != nil {
		return nil, err
	}
	plan := merge.Plan(split.Tracked, head.Tracked, other.Tracked)
	for _, d := range plan {
		if err := r.apply(d); err != nil {
			return nil, err
		}
	}

	c, err := r.commitOn(current, MergeMessage(given, current), []gocid.Cid{head.ID, other.ID})
	if err != nil {
		return nil, err
	}
	conflicts := merge.Conflicts(plan)
	r.log.Printf("merge %s into %s: split %s, %d conflict(s)", given, current, dag.Short(split.ID, 7), len(conflicts))
	return &MergeResult{Outcome: Merged, Commit: c, Split: split, Conflicts: conflicts}, nil
}

// apply carries out one merge decision on the working tree and the index.
func (r *Repository) apply(d merge.Decision) error {
	switch d.Action {
	case merge.TakeGiven:
		data, err := r.Store.Get(d.Given)
		if err != nil {
			return errs.Fatalf(err, "load %s for merge", d.Name)
		}
		if err := r.Tree.Write(d.Name, data); err != nil {
			return err
		}
		r.Index.StageBlob(d.Name, d.Given)
	case merge.Remove:
		r.Index.StageDeletion(d.Name)
		return r.Tree.Remove(d.Name)
	case merge.Conflict:
		cur, err := r.optionalBlob(d.Current)
		if err != nil {
			return err
		}
		giv, err := r.optionalBlob(d.Given)
		if err != nil {
			return err
		}
		content := merge.ConflictContent(cur, giv)
		id, err := r.Store.Put(content)
		if err != nil {
			return errs.Fatalf(err, "store conflict for %s", d.Name)
		}
		if err := r.Tree.Write(d.Name, content); err != nil {
			return err
		}
		r.Index.StageBlob(d.Name, id)
	}
	return nil
}

// optionalBlob loads id, treating an undefined CID as an absent file.
func (r *Repository) optionalBlob(id gocid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, nil
	}
	data, err := r.Store.Get(id)
	if err != nil {
		return nil, errs.Fatalf(err, "load blob %s", dag.Short(id, 7))
	}
	return data, nil
}
