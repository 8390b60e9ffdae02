package repo

import (
	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/stage"
)

// Add stages the working copy of name. Content identical to the head
// commit's version clears any pending addition instead.
func (r *Repository) Add(name string) error {
	if !r.Tree.Exists(name) {
		return ErrFileNotFound
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	content, err := r.Tree.Read(name)
	if err != nil {
		return err
	}
	wasRemoved := r.Index.Removed(name)
	out, err := r.Index.StageAddition(name, head.Blob(name), content)
	if err != nil {
		return err
	}
	if out == stage.Unchanged && !wasRemoved {
		return nil
	}
	r.log.Printf("add %s: %v", name, out)
	return r.Index.Save()
}

// Remove unstages name and, when the head commit tracks it, stages its
// removal and deletes the working copy.
func (r *Repository) Remove(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	tracked := head.Tracks(name)
	if _, err := r.Index.StageRemoval(name, tracked); err != nil {
		return err
	}
	if err := r.Index.Save(); err != nil {
		return err
	}
	if tracked {
		r.log.Printf("rm %s: staged for removal", name)
		return r.Tree.Remove(name)
	}
	r.log.Printf("rm %s: unstaged", name)
	return nil
}

// Commit records the staged snapshot on the active branch.
func (r *Repository) Commit(message string) (*dag.Commit, error) {
	branch, head, err := r.Head()
	if err != nil {
		return nil, err
	}
	return r.commitOn(branch, message, []gocid.Cid{head.ID})
}

// commitOn creates a commit from the index, advances branch to it and
// clears the index.
func (r *Repository) commitOn(branch, message string, parents []gocid.Cid) (*dag.Commit, error) {
	c, err := r.Graph.Create(message, parents, r.Index.Snapshot())
	if err != nil {
		return nil, err
	}
	if err := r.Refs.Set(branch, c.ID); err != nil {
		return nil, err
	}
	if err := r.Index.Clear(); err != nil {
		return nil, err
	}
	r.msgMu.Lock()
	if r.messages != nil {
		r.messages.Add(c)
	}
	r.msgMu.Unlock()
	r.log.Printf("commit %s on %s", dag.Short(c.ID, 7), branch)
	return c, nil
}
