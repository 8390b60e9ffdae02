package repo

import "github.com/systemshift/gitlet/internal/dag"

// CheckoutFile restores name to its version in the head commit. The index
// is not touched.
func (r *Repository) CheckoutFile(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	return r.restore(head, name)
}

// CheckoutFileAt restores name to its version in the commit ref resolves to.
func (r *Repository) CheckoutFileAt(ref, name string) error {
	c, err := r.Graph.Resolve(ref)
	if err != nil {
		return err
	}
	return r.restore(c, name)
}

func (r *Repository) restore(c *dag.Commit, name string) error {
	if !c.Tracks(name) {
		return ErrFileNotInCommit
	}
	data, err := r.blob(name, c)
	if err != nil {
		return err
	}
	r.log.Printf("checkout %s from %s", name, dag.Short(c.ID, 7))
	return r.Tree.Write(name, data)
}

// CheckoutBranch makes name the active branch and replaces the working tree
// with its head commit.
func (r *Repository) CheckoutBranch(name string) error {
	if !r.Refs.Has(name) {
		return ErrNoBranchToCheckout
	}
	current, head, err := r.Head()
	if err != nil {
		return err
	}
	if name == current {
		return ErrAlreadyCurrent
	}
	target, err := r.BranchCommit(name)
	if err != nil {
		return err
	}
	if err := r.checkoutCommit(head, target); err != nil {
		return err
	}
	if err := r.Refs.SetHead(name); err != nil {
		return err
	}
	r.log.Printf("switched to %s", name)
	return r.Index.Clear()
}

// Reset checks out the commit ref resolves to and moves the active branch
// to it.
func (r *Repository) Reset(ref string) error {
	target, err := r.Graph.Resolve(ref)
	if err != nil {
		return err
	}
	branch, head, err := r.Head()
	if err != nil {
		return err
	}
	if err := r.checkoutCommit(head, target); err != nil {
		return err
	}
	if err := r.Refs.Set(branch, target.ID); err != nil {
		return err
	}
	r.log.Printf("reset %s to %s", branch, dag.Short(target.ID, 7))
	return r.Index.Clear()
}

// checkUntracked fails when a working file that neither head nor the index
// knows about would be overwritten with different content by target.
func (r *Repository) checkUntracked(head, target *dag.Commit) error {
	files, err := r.Tree.Files()
	if err != nil {
		return err
	}
	for _, name := range files {
		if head.Tracks(name) {
			continue
		}
		if _, staged := r.Index.Staged(name); staged {
			continue
		}
		want := target.Blob(name)
		if !want.Defined() {
			continue
		}
		differs, err := r.differs(name, want)
		if err != nil {
			return err
		}
		if differs {
			return ErrUntrackedOverwrite
		}
	}
	return nil
}

// checkoutCommit replaces the working tree with target's snapshot. Nothing
// is written unless the untracked check passes.
func (r *Repository) checkoutCommit(head, target *dag.Commit) error {
	if err := r.checkUntracked(head, target); err != nil {
		return err
	}
	files, err := r.Tree.Files()
	if err != nil {
		return err
	}
	for _, name := range files {
		if target.Tracks(name) {
			continue
		}
		if err := r.Tree.Remove(name); err != nil {
			return err
		}
	}
	for _, name := range target.Files() {
		data, err := r.blob(name, target)
		if err != nil {
			return err
		}
		if err := r.Tree.Write(name, data); err != nil {
			return err
		}
	}
	return nil
}

// CreateBranch points a new branch at the head commit without switching.
func (r *Repository) CreateBranch(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if err := r.Refs.Create(name, head.ID); err != nil {
		return err
	}
	r.log.Printf("branch %s at %s", name, dag.Short(head.ID, 7))
	return nil
}

// RemoveBranch deletes a branch pointer. Its commits stay in the store.
func (r *Repository) RemoveBranch(name string) error {
	if err := r.Refs.Delete(name); err != nil {
		return err
	}
	r.log.Printf("removed branch %s", name)
	return nil
}

// Branches returns the active branch and all branch names, sorted.
func (r *Repository) Branches() (string, []string, error) {
	current, err := r.Refs.HeadBranch()
	if err != nil {
		return "", nil, err
	}
	names, err := r.Refs.List()
	if err != nil {
		return "", nil, err
	}
	return current, names, nil
}
