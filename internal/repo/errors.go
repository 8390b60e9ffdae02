package repo

import "github.com/systemshift/gitlet/internal/errs"

var (
	ErrAlreadyInitialized  = errs.New(errs.Precondition, "A Gitlet version-control system already exists in the current directory.")
	ErrNotInitialized      = errs.New(errs.Precondition, "Not in an initialized Gitlet directory.")
	ErrFileNotFound        = errs.New(errs.Precondition, "File does not exist.")
	ErrFileNotInCommit     = errs.New(errs.Precondition, "File does not exist in that commit.")
	ErrNoBranchToCheckout  = errs.New(errs.Precondition, "No such branch exists.")
	ErrAlreadyCurrent      = errs.New(errs.Precondition, "No need to checkout the current branch.")
	ErrUntrackedOverwrite  = errs.New(errs.Precondition, "There is an untracked file in the way; delete it, or add and commit it first.")
	ErrUncommittedChanges  = errs.New(errs.Precondition, "You have uncommitted changes.")
	ErrSelfMerge           = errs.New(errs.Precondition, "Cannot merge a branch with itself.")
	ErrNoCommitWithMessage = errs.New(errs.Precondition, "Found no commit with that message.")
)
