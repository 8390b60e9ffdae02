package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <name>",
		Short: "Create a branch at the head commit",
		Long:  `Create a branch pointing at the head commit. The current branch does not change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				return r.CreateBranch(args[0])
			})
		},
	}
}

func newRmBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-branch <name>",
		Short: "Delete a branch pointer",
		Long:  `Delete a branch pointer. Its commits stay in the object store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				return r.RemoveBranch(args[0])
			})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <commit>",
		Short: "Move the current branch to a commit and check it out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				return r.Reset(args[0])
			})
		},
	}
}
