package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Stage a file for the next commit",
		Long: `Stage the current contents of a file.

Adding a file identical to the head commit's version unstages it, and
adding a file staged for removal cancels the removal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				return r.Add(args[0])
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file>",
		Short: "Unstage a file, or stage a tracked file for removal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				return r.Remove(args[0])
			})
		},
	}
}
