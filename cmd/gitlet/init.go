package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a repository in the current directory",
		Long: `Create .gitlet/ with a single initial commit on the default branch.

The branch name comes from init.default_branch in the global config and
falls back to master.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			if len(args) != 0 {
				return report(printer, errIncorrectOperands)
			}
			_, err := repo.Init(workDir(cmd), repoOptions(cmd))
			return report(printer, err)
		},
	}
}
