package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

func newCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <message>",
		Short: "Record the staged changes",
		Long: `Create a commit on the current branch from the head snapshot plus the
staging area. The message must be a single operand; quote it if it has
spaces.`,
		Example: `  gitlet commit "fix parser crash"
  gitlet commit "initial layout" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			switch len(args) {
			case 0:
				return report(printer, dag.ErrEmptyMessage)
			case 1:
			default:
				return report(printer, errIncorrectOperands)
			}
			r, err := openRepo(cmd)
			if err != nil {
				return report(printer, err)
			}
			c, err := r.Commit(args[0])
			if err != nil {
				return report(printer, err)
			}
			if printer.IsJSON() {
				return printer.WriteJSON(viewCommit(c))
			}
			return nil
		},
	}
}
