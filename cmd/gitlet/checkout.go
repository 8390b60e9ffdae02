package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
		Short: "Restore a file, or switch to a branch",
		Long: `Checkout has three forms:

  checkout -- <file>            restore <file> from the head commit
  checkout <commit> -- <file>   restore <file> from a commit (id or unique prefix)
  checkout <branch>             make <branch> current and replace the working tree

Restoring a file never touches the staging area. Switching branches clears it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)

			var run func(r *repo.Repository) error
			dash := cmd.ArgsLenAtDash()
			switch {
			case dash == 0 && len(args) == 1:
				run = func(r *repo.Repository) error { return r.CheckoutFile(args[0]) }
			case dash == 1 && len(args) == 2:
				run = func(r *repo.Repository) error { return r.CheckoutFileAt(args[0], args[1]) }
			case dash == -1 && len(args) == 1:
				run = func(r *repo.Repository) error { return r.CheckoutBranch(args[0]) }
			default:
				return report(printer, errIncorrectOperands)
			}

			r, err := openRepo(cmd)
			if err != nil {
				return report(printer, err)
			}
			return report(printer, run(r))
		},
	}
}
