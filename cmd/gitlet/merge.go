package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

type mergeView struct {
	Outcome   string   `json:"outcome"`
	Commit    string   `json:"commit"`
	Split     string   `json:"split"`
	Conflicts []string `json:"conflicts"`
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Long: `Merge <branch> into the current branch using the latest common ancestor
as the base.

If <branch> is already an ancestor, nothing happens. If the current branch
is an ancestor of <branch>, it fast-forwards. Otherwise a merge commit with
two parents is created; conflicting files are written with markers and
committed as they are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				res, err := r.Merge(args[0])
				if err != nil {
					return err
				}

				if printer.IsJSON() {
					conflicts := res.Conflicts
					if conflicts == nil {
						conflicts = []string{}
					}
					return printer.WriteJSON(mergeView{
						Outcome:   res.Outcome.String(),
						Commit:    dag.Hex(res.Commit.ID),
						Split:     dag.Hex(res.Split.ID),
						Conflicts: conflicts,
					})
				}

				switch res.Outcome {
				case repo.UpToDate:
					printer.Println(repo.MsgUpToDate)
				case repo.FastForwarded:
					printer.Println(repo.MsgFastForwarded)
				case repo.Merged:
					if len(res.Conflicts) > 0 {
						printer.Warn(repo.MsgConflict)
					}
				}
				return nil
			})
		},
	}
}
