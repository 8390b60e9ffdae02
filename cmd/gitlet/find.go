package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

func newFindCmd() *cobra.Command {
	var search bool
	var limit int

	cmd := &cobra.Command{
		Use:   "find <message>",
		Short: "Print the ids of commits with the given message",
		Long: `Print the id of every commit whose message is exactly <message>, one per
line. With --search, rank commits by how many words of <message> appear
in their message instead.`,
		Example: `  gitlet find "initial commit"
  gitlet find --search "parser crash" --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 1, func(r *repo.Repository) error {
				var commits []*dag.Commit
				var err error
				if search {
					commits, err = r.Search(args[0], limit)
				} else {
					commits, err = r.Find(args[0])
				}
				if err != nil {
					return err
				}
				if printer.IsJSON() {
					return printCommits(printer, r, commits)
				}
				for _, c := range commits {
					printer.Println(dag.Hex(c.ID))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&search, "search", false, "Rank by matching words instead of exact message")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results with --search")

	return cmd
}
