package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, the staging area and working-tree changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 0, func(r *repo.Repository) error {
				st, err := r.Status()
				if err != nil {
					return err
				}
				if printer.IsJSON() {
					return printer.WriteJSON(st)
				}
				printer.Print("%s", repo.FormatStatus(st))
				return nil
			})
		},
	}
}
