package main

import (
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/repo"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the first-parent history of the current branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 0, func(r *repo.Repository) error {
				commits, err := r.Log()
				if err != nil {
					return err
				}
				return printCommits(printer, r, commits)
			})
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			return withRepo(cmd, args, 0, func(r *repo.Repository) error {
				commits, err := r.GlobalLog()
				if err != nil {
					return err
				}
				return printCommits(printer, r, commits)
			})
		},
	}
}
