// Package main provides the entry point for the gitlet CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/errs"
	"github.com/systemshift/gitlet/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errNoCommand      = errs.New(errs.Usage, "Please enter a command.")
	errUnknownCommand = errs.New(errs.Usage, "No command with that name exists.")
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the gitlet CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlet",
		Short: "A small content-addressed version-control system",
		Long: `Gitlet - a small version-control system in the spirit of Git.

Gitlet keeps snapshots of a flat working directory in .gitlet/:
  - Files are stored once per distinct content, keyed by SHA-256
  - Commits record a message, a timestamp, their parents and a snapshot
  - Branches are named pointers; merges are three-way against the split point

Run gitlet mount to browse history as files, or gitlet serve to expose
read-only queries to MCP clients.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			if len(args) == 0 {
				return report(printer, errNoCommand)
			}
			return report(printer, errUnknownCommand)
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Colorize output: auto, always or never")
	cmd.PersistentFlags().StringP("dir", "C", ".", "Run as if gitlet was started in this directory")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Trace repository operations on stderr")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "history", Title: "History Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "branch", Title: "Branch Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "tools", Title: "Tool Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newInitCmd(), "core")
	addGroupedCommand(cmd, newAddCmd(), "core")
	addGroupedCommand(cmd, newCommitCmd(), "core")
	addGroupedCommand(cmd, newRmCmd(), "core")
	addGroupedCommand(cmd, newStatusCmd(), "core")

	addGroupedCommand(cmd, newLogCmd(), "history")
	addGroupedCommand(cmd, newGlobalLogCmd(), "history")
	addGroupedCommand(cmd, newFindCmd(), "history")
	addGroupedCommand(cmd, newShowCmd(), "history")

	addGroupedCommand(cmd, newCheckoutCmd(), "branch")
	addGroupedCommand(cmd, newBranchCmd(), "branch")
	addGroupedCommand(cmd, newRmBranchCmd(), "branch")
	addGroupedCommand(cmd, newResetCmd(), "branch")
	addGroupedCommand(cmd, newMergeCmd(), "branch")

	addGroupedCommand(cmd, newMountCmd(), "tools")
	addGroupedCommand(cmd, newServeCmd(), "tools")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
