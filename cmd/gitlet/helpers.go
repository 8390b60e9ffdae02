package main

import (
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/errs"
	"github.com/systemshift/gitlet/internal/output"
	"github.com/systemshift/gitlet/internal/repo"
)

var errIncorrectOperands = errs.New(errs.Usage, "Incorrect operands.")

// flagString reads a persistent flag from the command hierarchy.
func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

func isJSONMode(cmd *cobra.Command) bool {
	return flagString(cmd, "json") == "true"
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	w := cmd.OutOrStdout()
	isTTY := output.ResolveColorMode(flagString(cmd, "color"), output.IsTTY(w))
	return output.NewPrinter(w, isJSONMode(cmd), isTTY)
}

// workDir is the directory given with -C, or the current one.
func workDir(cmd *cobra.Command) string {
	if dir := flagString(cmd, "dir"); dir != "" {
		return dir
	}
	return "."
}

// newLogger returns the lifecycle logger used by long-running commands.
func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "gitlet: ", log.LstdFlags)
}

// repoOptions traces repository operations to stderr with --verbose.
func repoOptions(cmd *cobra.Command) repo.Options {
	var opts repo.Options
	if flagString(cmd, "verbose") == "true" {
		opts.Logger = newLogger(cmd.ErrOrStderr())
	}
	return opts
}

func openRepo(cmd *cobra.Command) (*repo.Repository, error) {
	return repo.Open(workDir(cmd), repoOptions(cmd))
}

// report finishes a command. Refused operations print their one-line
// message and exit cleanly; anything else is a system failure for main.
func report(printer *output.Printer, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.Fatal {
		printer.Fail(err)
		return nil
	}
	return output.NewSystemErrorWithCause("fatal", err)
}

// withRepo checks the operand count, opens the repository and runs fn.
func withRepo(cmd *cobra.Command, args []string, n int, fn func(*repo.Repository) error) error {
	printer := newPrinter(cmd)
	if len(args) != n {
		return report(printer, errIncorrectOperands)
	}
	r, err := openRepo(cmd)
	if err != nil {
		return report(printer, err)
	}
	return report(printer, fn(r))
}

// commitView is the JSON shape of a commit.
type commitView struct {
	ID      string            `json:"id"`
	Message string            `json:"message"`
	Time    string            `json:"time"`
	Parents []string          `json:"parents"`
	Files   map[string]string `json:"files,omitempty"`
}

func viewCommit(c *dag.Commit) commitView {
	parents := make([]string, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = dag.Hex(p)
	}
	return commitView{
		ID:      dag.Hex(c.ID),
		Message: c.Message,
		Time:    c.Time.Format(time.RFC3339),
		Parents: parents,
	}
}

// printCommits writes commits as log entries, or as a JSON array.
func printCommits(printer *output.Printer, r *repo.Repository, commits []*dag.Commit) error {
	if printer.IsJSON() {
		views := make([]commitView, len(commits))
		for i, c := range commits {
			views[i] = viewCommit(c)
		}
		return printer.WriteJSON(views)
	}
	for _, c := range commits {
		printer.Print("%s", r.FormatLog(c))
	}
	return nil
}
