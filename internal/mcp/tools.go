package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/errs"
	"github.com/systemshift/gitlet/internal/repo"
)

// --- Shared types ---

// CommitSummary is a simplified commit for output.
type CommitSummary struct {
	ID      string   `json:"id"                jsonschema:"full commit id (hex SHA-256)"`
	Short   string   `json:"short"             jsonschema:"short id (7 chars)"`
	Message string   `json:"message"           jsonschema:"commit message"`
	Time    string   `json:"time"              jsonschema:"commit timestamp (RFC 3339)"`
	Parents []string `json:"parents,omitempty" jsonschema:"parent commit ids"`
}

func summarize(c *dag.Commit) CommitSummary {
	parents := make([]string, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = dag.Hex(p)
	}
	return CommitSummary{
		ID:      dag.Hex(c.ID),
		Short:   dag.Short(c.ID, 7),
		Message: c.Message,
		Time:    c.Time.Format(time.RFC3339),
		Parents: parents,
	}
}

func summarizeAll(commits []*dag.Commit) []CommitSummary {
	out := make([]CommitSummary, 0, len(commits))
	for _, c := range commits {
		out = append(out, summarize(c))
	}
	return out
}

// toolError turns refused operations into a plain message for the agent.
func toolError(err error) error {
	if errs.KindOf(err) != errs.Fatal {
		return errors.New(errs.Message(err))
	}
	return err
}

// Opener returns a repository reflecting what is on disk now. Tools open
// per call so staging and commits made from the CLI are always visible.
type Opener func() (*repo.Repository, error)

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

func handleStatus(open Opener) mcp.ToolHandlerFor[StatusInput, repo.Status] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, repo.Status, error) {
		r, err := open()
		if err != nil {
			return nil, repo.Status{}, toolError(err)
		}
		st, err := r.Status()
		if err != nil {
			return nil, repo.Status{}, toolError(err)
		}
		return nil, *st, nil
	}
}

// --- Log tools ---

// LogInput is the input for the log tool.
type LogInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"return at most this many commits (default all)"`
}

// LogOutput lists commits.
type LogOutput struct {
	Count   int             `json:"count"   jsonschema:"number of commits returned"`
	Commits []CommitSummary `json:"commits" jsonschema:"commits, newest first for log"`
}

func handleLog(open Opener) mcp.ToolHandlerFor[LogInput, LogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LogInput) (*mcp.CallToolResult, LogOutput, error) {
		r, err := open()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		commits, err := r.Log()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		if input.Limit > 0 && len(commits) > input.Limit {
			commits = commits[:input.Limit]
		}
		return nil, LogOutput{Count: len(commits), Commits: summarizeAll(commits)}, nil
	}
}

// GlobalLogInput is the input for the global_log tool (no parameters needed).
type GlobalLogInput struct{}

func handleGlobalLog(open Opener) mcp.ToolHandlerFor[GlobalLogInput, LogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ GlobalLogInput) (*mcp.CallToolResult, LogOutput, error) {
		r, err := open()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		commits, err := r.GlobalLog()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		return nil, LogOutput{Count: len(commits), Commits: summarizeAll(commits)}, nil
	}
}

// --- Find and search tools ---

// FindInput is the input for the find tool.
type FindInput struct {
	Message string `json:"message" jsonschema:"exact commit message to match"`
}

func handleFind(open Opener) mcp.ToolHandlerFor[FindInput, LogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input FindInput) (*mcp.CallToolResult, LogOutput, error) {
		r, err := open()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		commits, err := r.Find(input.Message)
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		return nil, LogOutput{Count: len(commits), Commits: summarizeAll(commits)}, nil
	}
}

// SearchInput is the input for the search tool.
type SearchInput struct {
	Query string `json:"query"           jsonschema:"words to look for in commit messages"`
	Limit int    `json:"limit,omitempty" jsonschema:"return at most this many commits (default 20)"`
}

func handleSearch(open Opener) mcp.ToolHandlerFor[SearchInput, LogOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, LogOutput, error) {
		if input.Query == "" {
			return nil, LogOutput{}, errors.New("query is required")
		}
		r, err := open()
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 20
		}
		commits, err := r.Search(input.Query, limit)
		if err != nil {
			return nil, LogOutput{}, toolError(err)
		}
		return nil, LogOutput{Count: len(commits), Commits: summarizeAll(commits)}, nil
	}
}

// --- Branches tool ---

// BranchesInput is the input for the branches tool (no parameters needed).
type BranchesInput struct{}

// BranchRef is one branch and the commit it points at.
type BranchRef struct {
	Name   string `json:"name"   jsonschema:"branch name"`
	Commit string `json:"commit" jsonschema:"commit id the branch points at"`
}

// BranchesOutput is the output for the branches tool.
type BranchesOutput struct {
	Current  string      `json:"current"  jsonschema:"active branch"`
	Branches []BranchRef `json:"branches" jsonschema:"all branches, sorted by name"`
}

func handleBranches(open Opener) mcp.ToolHandlerFor[BranchesInput, BranchesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ BranchesInput) (*mcp.CallToolResult, BranchesOutput, error) {
		r, err := open()
		if err != nil {
			return nil, BranchesOutput{}, toolError(err)
		}
		current, names, err := r.Branches()
		if err != nil {
			return nil, BranchesOutput{}, toolError(err)
		}
		out := BranchesOutput{Current: current, Branches: make([]BranchRef, 0, len(names))}
		for _, name := range names {
			id, err := r.Refs.Get(name)
			if err != nil {
				return nil, BranchesOutput{}, toolError(err)
			}
			out.Branches = append(out.Branches, BranchRef{Name: name, Commit: dag.Hex(id)})
		}
		return nil, out, nil
	}
}

// --- Show tool ---

// ShowInput is the input for the show tool.
type ShowInput struct {
	ID string `json:"id" jsonschema:"commit id or unique prefix"`
}

// ShowOutput is one commit with its snapshot.
type ShowOutput struct {
	Commit CommitSummary     `json:"commit" jsonschema:"the commit"`
	Files  map[string]string `json:"files"  jsonschema:"tracked filename to blob id"`
}

func handleShow(open Opener) mcp.ToolHandlerFor[ShowInput, ShowOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ShowInput) (*mcp.CallToolResult, ShowOutput, error) {
		r, err := open()
		if err != nil {
			return nil, ShowOutput{}, toolError(err)
		}
		c, err := r.Show(input.ID)
		if err != nil {
			return nil, ShowOutput{}, toolError(err)
		}
		files := make(map[string]string, len(c.Tracked))
		for name, blob := range c.Tracked {
			files[name] = dag.Hex(blob)
		}
		return nil, ShowOutput{Commit: summarize(c), Files: files}, nil
	}
}
