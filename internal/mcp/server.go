// Package mcp provides a Model Context Protocol server for gitlet.
// It exposes read-only repository queries as MCP tools.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all gitlet tools registered. Every
// tool call reopens the repository through open.
func NewServer(version string, open Opener) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gitlet",
		Version: version,
	}, nil)
	registerTools(server, open)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all gitlet tools to the server.
func registerTools(server *mcp.Server, open Opener) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show branches, staged and removed files, unstaged modifications and untracked files.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log",
		Description: "List the first-parent history of the current branch, newest first.",
		Annotations: readOnlyAnnotations(),
	}, handleLog(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "global_log",
		Description: "List every commit ever made, in no particular order.",
		Annotations: readOnlyAnnotations(),
	}, handleGlobalLog(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find",
		Description: "List the commits whose message is exactly the given text.",
		Annotations: readOnlyAnnotations(),
	}, handleFind(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Rank commits by how many of the query's words appear in their message.",
		Annotations: readOnlyAnnotations(),
	}, handleSearch(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "branches",
		Description: "List branch names, the current branch and the commit each points at.",
		Annotations: readOnlyAnnotations(),
	}, handleBranches(open))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show",
		Description: "Show one commit by full id or unique prefix, including its tracked files.",
		Annotations: readOnlyAnnotations(),
	}, handleShow(open))
}
