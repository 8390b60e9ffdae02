package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	gitletmcp "github.com/systemshift/gitlet/internal/mcp"
	"github.com/systemshift/gitlet/internal/output"
	"github.com/systemshift/gitlet/internal/repo"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server over stdio",
		Long: `Serve read-only repository queries over the Model Context Protocol.

Tools: status, log, global_log, find, search, branches, show.
The server speaks JSON-RPC on stdin/stdout; diagnostics go to stderr.`,
		Example: `  # MCP client config
  {"command": "gitlet", "args": ["serve", "-C", "/path/to/project"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			if len(args) != 0 {
				return report(printer, errIncorrectOperands)
			}
			if _, err := openRepo(cmd); err != nil {
				return report(printer, err)
			}
			open := func() (*repo.Repository, error) { return openRepo(cmd) }
			server := gitletmcp.NewServer(buildVersion(), open)
			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				return output.NewSystemErrorWithCause("mcp server", err)
			}
			return nil
		},
	}
}
