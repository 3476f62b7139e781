package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Expose search, recommend, show and analyze as MCP tools on stdin/stdout.

Example client configuration:
  {
    "mcpServers": {
      "issuefinder": {"command": "issuefinder", "args": ["mcp"]}
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := newSessionDeps(ctx)
	if err != nil {
		return err
	}
	return mcp.NewServer(deps.Source, deps.Engine, deps.Generator, version).ServeStdio(ctx)
}
