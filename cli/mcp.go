// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server on stdio, backed by the REST API
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/johanaerens/assetmanagement/handlers"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP tools for assets, employees and asset histories on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrls, err := a.controllers()
			if err != nil {
				return err
			}

			a.log.WithField("api", a.cfg.API.BaseURL).Info("Starting MCP server")
			server := handlers.NewServer(ctrls, a.version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
