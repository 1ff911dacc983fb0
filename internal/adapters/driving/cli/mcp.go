package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexwatch/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the corpus to MCP clients",
	Long: `Serve the search, ask and registry surfaces over the Model Context
Protocol. Without --port the server speaks stdio for direct client
integration; with --port it serves streamable HTTP.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVar(&mcpPort, "port", 0, "serve over HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Query:  queryService,
		Source: sourceService,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if mcpPort > 0 {
		cmd.Printf("MCP server listening on :%d\n", mcpPort)
		return server.RunHTTP(cmd.Context(), fmt.Sprintf(":%d", mcpPort))
	}
	return server.Run(cmd.Context())
}
