package cli

import (
	"github.com/spf13/cobra"

	"github.com/tyrchen/codebank/internal/mcp"
)

var (
	transportFlag string
	addrFlag      string
)

// mcpCmd starts the tool server that wraps the generator.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the code bank tools",
	Long: `Start the Model Context Protocol (MCP) server that lets coding
assistants generate code banks on demand.

The server exposes two tools:
  gen       generate a code bank and return the markdown
  gen_file  generate a code bank and write it to a file

Transports:
  stdio  standard MCP transport (default)
  sse    server-sent events over HTTP

Example:
  codebank mcp
  codebank mcp --transport sse --addr :8632`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(Version)
		if err != nil {
			return err
		}
		return server.Serve(cmd.Context(), transportFlag, addrFlag)
	},
}

func init() {
	mcpCmd.Flags().StringVarP(&transportFlag, "transport", "t", "stdio", "transport to serve on (stdio|sse)")
	mcpCmd.Flags().StringVarP(&addrFlag, "addr", "a", ":8632", "listen address for the sse transport")
	rootCmd.AddCommand(mcpCmd)
}
