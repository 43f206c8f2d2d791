package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the converter as tools",
	Long: `Start a Model Context Protocol (MCP) server with the tools
convert_recording, convert_step and supported_keys.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Logs are written to stderr so they never mix with the stdio transport.

Examples:
  owl-recorder serve
  owl-recorder serve --transport streamable-http --port 8080
  owl-recorder serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Duration("cache-ttl", 30*time.Second, "Conversion result cache TTL (0 disables caching)")

}

func runServe(cmd *cobra.Command, args []string) error {
	return server.NewServer(*cfg, observability.GetLogger()).Serve()
}
