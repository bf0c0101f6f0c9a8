package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing sim-cli tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes sim-cli
commands as tools, so AI agents can drive the simulator without shell
overhead. Every gesture tool still runs the full capture-act-capture
cycle and returns the same report the CLI prints.

Tool calls that touch a device are serialized: idb gets confused by
concurrent injections, so one action finishes before the next starts.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  sim-cli serve
  sim-cli serve --udid booted
  sim-cli serve --transport streamable-http --port 8080
  sim-cli serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "snapshot cache TTL in milliseconds for read tools (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	defaultUDID, _ := rootCmd.PersistentFlags().GetString("udid")

	mcpCfg := MCPConfig{
		Transport:   transport,
		Port:        port,
		CacheTTL:    time.Duration(cacheTTLMs) * time.Millisecond,
		DefaultUDID: defaultUDID,
	}

	srv, err := newMCPServer(mcpCfg)
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	return srv.serve(mcpCfg)
}
