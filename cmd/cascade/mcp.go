package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxygn-cloud-ai/cascade"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/file"
	mcpAdapter "github.com/oxygn-cloud-ai/cascade/pkg/adapters/mcp"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/stub"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the cascade engine as an MCP Server.
This lets AI agents (like Claude Desktop) start and steer cascade runs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		nodeDelay, _ := cmd.Flags().GetDuration("node-delay")

		logger := newLogger(cmd)

		provider, _, err := file.Load(treePath)
		if err != nil {
			return err
		}

		engine, err := cascade.New(provider, stub.New(stub.WithDelay(nodeDelay)),
			cascade.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		srv := mcpAdapter.NewServer(engine)

		switch transport {
		case "stdio":
			// Keep logs off Stdout so they don't corrupt JSON-RPC.
			log.SetOutput(os.Stderr)
			logger.Info("Starting Cascade MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				return err
			}
		case "sse":
			logger.Info("Starting Cascade MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Duration("node-delay", 300*time.Millisecond, "Simulated generation latency per node")
}
