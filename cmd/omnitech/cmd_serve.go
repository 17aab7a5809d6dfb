package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"omnitech/internal/logging"
	mcpserver "omnitech/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveFlags struct {
	httpAddr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server",
	Long: `Starts an MCP server over stdin/stdout. An MCP client launches this
process and calls the support tools directly.

The server monitors for parent process death. When the client disconnects
or restarts, the server self-terminates to prevent zombie processes.

With --http the server listens on the given address instead and serves the
streamable HTTP transport under /mcp.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.httpAddr, "http", "", "serve MCP over HTTP on this address instead of stdio (e.g. :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	idx, err := openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	srv := mcpserver.NewServer(reg, newRetriever(idx, reg), version)
	log := logging.New("mcp")

	if serveFlags.httpAddr != "" {
		handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
			return srv.MCPServer
		}, nil)
		mux := http.NewServeMux()
		mux.Handle("/mcp", handler)
		mux.Handle("/mcp/", handler)
		log.Info("starting MCP server over HTTP", "addr", serveFlags.httpAddr)
		return http.ListenAndServe(serveFlags.httpAddr, mux)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	log.Info("starting MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
