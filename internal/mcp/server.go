// Package mcp exposes the code bank generator over the Model Context
// Protocol, on stdio or server-sent events.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tyrchen/codebank/internal/bank"
)

// Server manages the MCP server lifecycle.
type Server struct {
	bank *bank.Bank
	mcp  *server.MCPServer
}

// NewServer creates the MCP server and registers the gen and gen_file
// tools. Grammar setup happens here so a broken binding fails at startup,
// not on the first tool call.
func NewServer(version string) (*Server, error) {
	b, err := bank.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize code bank: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"codebank-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	AddGenTool(mcpServer, b)
	AddGenFileTool(mcpServer, b)

	return &Server{bank: b, mcp: mcpServer}, nil
}

// Serve blocks until shutdown. transport is "stdio" or "sse"; addr is only
// used by the sse transport.
func (s *Server) Serve(ctx context.Context, transport, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	switch transport {
	case "stdio":
		go func() {
			log.Printf("Starting MCP server on stdio...")
			if err := server.ServeStdio(s.mcp); err != nil {
				errCh <- fmt.Errorf("MCP server error: %w", err)
			}
		}()
	case "sse":
		sseServer := server.NewSSEServer(s.mcp)
		go func() {
			log.Printf("Starting MCP server on %s (sse)...", addr)
			if err := sseServer.Start(addr); err != nil {
				errCh <- fmt.Errorf("MCP server error: %w", err)
			}
		}()
		defer func() {
			if err := sseServer.Shutdown(context.Background()); err != nil {
				log.Printf("SSE shutdown: %v", err)
			}
		}()
	default:
		return fmt.Errorf("unknown transport %q (choose stdio or sse)", transport)
	}

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
