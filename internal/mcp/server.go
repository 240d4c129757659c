package mcp

import (
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/manaworks/jobportal/internal/service"
)

// MCPServer wraps the mcp-go server with the job portal's read-only tools
// and resources so AI agents can browse and search postings. Visibility
// rules match the HTTP API; tool calls are not recorded as visits.
type MCPServer struct {
	jobs   *service.JobService
	visits *service.VisitLedger
	logger *slog.Logger
	server *server.MCPServer
}

// NewMCPServer creates an MCPServer with every tool and resource registered.
func NewMCPServer(jobs *service.JobService, visits *service.VisitLedger, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MCPServer{
		jobs:   jobs,
		visits: visits,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"Job Portal",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio serves MCP over stdin/stdout for clients that launch the
// binary as a subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts a standalone Streamable HTTP listener on addr.
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

// Handler returns a Streamable HTTP handler for mounting on an existing
// router.
func (s *MCPServer) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.server, server.WithStateLess(true))
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
