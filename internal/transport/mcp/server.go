package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// Tools are registered in tools.go, prompts in prompts.go.
type Server struct {
	mcpSrv  *mcpserver.MCPServer
	httpSrv *mcpserver.StreamableHTTPServer
}

// New creates the MCP transport server, exposing every registered process as
// a native prompt and the runner as tools.
func New(
	registry *process.Registry,
	runSvc *runner.Service,
	promptSvc *promptsvc.Service,
	sessionSvc *sessionsvc.Service,
) *Server {
	mcpSrv := mcpserver.NewMCPServer(
		"stlc-manager",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
	)

	RegisterTools(mcpSrv, registry, runSvc, sessionSvc)
	RegisterPrompts(mcpSrv, registry, promptSvc)

	return &Server{
		mcpSrv:  mcpSrv,
		httpSrv: mcpserver.NewStreamableHTTPServer(mcpSrv),
	}
}

// Handler returns an http.Handler that serves the MCP streamable HTTP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

// MCPServer exposes the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpSrv
}
