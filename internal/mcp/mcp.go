// Package mcp implements the Model Context Protocol server for
// GroundCheck. It exposes the verification pipeline and the persistent
// memory store over stdio JSON-RPC, so MCP-compatible agents can ground
// their drafts before showing them to a user.
package mcp

import (
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/groundcheck/internal/storage"
	"github.com/ashita-ai/groundcheck/internal/telemetry"
	"github.com/ashita-ai/groundcheck/internal/verify"
)

// serverInstructions is sent to every MCP client during the initialize
// handshake, so every connected agent knows the remember/verify workflow
// without per-project configuration.
const serverInstructions = `You have access to GroundCheck, a hallucination detector backed by a
persistent memory store.

WORKFLOW — follow this for every user-facing factual response:

1. AS YOU LEARN: call groundcheck_remember with each stable fact you
   establish ("User works at Microsoft"), with a trust score reflecting
   how sure the source is.

2. BEFORE RESPONDING: call groundcheck_verify with your draft. The
   report tells you which claims your memories support, which are
   hallucinated, and offers a corrected draft in strict mode.

3. If requires_disclosure is true, tell the user the sources conflict.

TOOLS:
- groundcheck_verify: cross-check a draft against stored memories
- groundcheck_remember: store a trust-scored memory
- groundcheck_recall: list stored memories in a namespace
- groundcheck_forget: delete a memory or a whole namespace

Namespaces partition memories by project or conversation; each verify
call only sees its own namespace.`

// Server wraps the MCP server with the store and verification engine.
type Server struct {
	mcpServer        *mcpserver.MCPServer
	store            *storage.Store
	engine           *verify.Engine
	metrics          *telemetry.VerifyMetrics
	logger           *slog.Logger
	defaultNamespace string
}

// New creates and configures a new MCP server with all tools registered.
// metrics may be nil when telemetry is disabled.
func New(store *storage.Store, engine *verify.Engine, metrics *telemetry.VerifyMetrics, logger *slog.Logger, defaultNamespace, version string) *Server {
	s := &Server{
		store:            store,
		engine:           engine,
		metrics:          metrics,
		logger:           logger,
		defaultNamespace: defaultNamespace,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"groundcheck",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions(serverInstructions),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving the stdio transport until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func textResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
	}
}
