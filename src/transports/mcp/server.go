// Package mcp serves the documentation tools over the Model Context
// Protocol, on stdio or on streamable HTTP.
package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	mcpapi "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/c67-mcp/go-c67/src/tools"
	c7http "github.com/c67-mcp/go-c67/src/transports/http"
)

const (
	// Name identifies the server to MCP clients.
	Name = "c67-mcp"

	Instructions = "Use this server to retrieve up-to-date documentation and code examples for any library."
)

// Version is reported during initialization. It is overwritten at startup
// from build information.
var Version = "dev"

// DocsClient is the upstream the tools are served from.
type DocsClient interface {
	Search(ctx context.Context, query string) (c7http.SearchOutcome, error)
	FetchDocumentation(ctx context.Context, doc c7http.DocumentationRequest) (string, bool, error)
}

// Server dispatches tool calls to a DocsClient.
type Server struct {
	docs    DocsClient
	logger  zerolog.Logger
	version string
	mcp     *mcpserver.MCPServer
}

type Option func(*Server)

// WithLogger sets the logger tool calls are traced to.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion overrides the version reported to clients.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// New registers both tools on a fresh MCP server.
func New(docs DocsClient, opts ...Option) *Server {
	s := &Server{
		docs:    docs,
		logger:  zerolog.Nop(),
		version: Version,
	}
	for _, opt := range opts {
		opt(s)
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddOnRequestInitialization(validateToolCall)

	s.mcp = mcpserver.NewMCPServer(Name, s.version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithInstructions(Instructions),
		mcpserver.WithHooks(hooks),
		mcpserver.WithRecovery(),
		mcpserver.WithToolHandlerMiddleware(s.traceCalls),
	)

	handlers := map[string]mcpserver.ToolHandlerFunc{
		tools.ResolveLibraryIDName: s.resolveLibraryID,
		tools.GetLibraryDocsName:   s.getLibraryDocs,
	}
	for _, tool := range tools.All() {
		s.mcp.AddTool(tool, handlers[tool.Name])
	}
	return s
}

// MCPServer exposes the underlying protocol server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// traceCalls tags every call with a correlation id and logs its outcome.
func (s *Server) traceCalls(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpapi.CallToolRequest) (*mcpapi.CallToolResult, error) {
		logger := s.logger.With().
			Str("call_id", uuid.NewString()).
			Str("tool", req.Params.Name).
			Logger()
		ctx = logger.WithContext(ctx)

		start := time.Now()
		res, err := next(ctx, req)
		if err != nil {
			logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("tool call rejected")
			return res, err
		}
		logger.Debug().Dur("elapsed", time.Since(start)).Msg("tool call finished")
		return res, nil
	}
}
