package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/mandelbrot-mcp/internal/config"
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is reported to clients during initialize.
const ServerName = "mandelbrot-mcp"

// Server handles MCP protocol communication
type Server struct {
	cfg     config.Config
	version string
}

// New creates a new MCP server instance
func New(cfg config.Config, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{
		cfg:     cfg,
		version: version,
	}
}

// MCPServer returns an SDK server exposing the tools from GetToolDefinitions.
// Tool arguments are validated against the input schemas, and schema
// defaults filled in, before they reach the handlers.
func (s *Server) MCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: s.version}, nil)
	for _, tool := range GetToolDefinitions() {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, s.toolHandler(tool.Name))
	}
	return srv
}

// toolHandler adapts executeTool to the SDK. Errors wrapping
// fractal.ErrInvalidParameter become JSON-RPC -32602 errors; other failures
// are reported as tool results with isError set.
func (s *Server) toolHandler(name string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, nil, fmt.Errorf("encode arguments: %w", err)
		}

		start := time.Now()
		result, err := s.executeTool(name, raw)
		if s.cfg.Debug() {
			log.Printf("tool %s finished in %v (err=%v)", name, time.Since(start), err)
		}
		if err != nil {
			if errors.Is(err, fractal.ErrInvalidParameter) {
				return nil, nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
			}
			return nil, nil, err
		}
		return nil, result, nil
	}
}

// Run serves the tools on stdin and stdout until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Serve serves the tools on the single connection t provides. It returns nil
// when the client hangs up or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, t mcp.Transport) error {
	err := s.MCPServer().Run(ctx, t)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
