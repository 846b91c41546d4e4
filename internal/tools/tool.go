package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/pkg/errors"
)

// Tool is a named operation exposed over MCP.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string
	// Description returns a short human-readable summary.
	Description() string
	// Definition returns the advertised input and output contract.
	Definition() mcp.Tool
	// Execute performs the tool's action for one call.
	Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Middleware decorates a tool without changing its contract.
type Middleware interface {
	Wrap(t Tool) Tool
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(t Tool) Tool

// Wrap calls f(t).
func (f MiddlewareFunc) Wrap(t Tool) Tool { return f(t) }

// FunctionTool is a simple Tool implementation backed by a handler function.
type FunctionTool struct {
	definition mcp.Tool
	handler    HandlerFunc
}

// New creates a new function-backed Tool.
func New(definition mcp.Tool, handler HandlerFunc) Tool {
	return &FunctionTool{
		definition: definition,
		handler:    handler,
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.definition.Name }

// Description returns a human description of the tool.
func (t *FunctionTool) Description() string { return t.definition.Description }

// Definition returns the MCP tool definition.
func (t *FunctionTool) Definition() mcp.Tool { return t.definition }

// Execute runs the underlying handler.
func (t *FunctionTool) Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.handler == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "tool %s handler is not defined", t.definition.Name)
	}

	return t.handler(ctx, req)
}
