package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Register adds every catalog tool to s and returns the number registered.
func Register(s *server.MCPServer, d *Dispatcher) int {
	defs := Definitions()
	for _, def := range defs {
		s.AddTool(BuildMCPTool(def), d.Handler(def.ID))
	}
	return len(defs)
}

// Handler returns the MCP handler bound to one tool.
func (d *Dispatcher) Handler(id ID) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Invoke(ctx, id, r.GetArguments())
	}
}

// BuildMCPTool converts a Definition into an mcp.Tool with its input schema.
func BuildMCPTool(def Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(def.Name, opts...)
}

// buildParamOption maps a Param to the matching mcp-go tool option.
func buildParamOption(p Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case TypeBoolean:
		if b, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case TypeInteger:
		// JSON Schema "number"; DecodeInput rejects fractional values.
		return mcp.WithNumber(p.Name, opts...)
	default:
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, opts...)
	}
}
