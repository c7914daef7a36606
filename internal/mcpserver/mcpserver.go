// Package mcpserver exposes the agent, and optionally its tools, as an MCP server.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/react-go/internal/agent"
	"github.com/comigor/react-go/internal/logger"
	"github.com/comigor/react-go/pkg/tools"
)

const (
	ServerName = "react-go"
	QueryTool  = "react_query"
)

// Asker answers one query.
type Asker interface {
	Process(ctx context.Context, query string) (agent.Result, error)
}

// New builds the MCP server with the react_query tool plus every tool in extra,
// each taking a single "query" string.
func New(asker Asker, version string, extra ...tools.Tool) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(QueryTool,
		mcp.WithDescription("Answer a question with a ReAct agent that can search the web."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The question to answer")),
	), queryHandler(asker))

	for _, t := range extra {
		s.AddTool(mcp.NewTool(t.Name(),
			mcp.WithDescription(t.Description()),
			mcp.WithString("query", mcp.Required(), mcp.Description("Tool input")),
		), toolHandler(t))
		logger.L.Info("Registered tool for MCP", "tool", t.Name())
	}
	return s
}

// ServeStdio blocks serving s over stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func queryHandler(asker Asker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := asker.Process(ctx, query)
		if err != nil {
			logger.L.Error("process error", "err", err, "query", query)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(res.Answer), nil
	}
}

func toolHandler(t tools.Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := t.Run(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
