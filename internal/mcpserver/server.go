// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the web search tool and the session file store
// to agents over the Model Context Protocol (stdio transport).
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/deep-search/internal/files"
	"github.com/pdiddy/deep-search/internal/research"
	"github.com/pdiddy/deep-search/pkg/types"
)

const serverName = "deep-search"

// Server binds one session of the file store to an MCP server.
type Server struct {
	tool    *research.Tool
	store   *files.Store
	session string
	logger  *slog.Logger
	mcp     *server.MCPServer
}

// New registers the web_search, read_file, and ls tools.
func New(tool *research.Tool, store *files.Store, session, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if session == "" {
		session = files.DefaultSession
	}
	s := &Server{
		tool:    tool,
		store:   store,
		session: session,
		logger:  logger,
		mcp:     server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool(research.ToolName,
		mcp.WithDescription(research.ToolDescription),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query to execute")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results to return"), mcp.DefaultNumber(1), mcp.Min(1)),
		mcp.WithString("topic", mcp.Description("Topic filter"), mcp.Enum("general", "news", "finance"), mcp.DefaultString("general")),
		mcp.WithString("tool_call_id", mcp.Description("Caller's tool call id; generated when omitted")),
	), s.handleWebSearch)

	s.mcp.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a saved file with line numbers. Use offset and limit to page through long files."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Name of the file to read")),
		mcp.WithNumber("offset", mcp.Description("Line number to start reading from (0-based)"), mcp.DefaultNumber(0)),
		mcp.WithNumber("limit", mcp.Description("Maximum number of lines to read"), mcp.DefaultNumber(files.DefaultLineLimit)),
	), s.handleReadFile)

	s.mcp.AddTool(mcp.NewTool("ls",
		mcp.WithDescription("List the files saved in this session."),
	), s.handleLs)

	return s
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(io.Discard, "", 0))
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving MCP: %w", err)
	}
	return nil
}

func (s *Server) handleWebSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := research.Args{
		Query:      req.GetString("query", ""),
		MaxResults: req.GetInt("max_results", 1),
		Topic:      types.Topic(req.GetString("topic", string(types.TopicGeneral))),
	}
	callID := req.GetString("tool_call_id", "")
	if callID == "" {
		callID = uuid.NewString()
	}

	current, err := s.store.Load(ctx, s.session)
	if err != nil {
		return nil, err
	}

	upd, err := s.tool.Run(ctx, args, types.ToolContext{Files: current, ToolCallID: callID})
	if err != nil {
		s.logger.Warn("web_search failed", "query", args.Query, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Apply(ctx, s.session, upd); err != nil {
		return nil, fmt.Errorf("saving search results: %w", err)
	}
	return mcp.NewToolResultText(upd.Message()), nil
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.store.Read(ctx, s.session, name)
	if errors.Is(err, files.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: File '%s' not found", name)), nil
	}
	if err != nil {
		return nil, err
	}

	text, err := files.FormatLines(content, req.GetInt("offset", 0), req.GetInt("limit", files.DefaultLineLimit))
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleLs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.store.List(ctx, s.session)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = fi.Name
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}
