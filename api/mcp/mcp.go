// Package mcp provides an MCP (Model Context Protocol) server exposing lingo
// translation as tools.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/lingo/api/worker"
	"github.com/papercomputeco/lingo/pkg/translate"
	"github.com/papercomputeco/lingo/pkg/utils"
)

type Config struct {
	// Translators yields the translator used by the translate tool.
	Translators *translate.Handle

	// Pool records tool translations when non-nil.
	Pool *worker.Pool

	// Noop for empty MCP server
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the translate and languages tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lingo",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// return the empty MCP server with no tools configured
		// if the noop flag is set (i.e., MCP capabilities are disabled)
		s.mcpServer = mcpServer
		return s, nil
	}

	if c.Translators == nil || c.Translators.Load() == nil {
		return nil, errors.New("translator is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        translateToolName,
		Description: translateDescription,
	}, s.handleTranslate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        languagesToolName,
		Description: languagesDescription,
	}, s.handleLanguages)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
