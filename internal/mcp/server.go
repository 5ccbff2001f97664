// ABOUTME: MCP server setup for the liftlog training engine.
// ABOUTME: Wraps the MCP server around an engine and a default user.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/liftlog/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer   *mcp.Server
	engine      *engine.Engine
	defaultUser string
	now         func() time.Time
}

// NewServer creates a new MCP server over eng. Tools that take an optional
// user_id fall back to defaultUser.
func NewServer(eng *engine.Engine, defaultUser string) (*Server, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer:   mcpServer,
		engine:      eng,
		defaultUser: defaultUser,
		now:         time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) user(id string) string {
	if id != "" {
		return id
	}
	return s.defaultUser
}
