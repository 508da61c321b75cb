// ABOUTME: MCP server setup for the mood tracker.
// ABOUTME: Wraps the MCP server around the insights service.
package mcp

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mood/internal/insights"
	"github.com/harperreed/mood/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with access to the insights service.
type Server struct {
	mcpServer *mcp.Server
	svc       *insights.Service
	logger    *log.Logger
}

// NewServer creates a new MCP server over svc.
func NewServer(svc *insights.Service, logger *log.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mood",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		logger:    logging.Component(logger, "mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
