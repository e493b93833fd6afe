// Package mcptools exposes the character table to MCP clients over stdio.
package mcptools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/internal/roster"
	"github.com/HerbHall/roster/internal/table"
	"github.com/HerbHall/roster/internal/version"
	"github.com/HerbHall/roster/pkg/models"
)

const serverName = "roster"

// Querier is the subset of roster.Service the tools call.
type Querier interface {
	Query(ctx context.Context, st query.State, filter string) (table.View, error)
	Get(ctx context.Context, id int) (models.Character, error)
	Suggest(ctx context.Context, q string, limit int) ([]roster.Suggestion, error)
}

// Server is an MCP server with the roster tools registered.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// New creates a Server backed by svc.
func New(svc Querier, logger *zap.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version.Version}, nil)
	mcp.AddTool(mcpServer, QueryCharactersTool(), QueryCharactersHandler(svc))
	mcp.AddTool(mcpServer, GetCharacterTool(), GetCharacterHandler(svc))
	mcp.AddTool(mcpServer, SuggestCharactersTool(), SuggestCharactersHandler(svc))
	return &Server{mcpServer: mcpServer, logger: logger}
}

// Run serves over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("MCP server starting", zap.String("version", version.Version))
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	s.logger.Info("MCP server stopped")
	return nil
}
