package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/agleymelo/daily-diet-api/client"
)

// UserHandler exposes the register_user tool.
type UserHandler struct {
	client *client.Client
}

// NewUserHandler returns a new handler.
func NewUserHandler(c *client.Client) *UserHandler {
	return &UserHandler{client: c}
}

// RegisterTools registers user tools with the MCP server.
func (uh *UserHandler) RegisterTools(s *server.MCPServer) error {
	register := mcp.NewTool("register_user",
		mcp.WithDescription("Register a daily diet user. The server keeps the returned session for every later tool call."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Full name")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address, unique per user")),
	)
	s.AddTool(register, uh.handleRegister)
	return nil
}

func (uh *UserHandler) handleRegister(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := uh.client.Register(ctx, name, email)
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			return mcp.NewToolResultError("a user with this email already exists"), nil
		}
		log.Error().Err(err).Str("email", email).Msg("register_user failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to register user: %v", err)), nil
	}
	log.Debug().Msg("register_user completed")
	return mcp.NewToolResultText(fmt.Sprintf("registered; session %s", session)), nil
}
