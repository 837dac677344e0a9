package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/service"
	"github.com/kolapsis/crier/internal/store"
)

// GetActivity returns a handler that fetches one announcement by ID.
func GetActivity(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		id, _ := args["id"].(string)
		if id == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		a, err := svc.Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Activity %s not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load activity: %s", err)), nil
		}

		visible := activity.Visible(*a, time.Now())

		text := fmt.Sprintf("%s **%s** — %s\n%s\nID: %s\nPosted: %s\nExpires: %s\nVisible: %t\n",
			categoryIcon(a.Category), a.Title, a.Category, a.Message,
			a.ID, a.CreatedAt.Format(time.RFC3339), formatExpiry(a.ExpiresAt), visible)
		return mcp.NewToolResultText(text), nil
	}
}
