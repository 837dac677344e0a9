package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/service"
)

// PostActivity returns a handler that validates and creates an announcement.
func PostActivity(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		title, _ := args["title"].(string)
		if title == "" {
			return mcp.NewToolResultError("title is required"), nil
		}
		message, _ := args["message"].(string)
		if message == "" {
			return mcp.NewToolResultError("message is required"), nil
		}
		category, _ := args["category"].(string)

		in := activity.CreateInput{
			Title:    title,
			Message:  message,
			Category: activity.Category(category),
		}
		if minutes, ok := args["expires_in_minutes"].(float64); ok && minutes > 0 {
			exp := time.Now().Add(time.Duration(minutes) * time.Minute)
			in.ExpiresAt = &exp
		}

		if err := activity.ValidateInput(in, time.Now()); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		a, err := svc.Create(in)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to store activity: %s", err)), nil
		}

		text := fmt.Sprintf("%s Activity posted — **%s**\nID: %s\nCategory: %s\nExpires: %s\n",
			categoryIcon(a.Category), a.Title, a.ID, a.Category, formatExpiry(a.ExpiresAt))
		return mcp.NewToolResultText(text), nil
	}
}
