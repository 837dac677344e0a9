package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/service"
)

// ListActivities returns a handler that lists visible announcements
// with optional filters.
func ListActivities(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		filter := service.Filter{
			Limit: 20,
		}

		if category, ok := args["category"].(string); ok && category != "" {
			cat := activity.Category(category)
			if !cat.Valid() {
				return mcp.NewToolResultError("category must be Maintenance, Feature, or Update"), nil
			}
			filter.Category = cat
		}
		if active, ok := args["active"].(bool); ok {
			filter.ActiveOnly = active
		}
		if limit, ok := args["limit"].(float64); ok && limit > 0 {
			filter.Limit = int(limit)
		}

		activities, err := svc.List(filter)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list activities: %s", err)), nil
		}

		if len(activities) == 0 {
			return mcp.NewToolResultText("No visible activities matching the given filters."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "📋 Activities (%d found)\n\n", len(activities))

		for _, a := range activities {
			sb.WriteString(fmt.Sprintf("%s **%s** — %s\n", categoryIcon(a.Category), a.Title, a.Category))
			sb.WriteString(fmt.Sprintf("  %s\n", a.Message))
			sb.WriteString(fmt.Sprintf("  ID: %s | Posted: %s | Expires: %s\n",
				a.ID, a.CreatedAt.Format(time.RFC3339), formatExpiry(a.ExpiresAt)))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func categoryIcon(c activity.Category) string {
	switch c {
	case activity.CategoryMaintenance:
		return "🔧"
	case activity.CategoryFeature:
		return "✨"
	case activity.CategoryUpdate:
		return "📰"
	default:
		return "📌"
	}
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
