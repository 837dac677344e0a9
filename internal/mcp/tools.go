package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kolapsis/crier/internal/mcp/handlers"
)

func registerTools(s *server.MCPServer, deps *Deps) {
	// post_activity — Publish a new announcement
	s.AddTool(
		mcp.NewTool("post_activity",
			mcp.WithDescription("Post a new activity announcement. It is stored immediately and pushed to every connected subscriber."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Announcement title (at least 3 characters)"),
			),
			mcp.WithString("message",
				mcp.Required(),
				mcp.Description("Announcement body (at least 10 characters)"),
			),
			mcp.WithString("category",
				mcp.Required(),
				mcp.Description("Announcement category"),
				mcp.Enum("Maintenance", "Feature", "Update"),
			),
			mcp.WithNumber("expires_in_minutes",
				mcp.Description("Minutes until the announcement expires. Omit for announcements that never expire."),
			),
		),
		handlers.PostActivity(deps.Activities),
	)

	// list_activities — List currently visible announcements
	s.AddTool(
		mcp.NewTool("list_activities",
			mcp.WithDescription("List activity announcements that are currently visible, newest first."),
			mcp.WithString("category",
				mcp.Description("Only show this category"),
				mcp.Enum("Maintenance", "Feature", "Update"),
			),
			mcp.WithBoolean("active",
				mcp.Description("Only show announcements whose stored active flag is set"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of announcements to return (default: 20)"),
			),
		),
		handlers.ListActivities(deps.Activities),
	)

	// get_activity — Fetch one announcement by id
	s.AddTool(
		mcp.NewTool("get_activity",
			mcp.WithDescription("Get a single activity announcement by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The activity ID"),
			),
		),
		handlers.GetActivity(deps.Activities),
	)
}
